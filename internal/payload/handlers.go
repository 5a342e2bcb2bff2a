package payload

import "github.com/jonesrussell/payload-manager/internal/logger"

// Handler names. These are the published identifiers and part of the API.
const (
	DNFHandlerName       = "dnf"
	LiveImageHandlerName = "live-image"
	OSTreeHandlerName    = "ostree"
)

// DNFHandler installs payloads from package repositories.
type DNFHandler struct {
	*SourceList
	registry *Registry
}

// NewDNFHandler creates the dnf handler bound to the given registry.
func NewDNFHandler(registry *Registry, log logger.Logger) *DNFHandler {
	return &DNFHandler{
		SourceList: NewSourceList(
			log.With(logger.String("handler", DNFHandlerName)),
			SourceTypeCDROM,
			SourceTypeHDD,
			SourceTypeNFS,
			SourceTypeURL,
			SourceTypeClosestMirror,
			SourceTypeCDN,
		),
		registry: registry,
	}
}

// Name returns the published handler name.
func (h *DNFHandler) Name() string {
	return DNFHandlerName
}

// Publish registers the handler and returns its path.
func (h *DNFHandler) Publish() (string, error) {
	return h.registry.publish(h)
}

// LiveImageHandler installs payloads by deploying a live OS image.
type LiveImageHandler struct {
	*SourceList
	registry *Registry
}

// NewLiveImageHandler creates the live-image handler bound to the given registry.
func NewLiveImageHandler(registry *Registry, log logger.Logger) *LiveImageHandler {
	return &LiveImageHandler{
		SourceList: NewSourceList(
			log.With(logger.String("handler", LiveImageHandlerName)),
			SourceTypeURL,
			SourceTypeLiveImage,
		),
		registry: registry,
	}
}

// Name returns the published handler name.
func (h *LiveImageHandler) Name() string {
	return LiveImageHandlerName
}

// Publish registers the handler and returns its path.
func (h *LiveImageHandler) Publish() (string, error) {
	return h.registry.publish(h)
}

// OSTreeHandler installs payloads from an OSTree repository.
type OSTreeHandler struct {
	*SourceList
	registry *Registry
}

// NewOSTreeHandler creates the ostree handler bound to the given registry.
func NewOSTreeHandler(registry *Registry, log logger.Logger) *OSTreeHandler {
	return &OSTreeHandler{
		SourceList: NewSourceList(
			log.With(logger.String("handler", OSTreeHandlerName)),
			SourceTypeURL,
		),
		registry: registry,
	}
}

// Name returns the published handler name.
func (h *OSTreeHandler) Name() string {
	return OSTreeHandlerName
}

// Publish registers the handler and returns its path.
func (h *OSTreeHandler) Publish() (string, error) {
	return h.registry.publish(h)
}
