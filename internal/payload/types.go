// Package payload defines the payload handler contract: each handler declares
// the source types it accepts and holds a guarded, ordered list of attached
// sources. Sources are constructed and torn down by external machinery; a
// handler only stores the current references and validates replacements.
package payload

// SourceType identifies the kind of an installation source.
type SourceType string

const (
	// SourceTypeCDROM is a local optical drive source.
	SourceTypeCDROM SourceType = "cdrom"
	// SourceTypeHDD is a local hard drive partition source.
	SourceTypeHDD SourceType = "hdd"
	// SourceTypeNFS is an NFS share source.
	SourceTypeNFS SourceType = "nfs"
	// SourceTypeURL is an HTTP/FTP repository source.
	SourceTypeURL SourceType = "url"
	// SourceTypeLiveImage is a live OS image source.
	SourceTypeLiveImage SourceType = "live-os-image"
	// SourceTypeClosestMirror resolves to the nearest public mirror.
	SourceTypeClosestMirror SourceType = "closest-mirror"
	// SourceTypeCDN is the content delivery network source.
	SourceTypeCDN SourceType = "cdn"
)

// KnownSourceTypes lists every source type the service understands.
var KnownSourceTypes = []SourceType{
	SourceTypeCDROM,
	SourceTypeHDD,
	SourceTypeNFS,
	SourceTypeURL,
	SourceTypeLiveImage,
	SourceTypeClosestMirror,
	SourceTypeCDN,
}

// Known reports whether t is one of the source types the service understands.
func Known(t SourceType) bool {
	for _, known := range KnownSourceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Source is a reference to an installable content origin. IsReady reports
// whether external setup machinery has initialized the source; it must be a
// fast, side-effect-free query.
type Source interface {
	Type() SourceType
	Name() string
	IsReady() bool
}

// Handler is the capability set every concrete payload handler provides.
// The source-list operations are typically satisfied by embedding *SourceList;
// Name, SupportedSourceTypes and Publish are per-handler.
type Handler interface {
	// Name is the stable identifier the handler is published under.
	Name() string
	// SupportedSourceTypes returns the source kinds this handler accepts.
	SupportedSourceTypes() []SourceType
	// Sources returns the currently attached sources in insertion order.
	Sources() []Source
	// HasSource reports whether any source is attached.
	HasSource() bool
	// SetSources replaces the attached sources, all or nothing.
	SetSources(sources []Source) error
	// OnSourcesChanged registers an observer invoked after each successful
	// replacement.
	OnSourcesChanged(fn func(sources []Source))
	// Publish registers the handler with the service registry and returns
	// the path it is reachable at.
	Publish() (string, error)
}
