// Package handlers implements the HTTP handlers for the payload API.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/payload-manager/internal/logger"
	"github.com/jonesrussell/payload-manager/internal/models"
	"github.com/jonesrussell/payload-manager/internal/payload"
	"github.com/jonesrussell/payload-manager/internal/sources"
)

// AttachmentStore persists the attachment set per handler.
type AttachmentStore interface {
	ReplaceForHandler(ctx context.Context, handler string, specs []models.SourceSpec) error
	ListForHandler(ctx context.Context, handler string) ([]models.SourceSpec, error)
	DeleteForHandler(ctx context.Context, handler string) error
}

// lifecycleSource is implemented by sources that external machinery can set
// up and tear down.
type lifecycleSource interface {
	SetUp(ctx context.Context) error
	TearDown(ctx context.Context) error
}

// PayloadHandler serves the handler and source endpoints.
type PayloadHandler struct {
	registry *payload.Registry
	store    AttachmentStore
	logger   logger.Logger
}

// NewPayloadHandler creates the HTTP handler set over a registry and a store.
// The store may be nil, in which case attachment sets are not persisted.
func NewPayloadHandler(registry *payload.Registry, store AttachmentStore, log logger.Logger) *PayloadHandler {
	return &PayloadHandler{
		registry: registry,
		store:    store,
		logger:   log,
	}
}

type handlerView struct {
	Name                 string               `json:"name"`
	Path                 string               `json:"path"`
	SupportedSourceTypes []payload.SourceType `json:"supported_source_types"`
	HasSource            bool                 `json:"has_source"`
}

type sourceView struct {
	Type  payload.SourceType `json:"type"`
	Name  string             `json:"name"`
	Ready bool               `json:"ready"`
}

func (h *PayloadHandler) view(hd payload.Handler) handlerView {
	return handlerView{
		Name:                 hd.Name(),
		Path:                 h.registry.Path(hd.Name()),
		SupportedSourceTypes: hd.SupportedSourceTypes(),
		HasSource:            hd.HasSource(),
	}
}

func sourceViews(list []payload.Source) []sourceView {
	views := make([]sourceView, len(list))
	for i, s := range list {
		views[i] = sourceView{Type: s.Type(), Name: s.Name(), Ready: s.IsReady()}
	}
	return views
}

// List returns every published handler.
func (h *PayloadHandler) List(c *gin.Context) {
	published := h.registry.List()
	views := make([]handlerView, len(published))
	for i, hd := range published {
		views[i] = h.view(hd)
	}

	c.JSON(http.StatusOK, gin.H{
		"handlers": views,
		"count":    len(views),
	})
}

// GetByName returns one handler with its attached sources.
func (h *PayloadHandler) GetByName(c *gin.Context) {
	hd, err := h.handler(c)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"handler": h.view(hd),
		"sources": sourceViews(hd.Sources()),
	})
}

// GetSources returns a handler's attached sources.
func (h *PayloadHandler) GetSources(c *gin.Context) {
	hd, err := h.handler(c)
	if err != nil {
		return
	}

	list := hd.Sources()
	c.JSON(http.StatusOK, gin.H{
		"sources": sourceViews(list),
		"count":   len(list),
	})
}

// SetSources replaces a handler's attached sources with the posted specs.
func (h *PayloadHandler) SetSources(c *gin.Context) {
	hd, err := h.handler(c)
	if err != nil {
		return
	}

	var specs []models.SourceSpec
	if bindErr := c.ShouldBindJSON(&specs); bindErr != nil {
		h.logger.Debug("Invalid request body",
			logger.String("handler", hd.Name()),
			logger.String("error", bindErr.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": bindErr.Error()})
		return
	}

	built, buildErr := sources.FromSpecs(specs)
	if buildErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source spec", "details": buildErr.Error()})
		return
	}

	if !h.replaceSources(c, hd, built) {
		return
	}

	if h.store != nil {
		if storeErr := h.store.ReplaceForHandler(c.Request.Context(), hd.Name(), specs); storeErr != nil {
			h.logger.Error("Failed to persist sources",
				logger.String("handler", hd.Name()),
				logger.Error(storeErr),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist sources"})
			return
		}
	}

	h.logger.Info("Sources replaced",
		logger.String("handler", hd.Name()),
		logger.Int("count", len(built)),
	)

	c.JSON(http.StatusOK, gin.H{
		"sources": sourceViews(hd.Sources()),
		"count":   len(built),
	})
}

// ClearSources replaces a handler's attached sources with the empty list.
func (h *PayloadHandler) ClearSources(c *gin.Context) {
	hd, err := h.handler(c)
	if err != nil {
		return
	}

	if !h.replaceSources(c, hd, nil) {
		return
	}

	if h.store != nil {
		if storeErr := h.store.DeleteForHandler(c.Request.Context(), hd.Name()); storeErr != nil {
			h.logger.Error("Failed to delete persisted sources",
				logger.String("handler", hd.Name()),
				logger.Error(storeErr),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete persisted sources"})
			return
		}
	}

	h.logger.Info("Sources cleared",
		logger.String("handler", hd.Name()),
	)

	c.JSON(http.StatusNoContent, nil)
}

// SetupSources runs setup on every attached source of a handler.
func (h *PayloadHandler) SetupSources(c *gin.Context) {
	h.runLifecycle(c, "setup", func(ctx context.Context, s lifecycleSource) error {
		return s.SetUp(ctx)
	})
}

// TeardownSources runs teardown on every attached source of a handler.
func (h *PayloadHandler) TeardownSources(c *gin.Context) {
	h.runLifecycle(c, "teardown", func(ctx context.Context, s lifecycleSource) error {
		return s.TearDown(ctx)
	})
}

func (h *PayloadHandler) runLifecycle(c *gin.Context, op string, run func(context.Context, lifecycleSource) error) {
	hd, err := h.handler(c)
	if err != nil {
		return
	}

	for _, s := range hd.Sources() {
		ls, ok := s.(lifecycleSource)
		if !ok {
			continue
		}
		if runErr := run(c.Request.Context(), ls); runErr != nil {
			h.logger.Error("Source lifecycle operation failed",
				logger.String("handler", hd.Name()),
				logger.String("operation", op),
				logger.String("source", s.Name()),
				logger.Error(runErr),
			)
			c.JSON(http.StatusConflict, gin.H{"error": "Source " + op + " failed", "details": runErr.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": sourceViews(hd.Sources()),
	})
}

// replaceSources applies the replacement and writes the error response when
// the guard rejects it. Returns true on success.
func (h *PayloadHandler) replaceSources(c *gin.Context, hd payload.Handler, built []payload.Source) bool {
	if err := hd.SetSources(built); err != nil {
		switch {
		case errors.Is(err, payload.ErrIncompatibleSource):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Incompatible source", "details": err.Error()})
		case errors.Is(err, payload.ErrSourceSetup):
			c.JSON(http.StatusConflict, gin.H{"error": "Source setup conflict", "details": err.Error()})
		default:
			h.logger.Error("Failed to set sources",
				logger.String("handler", hd.Name()),
				logger.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set sources"})
		}
		return false
	}
	return true
}

func (h *PayloadHandler) handler(c *gin.Context) (payload.Handler, error) {
	name := c.Param("name")
	hd, err := h.registry.Get(name)
	if err != nil {
		h.logger.Debug("Handler not found",
			logger.String("handler", name),
		)
		c.JSON(http.StatusNotFound, gin.H{"error": "Handler not found"})
		return nil, err
	}
	return hd, nil
}
