package payload

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jonesrussell/payload-manager/internal/logger"
)

// Registry holds the handlers published by this service, keyed by name.
// Publishing makes a handler reachable under the registry's base path.
type Registry struct {
	mu       sync.RWMutex
	basePath string
	handlers map[string]Handler
	log      logger.Logger
}

// NewRegistry creates an empty registry rooted at basePath.
func NewRegistry(log logger.Logger, basePath string) *Registry {
	return &Registry{
		basePath: basePath,
		handlers: make(map[string]Handler),
		log:      log,
	}
}

// publish registers h under its name and returns the path it is reachable at.
func (r *Registry) publish(h Handler) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := h.Name()
	if _, ok := r.handlers[name]; ok {
		return "", fmt.Errorf("%w: %q", ErrAlreadyPublished, name)
	}
	r.handlers[name] = h

	path := r.basePath + "/" + name
	r.log.Info("Handler published",
		logger.String("handler", name),
		logger.String("path", path),
	)
	return path, nil
}

// Path returns the path a handler with the given name is published at.
func (r *Registry) Path(name string) string {
	return r.basePath + "/" + name
}

// Get returns the published handler with the given name.
func (r *Registry) Get(name string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHandler, name)
	}
	return h, nil
}

// List returns every published handler, sorted by name.
func (r *Registry) List() []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handlers := make([]Handler, 0, len(r.handlers))
	for _, h := range r.handlers {
		handlers = append(handlers, h)
	}
	sort.Slice(handlers, func(i, j int) bool {
		return handlers[i].Name() < handlers[j].Name()
	})
	return handlers
}
