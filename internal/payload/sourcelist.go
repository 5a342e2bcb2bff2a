package payload

import (
	"fmt"
	"sync"

	"github.com/jonesrussell/payload-manager/internal/logger"
)

// SourceList holds the ordered, guarded list of sources attached to one
// handler. The list starts empty and is only ever replaced wholesale through
// SetSources; it is never appended to or trimmed in place.
type SourceList struct {
	mu        sync.RWMutex
	supported []SourceType
	sources   []Source
	observers []func(sources []Source)
	log       logger.Logger
}

// NewSourceList creates an empty source list accepting the given types.
func NewSourceList(log logger.Logger, supported ...SourceType) *SourceList {
	return &SourceList{
		supported: supported,
		log:       log,
	}
}

// SupportedSourceTypes returns a copy of the declared supported set.
func (l *SourceList) SupportedSourceTypes() []SourceType {
	types := make([]SourceType, len(l.supported))
	copy(types, l.supported)
	return types
}

// Sources returns the attached sources in insertion order. The returned
// slice is a copy; mutating it does not affect the handler.
func (l *SourceList) Sources() []Source {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sources := make([]Source, len(l.sources))
	copy(sources, l.sources)
	return sources
}

// HasSource reports whether any source is attached.
func (l *SourceList) HasSource() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sources) > 0
}

// OnSourcesChanged registers an observer invoked synchronously with the new
// list after each successful replacement. Observers must be quick and must
// not call back into the same handler. Observers run outside the list's
// lock, so when replacements race the notifications may arrive out of
// commit order; each carries the snapshot it was committed with.
func (l *SourceList) OnSourcesChanged(fn func(sources []Source)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, fn)
}

// SetSources replaces the attached sources with the given list, which may be
// empty. Every candidate's type must be in the supported set, and no
// currently attached source may be initialized; otherwise the call fails and
// the attached list is left exactly as it was. On success the replacement is
// committed atomically and every registered observer fires exactly once.
//
// The readiness check cannot catch setup work that was scheduled against the
// old list but has not flipped the readiness flag yet; such a task still
// runs against the stale sources. Callers serialize setup and replacement.
func (l *SourceList) SetSources(sources []Source) error {
	l.mu.Lock()

	for _, s := range sources {
		if !l.supports(s.Type()) {
			l.mu.Unlock()
			return fmt.Errorf("%w: type %q, accepted types %v",
				ErrIncompatibleSource, s.Type(), l.supported)
		}
	}

	for _, s := range l.sources {
		if s.IsReady() {
			l.mu.Unlock()
			return fmt.Errorf("%w: source %q is set up, tear down the sources first",
				ErrSourceSetup, s.Name())
		}
	}

	replaced := make([]Source, len(sources))
	copy(replaced, sources)
	l.sources = replaced

	observers := make([]func([]Source), len(l.observers))
	copy(observers, l.observers)
	l.mu.Unlock()

	l.log.Debug("New sources set",
		logger.Strings("sources", sourceNames(replaced)),
		logger.Int("count", len(replaced)),
	)

	snapshot := make([]Source, len(replaced))
	copy(snapshot, replaced)
	for _, fn := range observers {
		fn(snapshot)
	}

	return nil
}

func (l *SourceList) supports(t SourceType) bool {
	for _, s := range l.supported {
		if s == t {
			return true
		}
	}
	return false
}

func sourceNames(sources []Source) []string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = fmt.Sprintf("%s(%s)", s.Name(), s.Type())
	}
	return names
}
