// Package watcher applies declarative source definitions from a YAML file to
// the published handlers, once at startup and again whenever the file changes.
package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/payload-manager/internal/logger"
	"github.com/jonesrussell/payload-manager/internal/models"
	"github.com/jonesrussell/payload-manager/internal/payload"
	"github.com/jonesrussell/payload-manager/internal/sources"
)

// Definitions maps handler names to the source specs that should be attached
// to them.
type Definitions struct {
	Handlers map[string][]models.SourceSpec `yaml:"handlers"`
}

// ParseFile reads and parses a definitions file.
func ParseFile(path string) (*Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file %s: %w", path, err)
	}

	var defs Definitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}
	return &defs, nil
}

// Apply attaches the defined sources to their handlers. A failure on one
// handler (unknown name, invalid spec, guard rejection) is recorded and the
// remaining handlers are still applied.
func Apply(defs *Definitions, registry *payload.Registry, log logger.Logger) error {
	var errs []error
	for name, specs := range defs.Handlers {
		if err := applyOne(name, specs, registry); err != nil {
			log.Warn("Failed to apply source definitions",
				logger.String("handler", name),
				logger.Error(err),
			)
			errs = append(errs, fmt.Errorf("handler %q: %w", name, err))
			continue
		}
		log.Info("Applied source definitions",
			logger.String("handler", name),
			logger.Int("count", len(specs)),
		)
	}
	return errors.Join(errs...)
}

func applyOne(name string, specs []models.SourceSpec, registry *payload.Registry) error {
	hd, err := registry.Get(name)
	if err != nil {
		return err
	}
	built, err := sources.FromSpecs(specs)
	if err != nil {
		return err
	}
	return hd.SetSources(built)
}

// Watcher re-applies a definitions file on change.
type Watcher struct {
	path     string
	registry *payload.Registry
	log      logger.Logger
	fsw      *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher for the given definitions file.
func New(path string, registry *payload.Registry, log logger.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory rather than the file itself so that editors that
	// replace the file by rename keep being observed.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	return &Watcher{
		path:     path,
		registry: registry,
		log:      log,
		fsw:      fsw,
		done:     make(chan struct{}),
	}, nil
}

// Start applies the file once and then re-applies it on every change until
// Stop is called. Apply failures are logged, not fatal.
func (w *Watcher) Start() {
	w.apply()

	go func() {
		for {
			select {
			case event, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(w.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				w.log.Debug("Sources file changed",
					logger.String("file", w.path),
					logger.String("op", event.Op.String()),
				)
				w.apply()

			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				w.log.Error("Sources file watch error", logger.Error(err))

			case <-w.done:
				return
			}
		}
	}()
}

// Stop ends the watch loop and releases the underlying watcher. Calling it
// more than once is safe; later calls return nil.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) apply() {
	defs, err := ParseFile(w.path)
	if err != nil {
		w.log.Error("Failed to load sources file",
			logger.String("file", w.path),
			logger.Error(err),
		)
		return
	}
	if err := Apply(defs, w.registry, w.log); err != nil {
		w.log.Warn("Sources file applied with errors", logger.Error(err))
	}
}
