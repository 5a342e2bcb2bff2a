// Package bootstrap handles application initialization and lifecycle
// management for the payload-manager service.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jonesrussell/payload-manager/internal/logger"
	"github.com/jonesrussell/payload-manager/internal/payload"
	"github.com/jonesrussell/payload-manager/internal/repository"
	"github.com/jonesrussell/payload-manager/internal/watcher"
)

const version = "dev"

// Start initializes and starts the payload-manager application.
func Start() error {
	// Phase 1: Load config and create logger
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg, version)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Setup database
	db, err := SetupDatabase(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", logger.Error(closeErr))
		}
	}()

	// Phase 3: Setup event publisher (optional)
	publisher := SetupEventPublisher(cfg, log)

	// Phase 4: Publish handlers and wire observers
	registry, err := SetupHandlers(publisher, log)
	if err != nil {
		return fmt.Errorf("failed to publish handlers: %w", err)
	}

	// Phase 5: Restore persisted attachments
	repo := repository.NewAttachmentRepository(db.DB(), log)
	if restoreErr := RestoreAttachments(context.Background(), repo, registry, log); restoreErr != nil {
		log.Warn("Attachment restore completed with errors", logger.Error(restoreErr))
	}

	// Phase 6: Apply declarative sources (optional)
	if cfg.Sources.File != "" {
		if cfg.Sources.Watch {
			w, watchErr := watcher.New(cfg.Sources.File, registry, log)
			if watchErr != nil {
				return fmt.Errorf("failed to watch sources file: %w", watchErr)
			}
			w.Start()
			defer func() {
				if stopErr := w.Stop(); stopErr != nil {
					log.Error("Failed to stop sources watcher", logger.Error(stopErr))
				}
			}()
		} else if applyErr := applySourcesFile(cfg.Sources.File, registry, log); applyErr != nil {
			log.Warn("Sources file applied with errors", logger.Error(applyErr))
		}
	}

	// Phase 7: Run HTTP server until shutdown
	if runErr := RunHTTPServer(cfg, repo, registry, log); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}

func applySourcesFile(path string, registry *payload.Registry, log logger.Logger) error {
	defs, err := watcher.ParseFile(path)
	if err != nil {
		return err
	}
	return watcher.Apply(defs, registry, log)
}
