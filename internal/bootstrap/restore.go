package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonesrussell/payload-manager/internal/handlers"
	"github.com/jonesrussell/payload-manager/internal/logger"
	"github.com/jonesrussell/payload-manager/internal/payload"
	"github.com/jonesrussell/payload-manager/internal/sources"
)

// RestoreAttachments reattaches the persisted source set of every published
// handler, so a restarted service serves the state it last committed. A
// failure on one handler (bad stored spec, guard rejection) is recorded and
// the remaining handlers are still restored.
func RestoreAttachments(ctx context.Context, store handlers.AttachmentStore, registry *payload.Registry, log logger.Logger) error {
	var errs []error
	for _, h := range registry.List() {
		specs, err := store.ListForHandler(ctx, h.Name())
		if err != nil {
			log.Warn("Failed to load persisted sources",
				logger.String("handler", h.Name()),
				logger.Error(err),
			)
			errs = append(errs, fmt.Errorf("handler %q: %w", h.Name(), err))
			continue
		}
		if len(specs) == 0 {
			continue
		}

		built, err := sources.FromSpecs(specs)
		if err == nil {
			err = h.SetSources(built)
		}
		if err != nil {
			log.Warn("Failed to restore persisted sources",
				logger.String("handler", h.Name()),
				logger.Error(err),
			)
			errs = append(errs, fmt.Errorf("handler %q: %w", h.Name(), err))
			continue
		}

		log.Info("Restored persisted sources",
			logger.String("handler", h.Name()),
			logger.Int("count", len(specs)),
		)
	}
	return errors.Join(errs...)
}
