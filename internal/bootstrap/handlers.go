package bootstrap

import (
	"fmt"

	"github.com/jonesrussell/payload-manager/internal/api"
	"github.com/jonesrussell/payload-manager/internal/events"
	"github.com/jonesrussell/payload-manager/internal/logger"
	"github.com/jonesrussell/payload-manager/internal/payload"
)

// SetupHandlers creates the registry, publishes every concrete handler and
// attaches the event publisher to each handler's change notifications.
func SetupHandlers(publisher *events.Publisher, log logger.Logger) (*payload.Registry, error) {
	registry := payload.NewRegistry(log, api.BasePath+"/handlers")

	published := []payload.Handler{
		payload.NewDNFHandler(registry, log),
		payload.NewLiveImageHandler(registry, log),
		payload.NewOSTreeHandler(registry, log),
	}

	for _, h := range published {
		path, err := h.Publish()
		if err != nil {
			return nil, fmt.Errorf("publish handler %q: %w", h.Name(), err)
		}

		wireEvents(h, path, publisher)
	}

	return registry, nil
}

// wireEvents announces the handler and forwards its source-list changes to
// the event stream. A nil publisher makes both no-ops.
func wireEvents(h payload.Handler, path string, publisher *events.Publisher) {
	name := h.Name()

	publisher.PublishAsync(events.PayloadEvent{
		EventType: events.HandlerPublished,
		Handler:   name,
		Payload: events.HandlerPublishedPayload{
			Path:           path,
			SupportedTypes: typeNames(h.SupportedSourceTypes()),
		},
	})

	h.OnSourcesChanged(func(list []payload.Source) {
		types := make([]string, len(list))
		for i, s := range list {
			types[i] = string(s.Type())
		}
		publisher.PublishAsync(events.PayloadEvent{
			EventType: events.SourcesChanged,
			Handler:   name,
			Payload: events.SourcesChangedPayload{
				Count: len(list),
				Types: types,
			},
		})
	})
}

func typeNames(types []payload.SourceType) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}
