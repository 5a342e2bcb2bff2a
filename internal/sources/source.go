// Package sources provides the concrete payload.Source implementation built
// from a SourceSpec. Setup and teardown stand in for the installer's source
// initialization tasks; the handler layer only ever reads the readiness flag.
package sources

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jonesrussell/payload-manager/internal/models"
	"github.com/jonesrussell/payload-manager/internal/payload"
)

// Source is a configured installation source with a readiness flag.
type Source struct {
	spec  models.SourceSpec
	ready atomic.Bool
}

// New creates a source from a validated spec.
func New(spec models.SourceSpec) *Source {
	return &Source{spec: spec}
}

// FromSpecs builds sources from a list of specs, validating each.
func FromSpecs(specs []models.SourceSpec) ([]payload.Source, error) {
	built := make([]payload.Source, 0, len(specs))
	for i := range specs {
		if err := specs[i].Validate(); err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		built = append(built, New(specs[i]))
	}
	return built, nil
}

// Type returns the source's type discriminator.
func (s *Source) Type() payload.SourceType {
	return s.spec.Type
}

// Name returns the source's display name.
func (s *Source) Name() string {
	return s.spec.DisplayName()
}

// Spec returns the spec the source was built from.
func (s *Source) Spec() models.SourceSpec {
	return s.spec
}

// IsReady reports whether the source has been set up.
func (s *Source) IsReady() bool {
	return s.ready.Load()
}

// SetUp initializes the source and marks it ready. Setting up an already
// ready source is an error.
func (s *Source) SetUp(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.spec.Validate(); err != nil {
		return fmt.Errorf("set up source %q: %w", s.Name(), err)
	}
	if !s.ready.CompareAndSwap(false, true) {
		return fmt.Errorf("source %q is already set up", s.Name())
	}
	return nil
}

// TearDown releases the source and clears the readiness flag. Tearing down
// a source that is not set up is a no-op.
func (s *Source) TearDown(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.ready.Store(false)
	return nil
}
