package bootstrap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/payload-manager/internal/bootstrap"
	"github.com/jonesrussell/payload-manager/internal/models"
	"github.com/jonesrussell/payload-manager/internal/payload"
	"github.com/jonesrussell/payload-manager/internal/testhelpers"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ReplaceForHandler(ctx context.Context, handler string, specs []models.SourceSpec) error {
	args := m.Called(ctx, handler, specs)
	return args.Error(0)
}

func (m *mockStore) ListForHandler(ctx context.Context, handler string) ([]models.SourceSpec, error) {
	args := m.Called(ctx, handler)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SourceSpec), args.Error(1)
}

func (m *mockStore) DeleteForHandler(ctx context.Context, handler string) error {
	args := m.Called(ctx, handler)
	return args.Error(0)
}

func newRegistry(t *testing.T) *payload.Registry {
	t.Helper()
	log := testhelpers.NewTestLogger()
	registry := payload.NewRegistry(log, "/api/v1/handlers")

	for _, h := range []payload.Handler{
		payload.NewDNFHandler(registry, log),
		payload.NewLiveImageHandler(registry, log),
		payload.NewOSTreeHandler(registry, log),
	} {
		_, err := h.Publish()
		require.NoError(t, err)
	}
	return registry
}

func TestRestoreAttachments(t *testing.T) {
	registry := newRegistry(t)

	store := new(mockStore)
	store.On("ListForHandler", mock.Anything, "dnf").Return([]models.SourceSpec{
		{Type: payload.SourceTypeCDROM, Name: "install-media"},
		{Type: payload.SourceTypeURL, URL: "https://mirror.example.com/repo"},
	}, nil)
	store.On("ListForHandler", mock.Anything, "live-image").Return(nil, nil)
	store.On("ListForHandler", mock.Anything, "ostree").Return([]models.SourceSpec{
		{Type: payload.SourceTypeURL, URL: "https://ostree.example.com/repo"},
	}, nil)

	err := bootstrap.RestoreAttachments(context.Background(), store, registry, testhelpers.NewTestLogger())
	require.NoError(t, err)

	dnf, err := registry.Get("dnf")
	require.NoError(t, err)
	list := dnf.Sources()
	require.Len(t, list, 2, "stored rows come back on startup")
	assert.Equal(t, "install-media", list[0].Name())
	assert.Equal(t, payload.SourceTypeURL, list[1].Type())

	liveImage, err := registry.Get("live-image")
	require.NoError(t, err)
	assert.False(t, liveImage.HasSource(), "handlers without rows stay empty")

	ostree, err := registry.Get("ostree")
	require.NoError(t, err)
	assert.True(t, ostree.HasSource())

	store.AssertExpectations(t)
}

func TestRestoreAttachments_ContinuesPastFailures(t *testing.T) {
	registry := newRegistry(t)

	store := new(mockStore)
	store.On("ListForHandler", mock.Anything, "dnf").Return(nil, assert.AnError)
	// Stored rows that no longer pass the type guard must not wedge startup.
	store.On("ListForHandler", mock.Anything, "live-image").Return([]models.SourceSpec{
		{Type: payload.SourceTypeCDROM},
	}, nil)
	store.On("ListForHandler", mock.Anything, "ostree").Return([]models.SourceSpec{
		{Type: payload.SourceTypeURL, URL: "https://ostree.example.com/repo"},
	}, nil)

	err := bootstrap.RestoreAttachments(context.Background(), store, registry, testhelpers.NewTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `handler "dnf"`)
	assert.Contains(t, err.Error(), `handler "live-image"`)

	liveImage, getErr := registry.Get("live-image")
	require.NoError(t, getErr)
	assert.False(t, liveImage.HasSource())

	ostree, getErr := registry.Get("ostree")
	require.NoError(t, getErr)
	assert.True(t, ostree.HasSource(), "healthy handlers still restore")
}
