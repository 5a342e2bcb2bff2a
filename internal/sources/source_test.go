package sources_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/payload-manager/internal/models"
	"github.com/jonesrussell/payload-manager/internal/payload"
	"github.com/jonesrussell/payload-manager/internal/sources"
)

func TestSource_Lifecycle(t *testing.T) {
	src := sources.New(models.SourceSpec{
		Type: payload.SourceTypeURL,
		URL:  "https://mirror.example.com/repo",
	})
	ctx := context.Background()

	assert.False(t, src.IsReady(), "sources start not ready")

	require.NoError(t, src.SetUp(ctx))
	assert.True(t, src.IsReady())

	err := src.SetUp(ctx)
	require.Error(t, err, "double setup must fail")
	assert.Contains(t, err.Error(), "already set up")
	assert.True(t, src.IsReady(), "failed setup leaves the flag alone")

	require.NoError(t, src.TearDown(ctx))
	assert.False(t, src.IsReady())

	require.NoError(t, src.TearDown(ctx), "teardown of an idle source is a no-op")
}

func TestSource_SetUpValidatesSpec(t *testing.T) {
	src := sources.New(models.SourceSpec{Type: payload.SourceTypeURL})

	err := src.SetUp(context.Background())
	require.Error(t, err)
	assert.False(t, src.IsReady())
}

func TestSource_SetUpHonorsContext(t *testing.T) {
	src := sources.New(models.SourceSpec{Type: payload.SourceTypeCDROM})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, src.SetUp(ctx), context.Canceled)
	assert.ErrorIs(t, src.TearDown(ctx), context.Canceled)
}

func TestSource_NameAndType(t *testing.T) {
	src := sources.New(models.SourceSpec{
		Type:   payload.SourceTypeHDD,
		Name:   "local-disk",
		Device: "/dev/sda2",
	})

	assert.Equal(t, payload.SourceTypeHDD, src.Type())
	assert.Equal(t, "local-disk", src.Name())
	assert.Equal(t, "/dev/sda2", src.Spec().Device)
}

func TestFromSpecs(t *testing.T) {
	specs := []models.SourceSpec{
		{Type: payload.SourceTypeCDROM},
		{Type: payload.SourceTypeURL, URL: "https://mirror.example.com"},
	}

	built, err := sources.FromSpecs(specs)
	require.NoError(t, err)
	require.Len(t, built, 2)
	assert.Equal(t, payload.SourceTypeCDROM, built[0].Type())
	assert.Equal(t, payload.SourceTypeURL, built[1].Type())
}

func TestFromSpecs_InvalidSpec(t *testing.T) {
	specs := []models.SourceSpec{
		{Type: payload.SourceTypeCDROM},
		{Type: payload.SourceTypeHDD}, // missing device
	}

	built, err := sources.FromSpecs(specs)
	require.Error(t, err)
	assert.Nil(t, built)
	assert.Contains(t, err.Error(), "source 1")
}

func TestFromSpecs_Empty(t *testing.T) {
	built, err := sources.FromSpecs(nil)
	require.NoError(t, err)
	assert.Empty(t, built)
}
