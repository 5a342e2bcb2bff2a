package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/payload-manager/internal/models"
	"github.com/jonesrussell/payload-manager/internal/payload"
)

func TestSourceSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    models.SourceSpec
		wantErr string
	}{
		{
			name:    "missing type",
			spec:    models.SourceSpec{},
			wantErr: "source type is required",
		},
		{
			name:    "unknown type",
			spec:    models.SourceSpec{Type: "floppy"},
			wantErr: "unknown source type",
		},
		{
			name: "url source requires url",
			spec: models.SourceSpec{Type: payload.SourceTypeURL},

			wantErr: "requires a url",
		},
		{
			name: "valid url source",
			spec: models.SourceSpec{Type: payload.SourceTypeURL, URL: "https://mirror.example.com"},
		},
		{
			name:    "live image requires url",
			spec:    models.SourceSpec{Type: payload.SourceTypeLiveImage},
			wantErr: "requires a url",
		},
		{
			name:    "nfs requires url or path",
			spec:    models.SourceSpec{Type: payload.SourceTypeNFS},
			wantErr: "requires a url or a path",
		},
		{
			name: "nfs with path is valid",
			spec: models.SourceSpec{Type: payload.SourceTypeNFS, Path: "/exports/repo"},
		},
		{
			name:    "hdd requires device",
			spec:    models.SourceSpec{Type: payload.SourceTypeHDD},
			wantErr: "requires a device",
		},
		{
			name: "hdd with device is valid",
			spec: models.SourceSpec{Type: payload.SourceTypeHDD, Device: "/dev/sda2"},
		},
		{
			name: "cdrom needs nothing",
			spec: models.SourceSpec{Type: payload.SourceTypeCDROM},
		},
		{
			name: "closest mirror needs nothing",
			spec: models.SourceSpec{Type: payload.SourceTypeClosestMirror},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSourceSpec_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		spec models.SourceSpec
		want string
	}{
		{
			name: "explicit name wins",
			spec: models.SourceSpec{Type: payload.SourceTypeURL, Name: "updates", URL: "https://x"},
			want: "updates",
		},
		{
			name: "url fallback",
			spec: models.SourceSpec{Type: payload.SourceTypeURL, URL: "https://mirror.example.com"},
			want: "https://mirror.example.com",
		},
		{
			name: "device fallback",
			spec: models.SourceSpec{Type: payload.SourceTypeHDD, Device: "/dev/sda2"},
			want: "/dev/sda2",
		},
		{
			name: "type fallback",
			spec: models.SourceSpec{Type: payload.SourceTypeCDROM},
			want: "cdrom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.DisplayName())
		})
	}
}

func TestProperties_Value(t *testing.T) {
	var empty models.Properties
	val, err := empty.Value()
	require.NoError(t, err)
	assert.Nil(t, val, "empty properties store as NULL")

	props := models.Properties{"proxy": "http://proxy:3128"}
	val, err = props.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"proxy":"http://proxy:3128"}`, string(val.([]byte)))
}

func TestProperties_Scan(t *testing.T) {
	var props models.Properties

	require.NoError(t, props.Scan(nil))
	assert.Nil(t, props)

	require.NoError(t, props.Scan([]byte(`{"noverifyssl":"true"}`)))
	assert.Equal(t, models.Properties{"noverifyssl": "true"}, props)

	assert.Error(t, props.Scan(42))
}

func TestSourceSpec_JSONRoundTrip(t *testing.T) {
	spec := models.SourceSpec{
		Type:    payload.SourceTypeNFS,
		Name:    "lab-share",
		URL:     "nfs://server/exports",
		Options: models.Properties{"vers": "4"},
	}

	data, err := json.Marshal(&spec)
	require.NoError(t, err)

	var decoded models.SourceSpec
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, spec, decoded)
}
