// Package models holds the wire and persistence representations of source
// configuration.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonesrussell/payload-manager/internal/payload"
)

// SourceSpec is the declarative form of an installation source, as accepted
// by the API and the sources file and as stored per attachment.
type SourceSpec struct {
	Type    payload.SourceType `json:"type"              yaml:"type"              db:"type"    binding:"required"`
	Name    string             `json:"name,omitempty"    yaml:"name,omitempty"    db:"name"`
	URL     string             `json:"url,omitempty"     yaml:"url,omitempty"     db:"url"`
	Device  string             `json:"device,omitempty"  yaml:"device,omitempty"  db:"device"`
	Path    string             `json:"path,omitempty"    yaml:"path,omitempty"    db:"path"`
	Options Properties         `json:"options,omitempty" yaml:"options,omitempty" db:"options"`
}

// Validate checks the per-type requirements of the spec.
func (s *SourceSpec) Validate() error {
	if s.Type == "" {
		return errors.New("source type is required")
	}
	if !payload.Known(s.Type) {
		return fmt.Errorf("unknown source type %q", s.Type)
	}

	switch s.Type {
	case payload.SourceTypeURL, payload.SourceTypeLiveImage:
		if s.URL == "" {
			return fmt.Errorf("source type %q requires a url", s.Type)
		}
	case payload.SourceTypeNFS:
		if s.URL == "" && s.Path == "" {
			return fmt.Errorf("source type %q requires a url or a path", s.Type)
		}
	case payload.SourceTypeHDD:
		if s.Device == "" {
			return fmt.Errorf("source type %q requires a device", s.Type)
		}
	case payload.SourceTypeCDROM, payload.SourceTypeClosestMirror, payload.SourceTypeCDN:
		// Resolved by the installer environment, nothing required here.
	}
	return nil
}

// DisplayName returns the explicit name or one derived from the spec.
func (s *SourceSpec) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	switch {
	case s.URL != "":
		return s.URL
	case s.Device != "":
		return s.Device
	case s.Path != "":
		return s.Path
	default:
		return string(s.Type)
	}
}

// Properties is a string map stored as JSONB.
type Properties map[string]string

// Value implements driver.Valuer for database storage.
func (p Properties) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for database retrieval.
func (p *Properties) Scan(value any) error {
	if value == nil {
		*p = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("properties: cannot scan %T", value)
	}
	return json.Unmarshal(bytes, p)
}
