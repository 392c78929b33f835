package cli

import (
	"fmt"
	"os"

	"breakerbox/internal/highlight"
	"breakerbox/internal/layout"

	"gopkg.in/yaml.v3"
)

// Snapshot is a panel exported to a file: the panel, its breakers in mounting
// order and the devices wired to them. JSON files decode through the same path.
type Snapshot struct {
	Panel struct {
		Name       string `yaml:"name"`
		TotalSlots *int   `yaml:"total_slots"`
	} `yaml:"panel"`
	Breakers []SnapshotBreaker `yaml:"breakers"`
	Devices  []SnapshotDevice  `yaml:"devices"`
}

type SnapshotBreaker struct {
	ID             string `yaml:"id"`
	Position       string `yaml:"position"`
	PoleCount      int    `yaml:"pole_count"`
	Amperage       int    `yaml:"amperage"`
	Label          string `yaml:"label"`
	CircuitType    string `yaml:"circuit_type"`
	ProtectionType string `yaml:"protection_type"`
	IsEnergized    *bool  `yaml:"is_energized"` // defaults to on
}

type SnapshotDevice struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	BreakerID string `yaml:"breaker_id"`
}

// LoadSnapshot reads and validates a snapshot file
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot decodes a YAML or JSON snapshot
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the structural requirements the engines rely on: ids present
// and unique. Bad positions are not errors; the grid reports them.
func (s *Snapshot) Validate() error {
	if s.Panel.TotalSlots != nil && *s.Panel.TotalSlots < 0 {
		return fmt.Errorf("panel total_slots must be >= 0, got %d", *s.Panel.TotalSlots)
	}

	seen := make(map[string]struct{}, len(s.Breakers))
	for i, b := range s.Breakers {
		if b.ID == "" {
			return fmt.Errorf("breaker #%d has no id", i+1)
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("duplicate breaker id %q", b.ID)
		}
		seen[b.ID] = struct{}{}
	}

	devices := make(map[string]struct{}, len(s.Devices))
	for i, d := range s.Devices {
		if d.ID == "" {
			return fmt.Errorf("device #%d has no id", i+1)
		}
		if _, dup := devices[d.ID]; dup {
			return fmt.Errorf("duplicate device id %q", d.ID)
		}
		devices[d.ID] = struct{}{}
	}
	return nil
}

// Slots returns the panel's slot count or the fallback when the file has none
func (s *Snapshot) Slots(fallback int) int {
	if s.Panel.TotalSlots == nil {
		return fallback
	}
	return *s.Panel.TotalSlots
}

func (s *Snapshot) LayoutBreakers() []layout.Breaker {
	out := make([]layout.Breaker, len(s.Breakers))
	for i, b := range s.Breakers {
		on := true
		if b.IsEnergized != nil {
			on = *b.IsEnergized
		}
		out[i] = layout.Breaker{
			ID:             b.ID,
			Position:       b.Position,
			PoleCount:      b.PoleCount,
			Amperage:       b.Amperage,
			Label:          b.Label,
			CircuitType:    b.CircuitType,
			ProtectionType: b.ProtectionType,
			IsEnergized:    on,
		}
	}
	return out
}

func (s *Snapshot) HighlightDevices() []highlight.Device {
	out := make([]highlight.Device, len(s.Devices))
	for i, d := range s.Devices {
		out[i] = highlight.Device{ID: d.ID, BreakerID: d.BreakerID}
	}
	return out
}

// Engine builds a highlight engine over the snapshot
func (s *Snapshot) Engine() *highlight.Engine {
	ids := make([]string, len(s.Breakers))
	for i, b := range s.Breakers {
		ids[i] = b.ID
	}
	return highlight.NewEngine(ids, s.HighlightDevices())
}

// DeviceName returns the device's display name, or its id
func (s *Snapshot) DeviceName(id string) string {
	for _, d := range s.Devices {
		if d.ID == id && d.Name != "" {
			return d.Name
		}
	}
	return id
}
