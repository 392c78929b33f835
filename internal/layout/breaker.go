package layout

import "strings"

// Breaker is the read-only snapshot of a breaker record the layout engine works on.
type Breaker struct {
	ID             string `json:"id"`
	Position       string `json:"position"`
	PoleCount      int    `json:"pole_count,omitempty"` // 0 when the record has none
	Amperage       int    `json:"amperage"`
	Label          string `json:"label"`
	CircuitType    string `json:"circuit_type"`
	ProtectionType string `json:"protection_type"`
	IsEnergized    bool   `json:"is_energized"`

	// Set on synthetic halves derived from a combined tandem record.
	Virtual  bool   `json:"virtual,omitempty"`
	SourceID string `json:"source_id,omitempty"`
}

// EffectivePoles returns the pole count to display for a breaker. A range position
// is authoritative; otherwise the record's own pole count is used when it is set.
func EffectivePoles(b Breaker) int {
	p := ParsePosition(b.Position)
	if p.Kind == KindRange {
		return p.Poles()
	}
	if b.PoleCount >= 1 {
		return b.PoleCount
	}
	return 1
}

// VirtualHalf projects one half of a combined tandem record. The copy keeps every
// display attribute, gets a synthetic "<id>-<half>" id and is never written back.
func VirtualHalf(b Breaker, slot int, h Half) Breaker {
	v := b
	v.ID = b.ID + "-" + string(h)
	v.Position = Position{Kind: KindTandemHalf, Slot: slot, Half: h}.String()
	v.PoleCount = 1
	v.Virtual = true
	v.SourceID = b.ID
	return v
}

// SourceID maps a synthetic half id back to the id of its persisted record.
// Ids without a half suffix come back unchanged.
func SourceID(id string) string {
	for _, suffix := range []string{"-A", "-B"} {
		if strings.HasSuffix(id, suffix) && len(id) > len(suffix) {
			return strings.TrimSuffix(id, suffix)
		}
	}
	return id
}

// WithPosition returns a copy of breakers with the breaker identified by id moved to
// position. The input slice is left untouched. ok is false when no breaker has that id.
func WithPosition(breakers []Breaker, id, position string) (patched []Breaker, ok bool) {
	patched = make([]Breaker, len(breakers))
	copy(patched, breakers)
	for i := range patched {
		if patched[i].ID == id {
			patched[i].Position = position
			ok = true
		}
	}
	return patched, ok
}
