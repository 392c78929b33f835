package models

import (
	"time"

	"breakerbox/internal/highlight"
	"breakerbox/internal/layout"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Panel is a breaker panel (load center) in a building
type Panel struct {
	bun.BaseModel `bun:"table:panels,alias:p"`

	ID         uuid.UUID `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Name       string    `bun:"name,notnull" json:"name"`
	Location   *string   `bun:"location" json:"location"`
	TotalSlots *int      `bun:"total_slots" json:"total_slots"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Slots returns the panel's slot count, falling back to the given default
func (p *Panel) Slots(fallback int) int {
	if p.TotalSlots == nil || *p.TotalSlots < 0 {
		return fallback
	}
	return *p.TotalSlots
}

// Breaker is a breaker mounted in a panel. Position is the free-form slot notation
// ("5", "1-3", "14A", "14A/14B").
type Breaker struct {
	bun.BaseModel `bun:"table:breakers,alias:b"`

	ID             uuid.UUID `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	PanelID        uuid.UUID `bun:"panel_id,type:uuid,notnull" json:"panel_id"`
	Position       string    `bun:"position,notnull" json:"position"`
	PoleCount      *int      `bun:"pole_count" json:"pole_count"`
	Amperage       int       `bun:"amperage" json:"amperage"`
	Label          string    `bun:"label" json:"label"`
	CircuitType    string    `bun:"circuit_type" json:"circuit_type"`
	ProtectionType string    `bun:"protection_type" json:"protection_type"`
	IsEnergized    bool      `bun:"is_energized,notnull,default:true" json:"is_energized"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// ToLayout converts the row into the layout engine's snapshot type
func (b *Breaker) ToLayout() layout.Breaker {
	poles := 0
	if b.PoleCount != nil {
		poles = *b.PoleCount
	}
	return layout.Breaker{
		ID:             b.ID.String(),
		Position:       b.Position,
		PoleCount:      poles,
		Amperage:       b.Amperage,
		Label:          b.Label,
		CircuitType:    b.CircuitType,
		ProtectionType: b.ProtectionType,
		IsEnergized:    b.IsEnergized,
	}
}

// Device is an outlet, light or appliance living in a room. BreakerID is nil when
// the device is not wired to any breaker.
type Device struct {
	bun.BaseModel `bun:"table:devices,alias:d"`

	ID        uuid.UUID  `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	RoomID    *uuid.UUID `bun:"room_id,type:uuid" json:"room_id"`
	BreakerID *uuid.UUID `bun:"breaker_id,type:uuid" json:"breaker_id"`
	Type      string     `bun:"type" json:"type"`
	Name      string     `bun:"name" json:"name"`
	CreatedAt time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// ToHighlight converts the row into the highlight engine's snapshot type
func (d *Device) ToHighlight() highlight.Device {
	out := highlight.Device{ID: d.ID.String()}
	if d.BreakerID != nil {
		out.BreakerID = d.BreakerID.String()
	}
	return out
}

// BreakersToLayout converts rows preserving their order
func BreakersToLayout(rows []Breaker) []layout.Breaker {
	out := make([]layout.Breaker, len(rows))
	for i := range rows {
		out[i] = rows[i].ToLayout()
	}
	return out
}

// DevicesToHighlight converts rows preserving their order
func DevicesToHighlight(rows []Device) []highlight.Device {
	out := make([]highlight.Device, len(rows))
	for i := range rows {
		out[i] = rows[i].ToHighlight()
	}
	return out
}
