// Package highlight computes which breakers and devices belong together when a
// user selects one of them. Every view that dims or emphasizes entities (panel
// grid, circuit list, floor-plan wires, elevation, sidebar) consumes the same State.
package highlight

import (
	"errors"
	"fmt"

	"breakerbox/internal/layout"
)

var (
	ErrUnknownBreaker = errors.New("highlight: unknown breaker")
	ErrUnknownDevice  = errors.New("highlight: unknown device")
)

// Mode is the kind of selection a State anchors on.
type Mode string

const (
	ModeNone    Mode = "none"
	ModeBreaker Mode = "breaker"
	ModeDevice  Mode = "device"
	ModeCircuit Mode = "circuit"
)

// Device is the part of a device record the engine needs. BreakerID is empty for
// an unassigned device.
type Device struct {
	ID        string `json:"id"`
	BreakerID string `json:"breaker_id,omitempty"`
}

// State is the resolved highlight. In ModeNone nothing is dimmed.
//
//	breaker: Anchor is the breaker, Devices its devices
//	device:  Anchor is the device, Breaker its breaker (empty when unassigned), Devices its siblings
//	circuit: Breakers are the selected breakers, Devices the union of their devices
type State struct {
	Mode       Mode           `json:"mode"`
	Anchor     string         `json:"anchor,omitempty"`
	Breaker    string         `json:"breaker,omitempty"`
	Breakers   []string       `json:"breakers,omitempty"`
	Devices    []string       `json:"devices"`
	Unassigned bool           `json:"unassigned,omitempty"`
	Issues     []layout.Issue `json:"issues,omitempty"`
}

// None is the default, fully visible state.
func None() State {
	return State{Mode: ModeNone, Devices: []string{}}
}

// Engine answers highlight queries over one immutable snapshot of a panel's
// breakers and devices. It keeps no selection state of its own.
type Engine struct {
	breakers map[string]struct{}
	devices  []Device
	byID     map[string]int
	issues   []layout.Issue
}

// NewEngine indexes the snapshot. Devices that reference a breaker missing from
// breakerIDs are treated as unassigned and reported as dangling.
func NewEngine(breakerIDs []string, devices []Device) *Engine {
	e := &Engine{
		breakers: make(map[string]struct{}, len(breakerIDs)),
		devices:  make([]Device, 0, len(devices)),
		byID:     make(map[string]int, len(devices)),
	}
	for _, id := range breakerIDs {
		e.breakers[id] = struct{}{}
	}
	for _, d := range devices {
		if _, dup := e.byID[d.ID]; dup {
			continue
		}
		if d.BreakerID != "" {
			if _, ok := e.breakers[d.BreakerID]; !ok {
				e.issues = append(e.issues, layout.Issue{
					Kind:      layout.IssueDanglingReference,
					DeviceID:  d.ID,
					BreakerID: d.BreakerID,
				})
				d.BreakerID = ""
			}
		}
		e.byID[d.ID] = len(e.devices)
		e.devices = append(e.devices, d)
	}
	return e
}

// Issues returns the dangling references found while indexing.
func (e *Engine) Issues() []layout.Issue {
	return e.issues
}

// resolveBreaker accepts a persisted id or the synthetic id of a tandem half.
func (e *Engine) resolveBreaker(id string) (string, bool) {
	if _, ok := e.breakers[id]; ok {
		return id, true
	}
	src := layout.SourceID(id)
	if _, ok := e.breakers[src]; ok {
		return src, true
	}
	return "", false
}

func (e *Engine) devicesOn(breakerID string) []string {
	out := []string{}
	for _, d := range e.devices {
		if d.BreakerID == breakerID {
			out = append(out, d.ID)
		}
	}
	return out
}

// ByBreaker highlights a breaker and every device wired to it.
func (e *Engine) ByBreaker(breakerID string) (State, error) {
	id, ok := e.resolveBreaker(breakerID)
	if !ok {
		return State{}, fmt.Errorf("%w: %s", ErrUnknownBreaker, breakerID)
	}
	return State{
		Mode:    ModeBreaker,
		Anchor:  breakerID,
		Devices: e.devicesOn(id),
	}, nil
}

// ByDevice highlights a device, its breaker and the other devices on that breaker.
func (e *Engine) ByDevice(deviceID string) (State, error) {
	i, ok := e.byID[deviceID]
	if !ok {
		return State{}, fmt.Errorf("%w: %s", ErrUnknownDevice, deviceID)
	}
	d := e.devices[i]

	s := State{Mode: ModeDevice, Anchor: deviceID, Devices: []string{}}
	if d.BreakerID == "" {
		s.Unassigned = true
		for _, issue := range e.issues {
			if issue.DeviceID == deviceID {
				s.Issues = append(s.Issues, issue)
			}
		}
		return s, nil
	}

	s.Breaker = d.BreakerID
	for _, id := range e.devicesOn(d.BreakerID) {
		if id != deviceID {
			s.Devices = append(s.Devices, id)
		}
	}
	return s, nil
}

// ByCircuit highlights several breakers at once and the union of their devices,
// in snapshot order. An empty selection is no highlight at all.
func (e *Engine) ByCircuit(breakerIDs []string) (State, error) {
	selected := make(map[string]struct{}, len(breakerIDs))
	s := State{Mode: ModeCircuit, Breakers: []string{}, Devices: []string{}}

	for _, raw := range breakerIDs {
		id, ok := e.resolveBreaker(raw)
		if !ok {
			return State{}, fmt.Errorf("%w: %s", ErrUnknownBreaker, raw)
		}
		if _, dup := selected[id]; dup {
			continue
		}
		selected[id] = struct{}{}
		s.Breakers = append(s.Breakers, id)
	}
	if len(s.Breakers) == 0 {
		return None(), nil
	}
	s.Anchor = s.Breakers[0]

	for _, d := range e.devices {
		if _, ok := selected[d.BreakerID]; ok && d.BreakerID != "" {
			s.Devices = append(s.Devices, d.ID)
		}
	}
	return s, nil
}

// BreakerLit reports whether a breaker should be drawn at full emphasis. The
// virtual halves of a combined tandem light together with their source record.
func (s State) BreakerLit(id string) bool {
	src := layout.SourceID(id)
	same := func(other string) bool {
		return other != "" && layout.SourceID(other) == src
	}

	switch s.Mode {
	case ModeNone, "":
		return true
	case ModeBreaker:
		return same(s.Anchor)
	case ModeDevice:
		return same(s.Breaker)
	case ModeCircuit:
		for _, b := range s.Breakers {
			if same(b) {
				return true
			}
		}
	}
	return false
}

// DeviceLit reports whether a device should be drawn at full emphasis.
func (s State) DeviceLit(id string) bool {
	switch s.Mode {
	case ModeNone, "":
		return true
	case ModeDevice:
		if s.Anchor == id {
			return true
		}
	}
	return contains(s.Devices, id)
}

// Toggle applies a new selection on top of the current one. Selecting the
// current anchor again clears the highlight; anything else replaces it.
func Toggle(current, next State) State {
	if current.Mode != ModeNone && current.Mode == next.Mode && current.Anchor == next.Anchor {
		return None()
	}
	return next
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
