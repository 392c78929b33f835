package highlight

import (
	"errors"
	"reflect"
	"testing"

	"breakerbox/internal/layout"
)

func newTestEngine() *Engine {
	return NewEngine(
		[]string{"X", "Y", "K"},
		[]Device{
			{ID: "outlet-1", BreakerID: "X"},
			{ID: "light-1", BreakerID: "Y"},
			{ID: "outlet-2", BreakerID: "X"},
			{ID: "fridge", BreakerID: "K"},
			{ID: "spare"},
			{ID: "ghost", BreakerID: "gone"},
		},
	)
}

func TestByBreaker(t *testing.T) {
	e := newTestEngine()

	s, err := e.ByBreaker("X")
	if err != nil {
		t.Fatalf("ByBreaker failed: %v", err)
	}
	if s.Mode != ModeBreaker || s.Anchor != "X" {
		t.Errorf("state = %+v", s)
	}
	if want := []string{"outlet-1", "outlet-2"}; !reflect.DeepEqual(s.Devices, want) {
		t.Errorf("devices = %v, want %v", s.Devices, want)
	}
}

func TestByBreaker_NoDevices(t *testing.T) {
	e := NewEngine([]string{"lonely"}, nil)

	s, err := e.ByBreaker("lonely")
	if err != nil {
		t.Fatalf("ByBreaker failed: %v", err)
	}
	if s.Devices == nil || len(s.Devices) != 0 {
		t.Errorf("devices = %#v, want empty slice", s.Devices)
	}
}

func TestByBreaker_VirtualHalf(t *testing.T) {
	e := newTestEngine()

	s, err := e.ByBreaker("K-B")
	if err != nil {
		t.Fatalf("ByBreaker failed: %v", err)
	}
	if s.Anchor != "K-B" || !reflect.DeepEqual(s.Devices, []string{"fridge"}) {
		t.Errorf("state = %+v", s)
	}
	if !s.BreakerLit("K") || !s.BreakerLit("K-B") {
		t.Error("source breaker and its half should be lit")
	}
}

func TestByBreaker_Unknown(t *testing.T) {
	e := newTestEngine()

	if _, err := e.ByBreaker("gone"); !errors.Is(err, ErrUnknownBreaker) {
		t.Errorf("expected ErrUnknownBreaker, got %v", err)
	}
}

func TestByDevice_Siblings(t *testing.T) {
	e := newTestEngine()

	s, err := e.ByDevice("outlet-1")
	if err != nil {
		t.Fatalf("ByDevice failed: %v", err)
	}
	if s.Mode != ModeDevice || s.Anchor != "outlet-1" || s.Breaker != "X" {
		t.Errorf("state = %+v", s)
	}
	if want := []string{"outlet-2"}; !reflect.DeepEqual(s.Devices, want) {
		t.Errorf("siblings = %v, want %v", s.Devices, want)
	}
	if s.Unassigned {
		t.Error("device on X is assigned")
	}
}

func TestByDevice_OnlyChild(t *testing.T) {
	e := newTestEngine()

	s, err := e.ByDevice("light-1")
	if err != nil {
		t.Fatalf("ByDevice failed: %v", err)
	}
	if s.Breaker != "Y" || len(s.Devices) != 0 {
		t.Errorf("state = %+v", s)
	}
}

func TestByDevice_Unassigned(t *testing.T) {
	e := newTestEngine()

	s, err := e.ByDevice("spare")
	if err != nil {
		t.Fatalf("ByDevice failed: %v", err)
	}
	if !s.Unassigned || s.Breaker != "" || len(s.Devices) != 0 || len(s.Issues) != 0 {
		t.Errorf("state = %+v", s)
	}
}

func TestByDevice_DanglingReference(t *testing.T) {
	e := newTestEngine()

	s, err := e.ByDevice("ghost")
	if err != nil {
		t.Fatalf("ByDevice failed: %v", err)
	}
	if !s.Unassigned || s.Breaker != "" {
		t.Errorf("dangling device should be unassigned: %+v", s)
	}
	if len(s.Issues) != 1 || s.Issues[0].Kind != layout.IssueDanglingReference || s.Issues[0].BreakerID != "gone" {
		t.Errorf("issues = %v", s.Issues)
	}
	if len(e.Issues()) != 1 {
		t.Errorf("engine issues = %v", e.Issues())
	}
}

func TestByDevice_Unknown(t *testing.T) {
	e := newTestEngine()

	if _, err := e.ByDevice("nope"); !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("expected ErrUnknownDevice, got %v", err)
	}
}

func TestByCircuit(t *testing.T) {
	e := newTestEngine()

	s, err := e.ByCircuit([]string{"Y", "X", "Y"})
	if err != nil {
		t.Fatalf("ByCircuit failed: %v", err)
	}
	if s.Mode != ModeCircuit || s.Anchor != "Y" {
		t.Errorf("state = %+v", s)
	}
	if want := []string{"Y", "X"}; !reflect.DeepEqual(s.Breakers, want) {
		t.Errorf("breakers = %v, want %v", s.Breakers, want)
	}
	if want := []string{"outlet-1", "light-1", "outlet-2"}; !reflect.DeepEqual(s.Devices, want) {
		t.Errorf("devices = %v, want %v", s.Devices, want)
	}
	if !s.BreakerLit("X") || s.BreakerLit("K") {
		t.Error("only selected breakers should be lit")
	}
}

func TestByCircuit_Empty(t *testing.T) {
	e := newTestEngine()

	s, err := e.ByCircuit(nil)
	if err != nil {
		t.Fatalf("ByCircuit failed: %v", err)
	}
	if s.Mode != ModeNone {
		t.Errorf("mode = %s, want none", s.Mode)
	}
}

func TestHighlightTotality(t *testing.T) {
	devices := []Device{
		{ID: "d1", BreakerID: "b1"},
		{ID: "d2", BreakerID: "b2"},
		{ID: "d3", BreakerID: "b1"},
		{ID: "d4", BreakerID: "b1"},
		{ID: "d5"},
	}
	e := NewEngine([]string{"b1", "b2"}, devices)

	for _, d := range devices {
		if d.BreakerID == "" {
			continue
		}
		byBreaker, err := e.ByBreaker(d.BreakerID)
		if err != nil {
			t.Fatal(err)
		}
		if !contains(byBreaker.Devices, d.ID) {
			t.Errorf("ByBreaker(%s) misses %s", d.BreakerID, d.ID)
		}

		byDevice, err := e.ByDevice(d.ID)
		if err != nil {
			t.Fatal(err)
		}
		if contains(byDevice.Devices, d.ID) {
			t.Errorf("ByDevice(%s) lists itself as a sibling", d.ID)
		}
		for _, other := range devices {
			if other.ID != d.ID && other.BreakerID == d.BreakerID && !contains(byDevice.Devices, other.ID) {
				t.Errorf("ByDevice(%s) misses sibling %s", d.ID, other.ID)
			}
		}
	}
}

func TestStateLit(t *testing.T) {
	none := None()
	if !none.BreakerLit("anything") || !none.DeviceLit("anything") {
		t.Error("none mode must not dim anything")
	}

	e := newTestEngine()
	s, _ := e.ByDevice("outlet-2")
	if !s.DeviceLit("outlet-2") || !s.DeviceLit("outlet-1") {
		t.Error("anchor and sibling should be lit")
	}
	if s.DeviceLit("light-1") || !s.BreakerLit("X") || s.BreakerLit("Y") {
		t.Error("unrelated entities should be dimmed")
	}
}

func TestStateLit_VirtualHalves(t *testing.T) {
	e := NewEngine([]string{"X", "Y"}, []Device{
		{ID: "d1", BreakerID: "X"},
		{ID: "d2", BreakerID: "X"},
	})

	byBreaker, _ := e.ByBreaker("X")
	byDevice, _ := e.ByDevice("d1")
	byCircuit, _ := e.ByCircuit([]string{"X"})
	byHalf, _ := e.ByBreaker("X-A")

	tests := []struct {
		name  string
		state State
	}{
		{name: "breaker", state: byBreaker},
		{name: "device", state: byDevice},
		{name: "circuit", state: byCircuit},
		{name: "half anchor", state: byHalf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, id := range []string{"X", "X-A", "X-B"} {
				if !tt.state.BreakerLit(id) {
					t.Errorf("BreakerLit(%s) = false", id)
				}
			}
			for _, id := range []string{"Y", "Y-A"} {
				if tt.state.BreakerLit(id) {
					t.Errorf("BreakerLit(%s) = true", id)
				}
			}
		})
	}
}

func TestToggle(t *testing.T) {
	e := newTestEngine()
	onX, _ := e.ByBreaker("X")
	onY, _ := e.ByBreaker("Y")
	onDevice, _ := e.ByDevice("outlet-1")

	tests := []struct {
		name    string
		current State
		next    State
		want    Mode
		anchor  string
	}{
		{name: "none to breaker", current: None(), next: onX, want: ModeBreaker, anchor: "X"},
		{name: "same breaker clears", current: onX, next: onX, want: ModeNone},
		{name: "other breaker replaces", current: onX, next: onY, want: ModeBreaker, anchor: "Y"},
		{name: "breaker to device", current: onX, next: onDevice, want: ModeDevice, anchor: "outlet-1"},
		{name: "device to breaker", current: onDevice, next: onX, want: ModeBreaker, anchor: "X"},
		{name: "same device clears", current: onDevice, next: onDevice, want: ModeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Toggle(tt.current, tt.next)
			if got.Mode != tt.want || got.Anchor != tt.anchor {
				t.Errorf("Toggle() = %s/%s, want %s/%s", got.Mode, got.Anchor, tt.want, tt.anchor)
			}
		})
	}
}
