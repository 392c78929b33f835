package layout

import "fmt"

// IssueKind names a recoverable data-quality problem found while laying out a panel.
type IssueKind string

const (
	IssueUnparseable       IssueKind = "unparseable"
	IssueSlotConflict      IssueKind = "slot_conflict"
	IssueTandemConflict    IssueKind = "tandem_conflict"
	IssueOutOfRange        IssueKind = "out_of_range"
	IssueDanglingReference IssueKind = "dangling_reference"
)

// Issue is reported instead of failing. The breaker (or device) it names is kept out
// of the grid but never silently dropped.
type Issue struct {
	Kind          IssueKind `json:"kind"`
	BreakerID     string    `json:"breaker_id,omitempty"`
	DeviceID      string    `json:"device_id,omitempty"`
	Position      string    `json:"position,omitempty"`
	Slot          int       `json:"slot,omitempty"`
	ConflictsWith string    `json:"conflicts_with,omitempty"`
}

func (i Issue) String() string {
	switch i.Kind {
	case IssueUnparseable:
		return fmt.Sprintf("breaker %s: unparseable position %q", i.BreakerID, i.Position)
	case IssueSlotConflict:
		return fmt.Sprintf("breaker %s: slot %d already taken by %s", i.BreakerID, i.Slot, i.ConflictsWith)
	case IssueTandemConflict:
		return fmt.Sprintf("breaker %s: tandem half %q already taken by %s", i.BreakerID, i.Position, i.ConflictsWith)
	case IssueOutOfRange:
		return fmt.Sprintf("breaker %s: slot %d is outside the panel", i.BreakerID, i.Slot)
	case IssueDanglingReference:
		return fmt.Sprintf("device %s: references missing breaker %s", i.DeviceID, i.BreakerID)
	default:
		return string(i.Kind)
	}
}

// CountByKind tallies issues per kind.
func CountByKind(issues []Issue) map[IssueKind]int {
	counts := make(map[IssueKind]int)
	for _, i := range issues {
		counts[i.Kind]++
	}
	return counts
}
