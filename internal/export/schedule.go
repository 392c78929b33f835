package export

import (
	"bytes"
	"fmt"

	"breakerbox/internal/layout"

	"github.com/xuri/excelize/v2"
)

const (
	scheduleSheet = "schedule"
	issuesSheet   = "issues"
)

var scheduleHeader = []string{"Slot", "Column", "Content", "Breaker", "Label", "Amperage", "Poles", "Circuit Type", "Protection", "Energized"}

// BuildScheduleXLSX renders a panel schedule from its grid: one row per slot (one
// per half for tandem slots), rows ordered left then right within each grid row.
func BuildScheduleXLSX(panelName string, grid *layout.Grid) ([]byte, error) {
	if grid == nil {
		return nil, fmt.Errorf("nil grid")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scheduleSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(issuesSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(scheduleSheet, "A1", "Panel Schedule")
	_ = f.SetCellValue(scheduleSheet, "B1", panelName)
	_ = f.SetCellValue(scheduleSheet, "A2", "Total Slots")
	_ = f.SetCellValue(scheduleSheet, "B2", grid.TotalSlots)

	headerRow := 3
	for i, h := range scheduleHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(scheduleSheet, cell, h)
	}

	row := headerRow + 1
	for i := range grid.Left {
		for _, s := range []layout.Slot{grid.Left[i], grid.Right[i]} {
			for _, line := range scheduleLines(s) {
				for col, v := range line {
					cell, _ := excelize.CoordinatesToCellName(col+1, row)
					_ = f.SetCellValue(scheduleSheet, cell, v)
				}
				row++
			}
		}
	}

	_ = f.SetCellValue(issuesSheet, "A1", "Kind")
	_ = f.SetCellValue(issuesSheet, "B1", "Breaker")
	_ = f.SetCellValue(issuesSheet, "C1", "Device")
	_ = f.SetCellValue(issuesSheet, "D1", "Position")
	_ = f.SetCellValue(issuesSheet, "E1", "Detail")
	for i, issue := range grid.Issues {
		r := i + 2
		_ = f.SetCellValue(issuesSheet, fmt.Sprintf("A%d", r), string(issue.Kind))
		_ = f.SetCellValue(issuesSheet, fmt.Sprintf("B%d", r), issue.BreakerID)
		_ = f.SetCellValue(issuesSheet, fmt.Sprintf("C%d", r), issue.DeviceID)
		_ = f.SetCellValue(issuesSheet, fmt.Sprintf("D%d", r), issue.Position)
		_ = f.SetCellValue(issuesSheet, fmt.Sprintf("E%d", r), issue.String())
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func scheduleLines(s layout.Slot) [][]any {
	base := func(slot string, content layout.Content) []any {
		return []any{slot, string(s.Column), string(content)}
	}
	withBreaker := func(line []any, b *layout.Breaker, poles int) []any {
		if b == nil {
			return append(line, "", "", "", "", "", "", "")
		}
		return append(line, b.ID, b.Label, b.Amperage, poles, b.CircuitType, b.ProtectionType, onOff(b.IsEnergized))
	}

	slot := fmt.Sprintf("%d", s.Number)
	switch s.Content {
	case layout.ContentOccupied:
		return [][]any{withBreaker(base(slot, s.Content), s.Breaker, s.Poles)}
	case layout.ContentTandem:
		return [][]any{
			withBreaker(base(slot+string(layout.HalfA), s.Content), s.Tandem.A, 1),
			withBreaker(base(slot+string(layout.HalfB), s.Content), s.Tandem.B, 1),
		}
	case layout.ContentCovered:
		return [][]any{append(base(slot, s.Content), s.CoveredBy)}
	default:
		return [][]any{base(slot, s.Content)}
	}
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
