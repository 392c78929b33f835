package export

import (
	"bytes"
	"testing"

	"breakerbox/internal/layout"

	"github.com/xuri/excelize/v2"
)

func TestBuildScheduleXLSX(t *testing.T) {
	grid, err := layout.BuildGrid([]layout.Breaker{
		{ID: "dryer", Position: "1-3", Label: "Dryer", Amperage: 30, IsEnergized: true},
		{ID: "k", Position: "2A/2B", Label: "Kitchen", Amperage: 15},
		{ID: "bad", Position: "??"},
	}, 4)
	if err != nil {
		t.Fatalf("BuildGrid failed: %v", err)
	}

	data, err := BuildScheduleXLSX("Main", grid)
	if err != nil {
		t.Fatalf("BuildScheduleXLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(scheduleSheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if rows[0][1] != "Main" {
		t.Errorf("panel name = %q", rows[0][1])
	}

	body := rows[3:]
	// slot 1, slots 2A and 2B, slot 3, slot 4
	if len(body) != 5 {
		t.Fatalf("schedule rows = %d, want 5: %v", len(body), body)
	}
	if body[0][0] != "1" || body[0][4] != "Dryer" || body[0][6] != "2" || body[0][9] != "ON" {
		t.Errorf("slot 1 row = %v", body[0])
	}
	if body[1][0] != "2A" || body[1][3] != "k-A" || body[2][0] != "2B" || body[2][3] != "k-B" {
		t.Errorf("tandem rows = %v / %v", body[1], body[2])
	}
	if body[3][2] != string(layout.ContentCovered) || body[3][3] != "dryer" {
		t.Errorf("slot 3 row = %v", body[3])
	}
	if body[4][2] != string(layout.ContentEmpty) {
		t.Errorf("slot 4 row = %v", body[4])
	}

	issues, err := f.GetRows(issuesSheet)
	if err != nil {
		t.Fatalf("GetRows(issues) failed: %v", err)
	}
	if len(issues) != 2 || issues[1][0] != string(layout.IssueUnparseable) || issues[1][1] != "bad" {
		t.Errorf("issues sheet = %v", issues)
	}
}

func TestBuildScheduleXLSX_NilGrid(t *testing.T) {
	if _, err := BuildScheduleXLSX("x", nil); err == nil {
		t.Error("expected error for nil grid")
	}
}
