package services

import (
	"context"
	"fmt"

	"breakerbox/internal/export"
	"breakerbox/internal/metrics"

	"github.com/google/uuid"
)

// ExportSchedule renders the panel's current grid as an XLSX schedule and
// returns the file contents with a suggested file name.
func (s *PanelService) ExportSchedule(ctx context.Context, panelID uuid.UUID) ([]byte, string, error) {
	res, err := s.GetLayout(ctx, panelID)
	if err != nil {
		return nil, "", err
	}

	data, err := export.BuildScheduleXLSX(res.Panel.Name, res.Grid)
	if err != nil {
		metrics.IncExport("xlsx", metrics.ResultError)
		return nil, "", fmt.Errorf("failed to render schedule: %w", err)
	}
	metrics.IncExport("xlsx", metrics.ResultSuccess)

	return data, fmt.Sprintf("panel-%s-schedule.xlsx", panelID), nil
}
