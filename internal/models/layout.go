package models

import (
	"breakerbox/internal/highlight"
	"breakerbox/internal/layout"
)

// PanelLayoutResponse is the grid of one panel as served to renderers
type PanelLayoutResponse struct {
	Panel *Panel       `json:"panel"`
	Grid  *layout.Grid `json:"grid"`
}

// TandemGroupsResponse lists shared slots in ascending slot order
type TandemGroupsResponse struct {
	PanelID string               `json:"panel_id"`
	Groups  []*layout.TandemPair `json:"groups"`
	Issues  []layout.Issue       `json:"issues"`
}

// HighlightResponse wraps a highlight state for one panel
type HighlightResponse struct {
	PanelID string          `json:"panel_id"`
	State   highlight.State `json:"state"`
}

// MoveBreakerRequest is the body of a position change
type MoveBreakerRequest struct {
	Position string `json:"position"`
}

// MoveBreakerResult reports the accepted move and the rebuilt grid
type MoveBreakerResult struct {
	Breaker *Breaker     `json:"breaker"`
	Grid    *layout.Grid `json:"grid"`
}

// DeleteBreakerResult reports the deleted breaker and the devices left unassigned
type DeleteBreakerResult struct {
	BreakerID         string   `json:"breaker_id"`
	UnassignedDevices []string `json:"unassigned_devices"`
}
