package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"breakerbox/internal/config"
	"breakerbox/internal/highlight"
	"breakerbox/internal/layout"
	"breakerbox/internal/metrics"
	"breakerbox/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrPanelNotFound     = errors.New("panel not found")
	ErrBreakerNotFound   = errors.New("breaker not found")
	ErrPlacementRejected = errors.New("placement rejected")
)

// PanelStore is the persistence collaborator. Implementations return
// ErrPanelNotFound / ErrBreakerNotFound for missing rows.
type PanelStore interface {
	GetPanel(ctx context.Context, panelID uuid.UUID) (*models.Panel, error)
	// ListBreakers returns the panel's breakers in a stable order (created_at, id);
	// first-claim-wins conflict resolution depends on it.
	ListBreakers(ctx context.Context, panelID uuid.UUID) ([]models.Breaker, error)
	// ListDevices returns the devices wired to the panel plus unassigned devices.
	// Devices whose breaker no longer exists cannot be traced to a panel, so they
	// are building-wide and show up in every panel's list.
	ListDevices(ctx context.Context, panelID uuid.UUID) ([]models.Device, error)
	UpdateBreakerPosition(ctx context.Context, panelID, breakerID uuid.UUID, position string) (*models.Breaker, error)
	// DeleteBreaker unassigns the breaker's devices and deletes it, atomically.
	DeleteBreaker(ctx context.Context, panelID, breakerID uuid.UUID) ([]uuid.UUID, error)
	// InPanelTx runs fn against a store bound to one transaction that holds the
	// panel exclusively until fn returns. An error from fn rolls back.
	InPanelTx(ctx context.Context, panelID uuid.UUID, fn func(ctx context.Context, tx PanelStore) error) error
}

// PanelService builds layouts and highlight states from fresh store snapshots.
// It caches nothing between calls.
type PanelService struct {
	store PanelStore
	cfg   *config.Config
	logr  *zap.Logger
}

func NewPanelService(store PanelStore, cfg *config.Config, logr *zap.Logger) *PanelService {
	return &PanelService{store: store, cfg: cfg, logr: logr}
}

type panelSnapshot struct {
	panel    *models.Panel
	breakers []models.Breaker
	devices  []models.Device
}

func (s *PanelService) load(ctx context.Context, panelID uuid.UUID, withDevices bool) (*panelSnapshot, error) {
	return loadFrom(ctx, s.store, panelID, withDevices)
}

func loadFrom(ctx context.Context, store PanelStore, panelID uuid.UUID, withDevices bool) (*panelSnapshot, error) {
	panel, err := store.GetPanel(ctx, panelID)
	if err != nil {
		return nil, err
	}

	breakers, err := store.ListBreakers(ctx, panelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list breakers: %w", err)
	}

	snap := &panelSnapshot{panel: panel, breakers: breakers}
	if withDevices {
		snap.devices, err = store.ListDevices(ctx, panelID)
		if err != nil {
			return nil, fmt.Errorf("failed to list devices: %w", err)
		}
	}
	return snap, nil
}

func (s *PanelService) buildGrid(panelID uuid.UUID, panel *models.Panel, breakers []layout.Breaker) (*layout.Grid, error) {
	grid, err := layout.BuildGrid(breakers, panel.Slots(s.cfg.DefaultTotalSlots))
	if err != nil {
		return nil, fmt.Errorf("failed to build grid: %w", err)
	}
	s.reportIssues(panelID, grid.Issues)
	return grid, nil
}

func (s *PanelService) reportIssues(panelID uuid.UUID, issues []layout.Issue) {
	if len(issues) == 0 {
		return
	}
	counts := make(map[string]int)
	for kind, n := range layout.CountByKind(issues) {
		counts[string(kind)] = n
	}
	metrics.AddLayoutIssues(counts)

	for _, i := range issues {
		s.logr.Warn("panel data issue",
			zap.String("panel_id", panelID.String()),
			zap.String("kind", string(i.Kind)),
			zap.String("breaker_id", i.BreakerID),
			zap.String("device_id", i.DeviceID),
			zap.String("detail", i.String()))
	}
}

// GetLayout returns the two-column slot grid of a panel
func (s *PanelService) GetLayout(ctx context.Context, panelID uuid.UUID) (*models.PanelLayoutResponse, error) {
	start := time.Now()
	result := metrics.ResultError
	defer func() { metrics.ObserveLayoutBuild(result, time.Since(start)) }()

	snap, err := s.load(ctx, panelID, false)
	if err != nil {
		return nil, err
	}

	grid, err := s.buildGrid(panelID, snap.panel, models.BreakersToLayout(snap.breakers))
	if err != nil {
		return nil, err
	}

	result = metrics.ResultSuccess
	return &models.PanelLayoutResponse{Panel: snap.panel, Grid: grid}, nil
}

// GetTandems returns the shared slots of a panel as placed on its grid
func (s *PanelService) GetTandems(ctx context.Context, panelID uuid.UUID) (*models.TandemGroupsResponse, error) {
	res, err := s.GetLayout(ctx, panelID)
	if err != nil {
		return nil, err
	}

	groups := make([]*layout.TandemPair, 0, len(res.Grid.Tandems))
	for _, n := range res.Grid.Tandems.Slots() {
		groups = append(groups, res.Grid.Tandems[n])
	}

	issues := []layout.Issue{}
	for _, i := range res.Grid.Issues {
		if i.Kind == layout.IssueTandemConflict || (i.Kind == layout.IssueUnparseable && strings.Contains(i.Position, "/")) {
			issues = append(issues, i)
		}
	}

	return &models.TandemGroupsResponse{
		PanelID: panelID.String(),
		Groups:  groups,
		Issues:  issues,
	}, nil
}

// HighlightQuery selects what to highlight; exactly one field should be set.
type HighlightQuery struct {
	BreakerID string
	DeviceID  string
	Circuit   []string
}

// Mode names the highlight mode the query asks for
func (q HighlightQuery) Mode() highlight.Mode {
	switch {
	case q.BreakerID != "":
		return highlight.ModeBreaker
	case q.DeviceID != "":
		return highlight.ModeDevice
	case len(q.Circuit) > 0:
		return highlight.ModeCircuit
	default:
		return highlight.ModeNone
	}
}

// Highlight resolves a selection against the panel's current breakers and devices
func (s *PanelService) Highlight(ctx context.Context, panelID uuid.UUID, q HighlightQuery) (*models.HighlightResponse, error) {
	mode := q.Mode()
	result := metrics.ResultError
	defer func() { metrics.IncHighlight(string(mode), result) }()

	if mode == highlight.ModeNone {
		result = metrics.ResultSuccess
		return &models.HighlightResponse{PanelID: panelID.String(), State: highlight.None()}, nil
	}

	snap, err := s.load(ctx, panelID, true)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(snap.breakers))
	for i := range snap.breakers {
		ids[i] = snap.breakers[i].ID.String()
	}
	engine := highlight.NewEngine(ids, models.DevicesToHighlight(snap.devices))
	s.reportIssues(panelID, engine.Issues())

	var state highlight.State
	switch mode {
	case highlight.ModeBreaker:
		state, err = engine.ByBreaker(q.BreakerID)
	case highlight.ModeDevice:
		state, err = engine.ByDevice(q.DeviceID)
	default:
		state, err = engine.ByCircuit(q.Circuit)
	}
	if err != nil {
		return nil, err
	}

	result = metrics.ResultSuccess
	return &models.HighlightResponse{PanelID: panelID.String(), State: state}, nil
}

// MoveBreaker changes a breaker's position after checking that the panel still
// lays out cleanly for it. Validation and the write share one panel lock, so
// concurrent moves are checked against each other. A rejected move is not persisted.
func (s *PanelService) MoveBreaker(ctx context.Context, panelID, breakerID uuid.UUID, position string) (*models.MoveBreakerResult, error) {
	position = strings.TrimSpace(position)

	var res *models.MoveBreakerResult
	err := s.store.InPanelTx(ctx, panelID, func(ctx context.Context, tx PanelStore) error {
		snap, err := loadFrom(ctx, tx, panelID, false)
		if err != nil {
			return err
		}

		patched, ok := layout.WithPosition(models.BreakersToLayout(snap.breakers), breakerID.String(), position)
		if !ok {
			return fmt.Errorf("%w: %s", ErrBreakerNotFound, breakerID)
		}

		grid, err := layout.BuildGrid(patched, snap.panel.Slots(s.cfg.DefaultTotalSlots))
		if err != nil {
			return fmt.Errorf("failed to build grid: %w", err)
		}

		if issues := grid.IssuesFor(breakerID.String()); len(issues) > 0 {
			metrics.IncMove(metrics.MoveRejected)
			details := make([]string, len(issues))
			for i, issue := range issues {
				details[i] = issue.String()
			}
			return fmt.Errorf("%w: %s", ErrPlacementRejected, strings.Join(details, "; "))
		}

		updated, err := tx.UpdateBreakerPosition(ctx, panelID, breakerID, position)
		if err != nil {
			return err
		}
		res = &models.MoveBreakerResult{Breaker: updated, Grid: grid}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.IncMove(metrics.MoveAccepted)

	s.logr.Info("breaker moved",
		zap.String("panel_id", panelID.String()),
		zap.String("breaker_id", breakerID.String()),
		zap.String("position", position))

	return res, nil
}

// DeleteBreaker removes a breaker; its devices are unassigned, never deleted
func (s *PanelService) DeleteBreaker(ctx context.Context, panelID, breakerID uuid.UUID) (*models.DeleteBreakerResult, error) {
	if _, err := s.store.GetPanel(ctx, panelID); err != nil {
		return nil, err
	}

	unassigned, err := s.store.DeleteBreaker(ctx, panelID, breakerID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(unassigned))
	for i, id := range unassigned {
		ids[i] = id.String()
	}

	s.logr.Info("breaker deleted",
		zap.String("panel_id", panelID.String()),
		zap.String("breaker_id", breakerID.String()),
		zap.Int("unassigned_devices", len(ids)))

	return &models.DeleteBreakerResult{BreakerID: breakerID.String(), UnassignedDevices: ids}, nil
}
