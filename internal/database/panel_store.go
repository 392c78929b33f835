package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"breakerbox/internal/models"
	"breakerbox/internal/services"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PanelStore is the Postgres implementation of services.PanelStore. db is the
// pool, or a transaction inside InPanelTx.
type PanelStore struct {
	db bun.IDB
}

var _ services.PanelStore = (*PanelStore)(nil)

func NewPanelStore(db *bun.DB) *PanelStore {
	return &PanelStore{db: db}
}

func (s *PanelStore) GetPanel(ctx context.Context, panelID uuid.UUID) (*models.Panel, error) {
	panel := new(models.Panel)
	err := s.db.NewSelect().
		Model(panel).
		Where("p.id = ?", panelID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", services.ErrPanelNotFound, panelID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get panel: %w", err)
	}
	return panel, nil
}

func (s *PanelStore) ListBreakers(ctx context.Context, panelID uuid.UUID) ([]models.Breaker, error) {
	var breakers []models.Breaker
	err := s.db.NewSelect().
		Model(&breakers).
		Where("b.panel_id = ?", panelID).
		Order("b.created_at ASC", "b.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list breakers: %w", err)
	}
	return breakers, nil
}

func (s *PanelStore) ListDevices(ctx context.Context, panelID uuid.UUID) ([]models.Device, error) {
	panelBreakers := s.db.NewSelect().
		Model((*models.Breaker)(nil)).
		Column("b.id").
		Where("b.panel_id = ?", panelID)

	anyBreaker := s.db.NewSelect().
		Model((*models.Breaker)(nil)).
		ColumnExpr("1").
		Where("b.id = d.breaker_id")

	var devices []models.Device
	err := s.db.NewSelect().
		Model(&devices).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("d.breaker_id IS NULL").
				WhereOr("d.breaker_id IN (?)", panelBreakers).
				// orphans have no panel left, so every panel sees them
				WhereOr("NOT EXISTS (?)", anyBreaker)
		}).
		Order("d.created_at ASC", "d.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return devices, nil
}

func (s *PanelStore) UpdateBreakerPosition(ctx context.Context, panelID, breakerID uuid.UUID, position string) (*models.Breaker, error) {
	breaker := new(models.Breaker)
	res, err := s.db.NewUpdate().
		Model(breaker).
		Set("position = ?", position).
		Set("updated_at = ?", time.Now().UTC()).
		Where("b.id = ?", breakerID).
		Where("b.panel_id = ?", panelID).
		Returning("*").
		Exec(ctx, breaker)
	if err != nil {
		return nil, fmt.Errorf("failed to update breaker position: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: %s", services.ErrBreakerNotFound, breakerID)
	}
	return breaker, nil
}

func (s *PanelStore) DeleteBreaker(ctx context.Context, panelID, breakerID uuid.UUID) ([]uuid.UUID, error) {
	unassigned := []uuid.UUID{}

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		// devices first so a breaker_id foreign key never blocks the delete
		err := tx.NewUpdate().
			Model((*models.Device)(nil)).
			Set("breaker_id = NULL").
			Set("updated_at = ?", time.Now().UTC()).
			Where("d.breaker_id = ?", breakerID).
			Where("EXISTS (SELECT 1 FROM breakers WHERE id = ? AND panel_id = ?)", breakerID, panelID).
			Returning("d.id").
			Scan(ctx, &unassigned)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to unassign devices: %w", err)
		}

		res, err := tx.NewDelete().
			Model((*models.Breaker)(nil)).
			Where("b.id = ?", breakerID).
			Where("b.panel_id = ?", panelID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete breaker: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s", services.ErrBreakerNotFound, breakerID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unassigned, nil
}

// InPanelTx locks the panel row with SELECT ... FOR UPDATE and runs fn on a
// store bound to the same transaction.
func (s *PanelStore) InPanelTx(ctx context.Context, panelID uuid.UUID, fn func(ctx context.Context, tx services.PanelStore) error) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		panel := new(models.Panel)
		err := tx.NewSelect().
			Model(panel).
			Column("p.id").
			Where("p.id = ?", panelID).
			For("UPDATE").
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", services.ErrPanelNotFound, panelID)
		}
		if err != nil {
			return fmt.Errorf("failed to lock panel: %w", err)
		}
		return fn(ctx, &PanelStore{db: tx})
	})
}
