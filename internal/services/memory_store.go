package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"breakerbox/internal/models"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory PanelStore, used in place of Postgres in tests
// and local tooling.
type MemoryStore struct {
	txMu     sync.Mutex // serializes InPanelTx across all panels
	mu       sync.RWMutex
	panels   map[uuid.UUID]models.Panel
	breakers []models.Breaker // insertion order is the listing order
	devices  []models.Device
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{panels: make(map[uuid.UUID]models.Panel)}
}

// AddPanel stores a panel, replacing any panel with the same id
func (m *MemoryStore) AddPanel(p models.Panel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panels[p.ID] = p
}

// AddBreaker appends a breaker
func (m *MemoryStore) AddBreaker(b models.Breaker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.breakers = append(m.breakers, b)
}

// AddDevice appends a device
func (m *MemoryStore) AddDevice(d models.Device) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices = append(m.devices, d)
}

func (m *MemoryStore) GetPanel(_ context.Context, panelID uuid.UUID) (*models.Panel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.panels[panelID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPanelNotFound, panelID)
	}
	return &p, nil
}

func (m *MemoryStore) ListBreakers(_ context.Context, panelID uuid.UUID) ([]models.Breaker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Breaker{}
	for _, b := range m.breakers {
		if b.PanelID == panelID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListDevices(_ context.Context, panelID uuid.UUID) ([]models.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	owner := make(map[uuid.UUID]uuid.UUID, len(m.breakers))
	for _, b := range m.breakers {
		owner[b.ID] = b.PanelID
	}

	out := []models.Device{}
	for _, d := range m.devices {
		if d.BreakerID == nil {
			out = append(out, d)
			continue
		}
		// dangling references stay visible so they can be reported
		if p, ok := owner[*d.BreakerID]; !ok || p == panelID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MemoryStore) UpdateBreakerPosition(_ context.Context, panelID, breakerID uuid.UUID, position string) (*models.Breaker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.breakers {
		b := &m.breakers[i]
		if b.ID == breakerID && b.PanelID == panelID {
			b.Position = position
			b.UpdatedAt = time.Now().UTC()
			out := *b
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrBreakerNotFound, breakerID)
}

func (m *MemoryStore) DeleteBreaker(_ context.Context, panelID, breakerID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, b := range m.breakers {
		if b.ID == breakerID && b.PanelID == panelID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrBreakerNotFound, breakerID)
	}

	unassigned := []uuid.UUID{}
	now := time.Now().UTC()
	for i := range m.devices {
		d := &m.devices[i]
		if d.BreakerID != nil && *d.BreakerID == breakerID {
			d.BreakerID = nil
			d.UpdatedAt = now
			unassigned = append(unassigned, d.ID)
		}
	}
	m.breakers = append(m.breakers[:idx], m.breakers[idx+1:]...)
	return unassigned, nil
}

func (m *MemoryStore) InPanelTx(ctx context.Context, panelID uuid.UUID, fn func(ctx context.Context, tx PanelStore) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	if _, err := m.GetPanel(ctx, panelID); err != nil {
		return err
	}
	return fn(ctx, m)
}
