package http_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los tests HTTP
// ──────────────────────────────────────────────────────────────────────────────

var base = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func stamp(n int) entity.DateTime { return entity.NewDateTime(base.Add(time.Duration(n) * time.Minute)) }

// fakeIdentity resuelve tokens fijos a usuarios; un token desconocido es rechazado.
type fakeIdentity struct {
	users map[string]*entity.User
	err   error
}

func (f *fakeIdentity) Authenticate(_ context.Context, token string) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	c := *u
	return &c, nil
}

type memItems struct {
	mu       sync.Mutex
	rows     map[string]*entity.Item
	seq      int
	writeErr error
}

func (m *memItems) List(_ context.Context, _ repository.ListOptions) ([]*entity.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Item, 0, len(m.rows))
	for _, it := range m.rows {
		c := *it
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.After(out[j].Created.Time) })
	return out, nil
}

func (m *memItems) GetByID(_ context.Context, id string) (*entity.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("items: get %s: %w", id, domain.ErrNotFound)
	}
	c := *it
	return &c, nil
}

func (m *memItems) Create(_ context.Context, it *entity.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.seq++
	it.ID = fmt.Sprintf("item%d", m.seq)
	it.Created, it.Updated = stamp(m.seq), stamp(m.seq)
	c := *it
	m.rows[it.ID] = &c
	return nil
}

func (m *memItems) Update(_ context.Context, it *entity.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[it.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *it
	m.rows[it.ID] = &c
	return nil
}

func (m *memItems) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("items: delete %s: %w", id, domain.ErrNotFound)
	}
	delete(m.rows, id)
	return nil
}

type memLocations struct {
	mu   sync.Mutex
	rows map[string]*entity.StorageLocation
	seq  int
}

func (m *memLocations) List(_ context.Context, _ repository.ListOptions) ([]*entity.StorageLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.StorageLocation, 0, len(m.rows))
	for _, l := range m.rows {
		c := *l
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.After(out[j].Created.Time) })
	return out, nil
}

func (m *memLocations) GetByID(_ context.Context, id string) (*entity.StorageLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *l
	return &c, nil
}

func (m *memLocations) Create(_ context.Context, l *entity.StorageLocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	l.ID = fmt.Sprintf("loc%d", m.seq)
	l.Created = stamp(m.seq)
	c := *l
	m.rows[l.ID] = &c
	return nil
}

func (m *memLocations) Update(_ context.Context, l *entity.StorageLocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[l.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *l
	m.rows[l.ID] = &c
	return nil
}

func (m *memLocations) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type memChanges struct {
	mu      sync.Mutex
	rows    []*entity.StockChange
	listErr error
}

func (m *memChanges) Create(_ context.Context, c *entity.StockChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = fmt.Sprintf("sc%d", len(m.rows)+1)
	c.Created = stamp(100 + len(m.rows))
	cp := *c
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memChanges) ListByItem(_ context.Context, itemID string, _ repository.ListOptions) ([]*entity.StockChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []*entity.StockChange{}
	for _, r := range m.rows {
		if r.ItemID == itemID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memChanges) ListByItems(ctx context.Context, ids []string) ([]*entity.StockChange, error) {
	out := []*entity.StockChange{}
	for _, id := range ids {
		rows, err := m.ListByItem(ctx, id, repository.ListOptions{})
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

type memUsers struct {
	mu   sync.Mutex
	rows map[string]*entity.User
}

func (m *memUsers) List(_ context.Context, _ repository.ListOptions) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.User, 0, len(m.rows))
	for _, u := range m.rows {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (m *memUsers) UpdateRole(_ context.Context, id, role string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	c := *u
	return &c, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.rows, id)
	return nil
}

// chanSubscriber entrega los eventos del canal indicado; err simula un stream caído.
type chanSubscriber struct {
	events chan entity.RealtimeEvent
	err    error

	mu      sync.Mutex
	unsubed int
}

func (s *chanSubscriber) Subscribe(context.Context, string, string) (*repository.Subscription, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &repository.Subscription{Events: s.events, Unsubscribe: func() {
		s.mu.Lock()
		s.unsubed++
		s.mu.Unlock()
	}}, nil
}

func (s *chanSubscriber) unsubscribed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsubed
}

type stubPDF struct{}

func (stubPDF) GenerateStockReport(context.Context, *dto.StockReport) ([]byte, error) {
	return []byte("%PDF-1.3 stub"), nil
}
