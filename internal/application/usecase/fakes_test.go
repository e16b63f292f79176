package usecase_test

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
// Fakes en memoria de los puertos
// ──────────────────────────────────────────────────────────────────────────────

var clock = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func tick(n int) entity.DateTime { return entity.NewDateTime(clock.Add(time.Duration(n) * time.Minute)) }

type fakeItems struct {
	mu       sync.Mutex
	rows     map[string]*entity.Item
	seq      int
	listErr  error
	writeErr error
	lastOpts repository.ListOptions
	locs     *fakeLocations
}

func newFakeItems(locs *fakeLocations) *fakeItems {
	return &fakeItems{rows: map[string]*entity.Item{}, locs: locs}
}

func (f *fakeItems) List(_ context.Context, opts repository.ListOptions) ([]*entity.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOpts = opts
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*entity.Item, 0, len(f.rows))
	for _, it := range f.rows {
		c := *it
		if opts.Expands("storage_location") && f.locs != nil {
			if loc, ok := f.locs.rows[c.StorageLocationID]; ok {
				l := *loc
				c.Expand.StorageLocation = &l
			}
		}
		out = append(out, &c)
	}
	field, desc := opts.SortField()
	sort.Slice(out, func(i, j int) bool {
		if field == "name" {
			return out[i].Name < out[j].Name
		}
		if desc {
			return out[i].Created.After(out[j].Created.Time)
		}
		return out[i].Created.Before(out[j].Created.Time)
	})
	return out, nil
}

func (f *fakeItems) GetByID(_ context.Context, id string) (*entity.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *it
	return &c, nil
}

func (f *fakeItems) Create(_ context.Context, it *entity.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.seq++
	it.ID = fmt.Sprintf("item%d", f.seq)
	it.Created = tick(f.seq)
	it.Updated = it.Created
	c := *it
	f.rows[it.ID] = &c
	return nil
}

func (f *fakeItems) Update(_ context.Context, it *entity.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	if _, ok := f.rows[it.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *it
	f.rows[it.ID] = &c
	return nil
}

func (f *fakeItems) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeLocations struct {
	mu       sync.Mutex
	rows     map[string]*entity.StorageLocation
	seq      int
	listErr  error
	lastSort string
	written  []*entity.StorageLocation
}

func newFakeLocations() *fakeLocations {
	return &fakeLocations{rows: map[string]*entity.StorageLocation{}}
}

func (f *fakeLocations) add(loc entity.StorageLocation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[loc.ID] = &loc
}

func (f *fakeLocations) List(_ context.Context, opts repository.ListOptions) ([]*entity.StorageLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSort = opts.Sort
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*entity.StorageLocation, 0, len(f.rows))
	for _, l := range f.rows {
		c := *l
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeLocations) GetByID(_ context.Context, id string) (*entity.StorageLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *l
	return &c, nil
}

func (f *fakeLocations) Create(_ context.Context, l *entity.StorageLocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	l.ID = fmt.Sprintf("loc%d", f.seq)
	l.Created = tick(f.seq)
	c := *l
	f.rows[l.ID] = &c
	f.written = append(f.written, &c)
	return nil
}

func (f *fakeLocations) Update(_ context.Context, l *entity.StorageLocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[l.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *l
	f.rows[l.ID] = &c
	f.written = append(f.written, &c)
	return nil
}

func (f *fakeLocations) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeChanges struct {
	mu        sync.Mutex
	rows      []*entity.StockChange
	listErr   error
	createErr error
}

func (f *fakeChanges) Create(_ context.Context, c *entity.StockChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	c.ID = fmt.Sprintf("sc%d", len(f.rows)+1)
	c.Created = tick(100 + len(f.rows))
	cp := *c
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeChanges) ListByItem(_ context.Context, itemID string, _ repository.ListOptions) ([]*entity.StockChange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*entity.StockChange
	for _, r := range f.rows {
		if r.ItemID == itemID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeChanges) ListByItems(ctx context.Context, ids []string) ([]*entity.StockChange, error) {
	var out []*entity.StockChange
	for _, id := range ids {
		rows, err := f.ListByItem(ctx, id, repository.ListOptions{})
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

type fakeUsers struct {
	mu   sync.Mutex
	rows map[string]*entity.User
}

func (f *fakeUsers) List(_ context.Context, _ repository.ListOptions) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.User, 0, len(f.rows))
	for _, u := range f.rows {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.After(out[j].Created.Time) })
	return out, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, id, role string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	c := *u
	return &c, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeSubscriber struct {
	events chan entity.RealtimeEvent
	err    error
}

func (f *fakeSubscriber) Subscribe(context.Context, string, string) (*repository.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &repository.Subscription{Events: f.events, Unsubscribe: func() {}}, nil
}

type fakeGenerator struct {
	report *dto.StockReport
	err    error
}

func (g *fakeGenerator) GenerateStockReport(_ context.Context, r *dto.StockReport) ([]byte, error) {
	g.report = r
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-1.3"), nil
}
