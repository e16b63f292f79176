package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake del puerto StockChangeRepository
// ──────────────────────────────────────────────────────────────────────────────

type fakeChanges struct {
	mu        sync.Mutex
	rows      []*entity.StockChange
	listErr   error
	createErr error
	batchHits int
	lastOpts  repository.ListOptions
}

func (f *fakeChanges) Create(_ context.Context, c *entity.StockChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	c.ID = "sc" + string(rune('a'+len(f.rows)))
	c.Created = entity.NewDateTime(time.Now())
	f.rows = append(f.rows, c)
	return nil
}

func (f *fakeChanges) ListByItem(_ context.Context, itemID string, opts repository.ListOptions) ([]*entity.StockChange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOpts = opts
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

func (f *fakeChanges) ListByItems(_ context.Context, ids []string) ([]*entity.StockChange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchHits++
	if f.listErr != nil {
		return nil, f.listErr
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*entity.StockChange
	for _, r := range f.rows {
		if want[r.ItemID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func at(minute int) entity.DateTime {
	return entity.NewDateTime(time.Date(2024, 5, 1, 10, minute, 0, 0, time.UTC))
}

func seeded() *fakeChanges {
	return &fakeChanges{rows: []*entity.StockChange{
		{ID: "1", ItemID: "A", Delta: 10, Reason: "compra", Created: at(1)},
		{ID: "2", ItemID: "A", Delta: -3, Reason: "venta", Created: at(2)},
		{ID: "3", ItemID: "B", Delta: 5, Reason: "compra", Created: at(3)},
		{ID: "4", ItemID: "A", Delta: 2, Reason: "ajuste", Created: at(4)},
	}}
}

// ──────────────────────────────────────────────────────────────────────────────
// CurrentStock / CurrentStockBatch
// ──────────────────────────────────────────────────────────────────────────────

func TestCurrentStock_SumaDeltas(t *testing.T) {
	ledger := inventory.NewStockLedger(seeded())

	got, err := ledger.CurrentStock(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, int64(9), got, "10 - 3 + 2 debe dar 9")
}

func TestCurrentStock_SinRegistrosEsCero(t *testing.T) {
	ledger := inventory.NewStockLedger(seeded())

	got, err := ledger.CurrentStock(context.Background(), "Z")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestCurrentStock_FallaDeLecturaNoEsCero(t *testing.T) {
	repo := seeded()
	repo.listErr = errors.New("backend caído")
	ledger := inventory.NewStockLedger(repo)

	_, err := ledger.CurrentStock(context.Background(), "A")
	require.Error(t, err, "una falla de lectura debe ser distinguible de stock 0")
	assert.True(t, domain.IsKind(err, domain.KindRetrieval))
}

func TestCurrentStockBatch_EquivaleALlamadasIndividuales(t *testing.T) {
	repo := seeded()
	ledger := inventory.NewStockLedger(repo)
	ctx := context.Background()
	ids := []string{"A", "B", "Z", "A"}

	batch, err := ledger.CurrentStockBatch(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.batchHits, "el lote debe resolverse en una sola consulta")

	for _, id := range ids {
		single, err := ledger.CurrentStock(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, single, batch[id], "lote e individual deben coincidir para %s", id)
	}
	assert.Len(t, batch, 3, "ids repetidos se colapsan")
}

func TestCurrentStockBatch_VacioNoConsulta(t *testing.T) {
	repo := seeded()
	got, err := inventory.NewStockLedger(repo).CurrentStockBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, repo.batchHits)
}

func TestCurrentStockBatch_FallaDeLectura(t *testing.T) {
	repo := seeded()
	repo.listErr = errors.New("timeout")

	got, err := inventory.NewStockLedger(repo).CurrentStockBatch(context.Background(), []string{"A"})
	assert.Nil(t, got)
	assert.True(t, domain.IsKind(err, domain.KindRetrieval))
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordChange
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordChange_AgregaYActualizaStock(t *testing.T) {
	repo := seeded()
	ledger := inventory.NewStockLedger(repo)
	ctx := context.Background()

	change, err := ledger.RecordChange(ctx, inventory.RecordChangeInput{
		ItemID: "A", Delta: "-4", Reason: "  merma ", UserID: "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-4), change.Delta)
	assert.Equal(t, "merma", change.Reason)
	assert.Equal(t, "u1", change.UserID)

	got, err := ledger.CurrentStock(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)
}

func TestRecordChange_ValidacionNoPersiste(t *testing.T) {
	cases := []struct {
		name string
		in   inventory.RecordChangeInput
	}{
		{"motivo vacío", inventory.RecordChangeInput{ItemID: "A", Delta: "5", Reason: ""}},
		{"motivo en blanco", inventory.RecordChangeInput{ItemID: "A", Delta: "5", Reason: "   "}},
		{"delta no numérico", inventory.RecordChangeInput{ItemID: "A", Delta: "abc", Reason: "x"}},
		{"delta vacío", inventory.RecordChangeInput{ItemID: "A", Delta: "", Reason: "x"}},
		{"delta decimal", inventory.RecordChangeInput{ItemID: "A", Delta: "1.5", Reason: "x"}},
		{"sin ítem", inventory.RecordChangeInput{Delta: "1", Reason: "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := seeded()
			before := len(repo.rows)

			_, err := inventory.NewStockLedger(repo).RecordChange(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Len(t, repo.rows, before, "no debe persistirse ningún registro")
		})
	}
}

func TestRecordChange_FallaDeEscritura(t *testing.T) {
	repo := seeded()
	repo.createErr = errors.New("rechazado")

	_, err := inventory.NewStockLedger(repo).RecordChange(context.Background(), inventory.RecordChangeInput{
		ItemID: "A", Delta: "1", Reason: "x",
	})
	assert.True(t, domain.IsKind(err, domain.KindWrite))
}

func TestRecordChangeFromRequest_AceptaSignoMas(t *testing.T) {
	repo := seeded()
	change, err := inventory.NewStockLedger(repo).RecordChangeFromRequest(context.Background(), "B", "u2",
		dto.RecordStockChangeRequest{StockChange: "+7", Reason: "devolución"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), change.Delta)
	assert.Equal(t, "B", change.ItemID)
}

func TestParseDelta(t *testing.T) {
	for raw, want := range map[string]int64{"0": 0, "12": 12, "-3": -3, " 4 ": 4, "+2": 2} {
		got, err := inventory.ParseDelta(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := inventory.ParseDelta("++2")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// HistoryFor
// ──────────────────────────────────────────────────────────────────────────────

func TestHistoryFor_MasRecientePrimero(t *testing.T) {
	repo := seeded()
	ledger := inventory.NewStockLedger(repo)

	history, err := ledger.HistoryFor(context.Background(), "A")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []string{"4", "2", "1"}, []string{history[0].ID, history[1].ID, history[2].ID})
	assert.True(t, repo.lastOpts.Expands("user"), "el historial debe embeber el usuario")
}

func TestHistoryFor_SinRegistrosDevuelveListaVacia(t *testing.T) {
	history, err := inventory.NewStockLedger(seeded()).HistoryFor(context.Background(), "Z")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}
