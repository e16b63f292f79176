package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.StockChangeRepository = (*StockChangeRepo)(nil)

// StockChangeRepo ledger de stock sobre PostgreSQL. Solo INSERT y SELECT.
type StockChangeRepo struct {
	db     Querier
	events *Emitter
}

// NewStockChangeRepository construye el adaptador del ledger.
func NewStockChangeRepository(db Querier, events *Emitter) *StockChangeRepo {
	return &StockChangeRepo{db: db, events: events}
}

var stockChangeColumns = map[string]string{
	"id":      "s.id",
	"created": "s.created",
}

const selectStockChange = `
	SELECT s.id, s.item, s.stock_change, s.reason, COALESCE(s.user_id, ''), s.created,
	       u.id, u.email, u.name, u.avatar, u.role, u.created, u.updated
	FROM stock_changes s
	LEFT JOIN users u ON u.id = s.user_id`

func scanStockChange(row pgx.Row, expandUser bool) (*entity.StockChange, error) {
	var (
		c                  entity.StockChange
		created            time.Time
		uID, uEmail, uName *string
		uAvatar, uRole     *string
		uCreated, uUpdated *time.Time
	)
	err := row.Scan(
		&c.ID, &c.ItemID, &c.Delta, &c.Reason, &c.UserID, &created,
		&uID, &uEmail, &uName, &uAvatar, &uRole, &uCreated, &uUpdated,
	)
	if err != nil {
		return nil, err
	}
	c.Created = entity.NewDateTime(created)
	if expandUser && uID != nil {
		u := &entity.User{
			ID:     *uID,
			Email:  deref(uEmail),
			Name:   deref(uName),
			Avatar: deref(uAvatar),
			Role:   deref(uRole),
		}
		if uCreated != nil {
			u.Created = entity.NewDateTime(*uCreated)
		}
		if uUpdated != nil {
			u.Updated = entity.NewDateTime(*uUpdated)
		}
		c.Expand.User = u
	}
	return &c, nil
}

func (r *StockChangeRepo) query(ctx context.Context, expandUser bool, sql string, args ...any) ([]*entity.StockChange, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.StockChange{}
	for rows.Next() {
		c, err := scanStockChange(rows, expandUser)
		if err != nil {
			return nil, fmt.Errorf("scan stock change: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create agrega un registro al ledger.
func (r *StockChangeRepo) Create(ctx context.Context, c *entity.StockChange) error {
	if c.ID == "" {
		c.ID = newID()
	}
	ts := now()
	c.Created = entity.NewDateTime(ts)

	_, err := r.db.Exec(ctx, `
		INSERT INTO stock_changes (id, item, stock_change, reason, user_id, created)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.ItemID, c.Delta, c.Reason, nullIfEmpty(c.UserID), ts,
	)
	if err != nil {
		return writeError("insert stock change", err)
	}
	r.events.emit(ctx, entity.CollectionStockChanges, entity.ActionCreate, c)
	return nil
}

// ListByItem devuelve todos los cambios del ítem en el orden indicado.
func (r *StockChangeRepo) ListByItem(ctx context.Context, itemID string, opts repository.ListOptions) ([]*entity.StockChange, error) {
	sql := selectStockChange + " WHERE s.item = $1 " + orderBy(opts, stockChangeColumns, "s.created DESC, s.id DESC")
	out, err := r.query(ctx, opts.Expands("user"), sql, itemID)
	if err != nil {
		return nil, fmt.Errorf("list stock changes of %s: %w", itemID, err)
	}
	return out, nil
}

// ListByItems devuelve en una consulta los cambios de todos los ítems indicados.
func (r *StockChangeRepo) ListByItems(ctx context.Context, itemIDs []string) ([]*entity.StockChange, error) {
	if len(itemIDs) == 0 {
		return []*entity.StockChange{}, nil
	}
	sql := selectStockChange + " WHERE s.item = ANY($1) ORDER BY s.created, s.id"
	out, err := r.query(ctx, false, sql, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("list stock changes: %w", err)
	}
	return out, nil
}
