package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL.
type ItemRepo struct {
	db     Querier
	events *Emitter
}

// NewItemRepository construye el adaptador de persistencia para ítems.
func NewItemRepository(db Querier, events *Emitter) *ItemRepo {
	return &ItemRepo{db: db, events: events}
}

var itemColumns = map[string]string{
	"id":      "i.id",
	"created": "i.created",
	"updated": "i.updated",
	"name":    "lower(i.name)",
	"price":   "i.price",
	"weight":  "i.weight",
}

// La ubicación se trae siempre con LEFT JOIN; solo se embebe si se pidió expand.
const selectItem = `
	SELECT i.id, i.name, i.weight, i.price, COALESCE(i.storage_location, ''), i.created, i.updated,
	       l.id, l.name, l.description, l.position, l.location, l.schema, l.created, l.updated
	FROM items i
	LEFT JOIN storage_locations l ON l.id = i.storage_location`

func scanItem(row pgx.Row, expand bool) (*entity.Item, error) {
	var (
		it                  entity.Item
		created, updated    time.Time
		lID, lName, lDesc   *string
		lPos, lLoc, lSchema *string
		lCreated, lUpdated  *time.Time
	)
	err := row.Scan(
		&it.ID, &it.Name, &it.Weight, &it.Price, &it.StorageLocationID, &created, &updated,
		&lID, &lName, &lDesc, &lPos, &lLoc, &lSchema, &lCreated, &lUpdated,
	)
	if err != nil {
		return nil, err
	}
	it.Created = entity.NewDateTime(created)
	it.Updated = entity.NewDateTime(updated)
	if expand && lID != nil {
		loc := &entity.StorageLocation{
			ID:          *lID,
			Name:        deref(lName),
			Description: deref(lDesc),
			Position:    deref(lPos),
			Location:    deref(lLoc),
			Schema:      deref(lSchema),
		}
		if lCreated != nil {
			loc.Created = entity.NewDateTime(*lCreated)
		}
		if lUpdated != nil {
			loc.Updated = entity.NewDateTime(*lUpdated)
		}
		it.Expand.StorageLocation = loc
	}
	return &it, nil
}

// List devuelve todos los ítems en el orden indicado.
func (r *ItemRepo) List(ctx context.Context, opts repository.ListOptions) ([]*entity.Item, error) {
	expand := opts.Expands("storage_location")
	query := selectItem + " " + orderBy(opts, itemColumns, "i.created DESC, i.id DESC")
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	out := []*entity.Item{}
	for rows.Next() {
		it, err := scanItem(rows, expand)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return out, nil
}

// GetByID obtiene un ítem con su ubicación. Devuelve domain.ErrNotFound si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	it, err := scanItem(r.db.QueryRow(ctx, selectItem+" WHERE i.id = $1", id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get item %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	return it, nil
}

// Create persiste el ítem; asigna id y timestamps si faltan.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	if it.ID == "" {
		it.ID = newID()
	}
	ts := now()
	it.Created, it.Updated = entity.NewDateTime(ts), entity.NewDateTime(ts)

	_, err := r.db.Exec(ctx, `
		INSERT INTO items (id, name, weight, price, storage_location, created, updated)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		it.ID, it.Name, it.Weight, it.Price, nullIfEmpty(it.StorageLocationID), ts,
	)
	if err != nil {
		return writeError("insert item", err)
	}
	r.events.emit(ctx, entity.CollectionItems, entity.ActionCreate, it)
	return nil
}

// Update modifica nombre, peso, precio y ubicación.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	ts := now()
	var created time.Time
	err := r.db.QueryRow(ctx, `
		UPDATE items
		SET name = $2, weight = $3, price = $4, storage_location = $5, updated = $6
		WHERE id = $1
		RETURNING created`,
		it.ID, it.Name, it.Weight, it.Price, nullIfEmpty(it.StorageLocationID), ts,
	).Scan(&created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("update item %s: %w", it.ID, domain.ErrNotFound)
		}
		return writeError("update item", err)
	}
	it.Created, it.Updated = entity.NewDateTime(created), entity.NewDateTime(ts)
	r.events.emit(ctx, entity.CollectionItems, entity.ActionUpdate, it)
	return nil
}

// Delete elimina el ítem y, en cascada, su ledger.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return writeError("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete item %s: %w", id, domain.ErrNotFound)
	}
	r.events.emit(ctx, entity.CollectionItems, entity.ActionDelete, entity.Item{ID: id})
	return nil
}
