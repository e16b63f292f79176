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

var _ repository.StorageLocationRepository = (*StorageLocationRepo)(nil)

// StorageLocationRepo implementación del puerto StorageLocationRepository sobre PostgreSQL.
// La tabla guarda ambas variantes; schema indica cuál se serializa en los eventos.
type StorageLocationRepo struct {
	db     Querier
	events *Emitter
}

// NewStorageLocationRepository construye el adaptador de persistencia para ubicaciones.
func NewStorageLocationRepository(db Querier, events *Emitter) *StorageLocationRepo {
	return &StorageLocationRepo{db: db, events: events}
}

var locationColumns = map[string]string{
	"id":      "id",
	"created": "created",
	"updated": "updated",
	"name":    "lower(name)",
	"Name":    "lower(name)",
}

const selectLocation = `
	SELECT id, name, description, position, location, schema, created, updated
	FROM storage_locations`

func scanLocation(row pgx.Row) (*entity.StorageLocation, error) {
	var (
		l                entity.StorageLocation
		created, updated time.Time
	)
	if err := row.Scan(&l.ID, &l.Name, &l.Description, &l.Position, &l.Location, &l.Schema, &created, &updated); err != nil {
		return nil, err
	}
	l.Created = entity.NewDateTime(created)
	l.Updated = entity.NewDateTime(updated)
	return &l, nil
}

// List devuelve todas las ubicaciones en el orden indicado.
func (r *StorageLocationRepo) List(ctx context.Context, opts repository.ListOptions) ([]*entity.StorageLocation, error) {
	query := selectLocation + " " + orderBy(opts, locationColumns, "created DESC, id DESC")
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list storage locations: %w", err)
	}
	defer rows.Close()

	out := []*entity.StorageLocation{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan storage location: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list storage locations: %w", err)
	}
	return out, nil
}

// GetByID obtiene una ubicación. Devuelve domain.ErrNotFound si no existe.
func (r *StorageLocationRepo) GetByID(ctx context.Context, id string) (*entity.StorageLocation, error) {
	l, err := scanLocation(r.db.QueryRow(ctx, selectLocation+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get storage location %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get storage location %s: %w", id, err)
	}
	return l, nil
}

// Create persiste la ubicación; asigna id y timestamps si faltan.
func (r *StorageLocationRepo) Create(ctx context.Context, l *entity.StorageLocation) error {
	if l.ID == "" {
		l.ID = newID()
	}
	if l.Schema == "" {
		l.Schema = entity.SchemaDescribed
	}
	ts := now()
	l.Created, l.Updated = entity.NewDateTime(ts), entity.NewDateTime(ts)

	_, err := r.db.Exec(ctx, `
		INSERT INTO storage_locations (id, name, description, position, location, schema, created, updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		l.ID, l.Name, l.Description, l.Position, l.Location, l.Schema, ts,
	)
	if err != nil {
		return writeError("insert storage location", err)
	}
	r.events.emit(ctx, entity.CollectionStorageLocations, entity.ActionCreate, l)
	return nil
}

// Update modifica los campos de la variante del registro.
func (r *StorageLocationRepo) Update(ctx context.Context, l *entity.StorageLocation) error {
	ts := now()
	var created time.Time
	err := r.db.QueryRow(ctx, `
		UPDATE storage_locations
		SET name = $2, description = $3, position = $4, location = $5, updated = $6,
		    schema = COALESCE(NULLIF($7, ''), schema)
		WHERE id = $1
		RETURNING created, schema`,
		l.ID, l.Name, l.Description, l.Position, l.Location, ts, l.Schema,
	).Scan(&created, &l.Schema)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("update storage location %s: %w", l.ID, domain.ErrNotFound)
		}
		return writeError("update storage location", err)
	}
	l.Created, l.Updated = entity.NewDateTime(created), entity.NewDateTime(ts)
	r.events.emit(ctx, entity.CollectionStorageLocations, entity.ActionUpdate, l)
	return nil
}

// Delete elimina la ubicación; los ítems que la referencian quedan sin ubicación.
func (r *StorageLocationRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM storage_locations WHERE id = $1`, id)
	if err != nil {
		return writeError("delete storage location", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete storage location %s: %w", id, domain.ErrNotFound)
	}
	r.events.emit(ctx, entity.CollectionStorageLocations, entity.ActionDelete, entity.StorageLocation{ID: id})
	return nil
}
