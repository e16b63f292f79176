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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	db     Querier
	events *Emitter
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db Querier, events *Emitter) *UserRepo {
	return &UserRepo{db: db, events: events}
}

var userColumns = map[string]string{
	"id":      "id",
	"created": "created",
	"updated": "updated",
	"name":    "lower(name)",
	"email":   "email",
}

const selectUser = `SELECT id, email, name, avatar, role, created, updated FROM users`

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u                entity.User
		created, updated time.Time
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Avatar, &u.Role, &created, &updated); err != nil {
		return nil, err
	}
	u.Created = entity.NewDateTime(created)
	u.Updated = entity.NewDateTime(updated)
	return &u, nil
}

// Create persiste un nuevo usuario (alta desde el seed; el login lo resuelve el proveedor externo).
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	ts := now()
	u.Created, u.Updated = entity.NewDateTime(ts), entity.NewDateTime(ts)

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, name, avatar, role, created, updated)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		u.ID, u.Email, u.Name, u.Avatar, u.Role, ts,
	)
	if err != nil {
		return writeError("insert user", err)
	}
	r.events.emit(ctx, entity.CollectionUsers, entity.ActionCreate, u)
	return nil
}

// List devuelve todos los usuarios en el orden indicado.
func (r *UserRepo) List(ctx context.Context, opts repository.ListOptions) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx, selectUser+" "+orderBy(opts, userColumns, "created DESC, id DESC"))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []*entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

// GetByID obtiene un usuario por ID. Devuelve domain.ErrUserNotFound si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, selectUser+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get user %s: %w", id, domain.ErrUserNotFound)
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

// UpdateRole cambia el rol y devuelve el usuario actualizado.
func (r *UserRepo) UpdateRole(ctx context.Context, id, role string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `
		UPDATE users SET role = $2, updated = $3 WHERE id = $1
		RETURNING id, email, name, avatar, role, created, updated`,
		id, role, now(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("update user role %s: %w", id, domain.ErrUserNotFound)
		}
		return nil, writeError("update user role", err)
	}
	r.events.emit(ctx, entity.CollectionUsers, entity.ActionUpdate, u)
	return u, nil
}

// Delete elimina el usuario; sus registros del ledger conservan el cambio sin autor.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return writeError("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete user %s: %w", id, domain.ErrUserNotFound)
	}
	r.events.emit(ctx, entity.CollectionUsers, entity.ActionDelete, entity.User{ID: id})
	return nil
}
