package pocketbase

import (
	"context"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementa UserRepository sobre la colección de autenticación users.
type UserRepo struct {
	client *Client
}

// NewUserRepo construye el repositorio.
func NewUserRepo(client *Client) *UserRepo {
	return &UserRepo{client: client}
}

// List devuelve todos los usuarios visibles para el token.
func (r *UserRepo) List(ctx context.Context, opts repository.ListOptions) ([]*entity.User, error) {
	return listAll[*entity.User](ctx, r.client, entity.CollectionUsers, listQuery(opts, ""))
}

// GetByID devuelve un usuario.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return getRecord[entity.User](ctx, r.client, entity.CollectionUsers, id, nil)
}

// UpdateRole cambia el rol y devuelve el usuario actualizado.
func (r *UserRepo) UpdateRole(ctx context.Context, id, role string) (*entity.User, error) {
	var out entity.User
	if err := updateRecord(ctx, r.client, entity.CollectionUsers, id, map[string]any{"role": role}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete elimina un usuario.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return deleteRecord(ctx, r.client, entity.CollectionUsers, id)
}
