package repository

import (
	"context"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// UserRepository define el puerto de acceso a la colección users (DIP).
type UserRepository interface {
	List(ctx context.Context, opts ListOptions) ([]*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	UpdateRole(ctx context.Context, id, role string) (*entity.User, error)
	Delete(ctx context.Context, id string) error
}

// IdentityProvider valida el token de un usuario y devuelve su identidad actual.
// El flujo OAuth lo resuelve el proveedor externo; aquí solo llega el token resultante.
type IdentityProvider interface {
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}
