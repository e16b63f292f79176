package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/pkg/jwt"
)

var _ repository.IdentityProvider = (*Identity)(nil)

// Identity valida tokens HS256 emitidos con JWT_SECRET y carga el usuario desde la tabla users.
// El rol vigente es el de la tabla, no el del claim.
type Identity struct {
	users  repository.UserRepository
	secret string
}

// NewIdentity construye el proveedor de identidad del driver postgres.
func NewIdentity(users repository.UserRepository, secret string) *Identity {
	return &Identity{users: users, secret: secret}
}

// Authenticate verifica firma y expiración y devuelve el usuario del token.
func (i *Identity) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	userID, _, err := jwt.Parse(i.secret, token)
	if err != nil {
		return nil, fmt.Errorf("token: %v: %w", err, domain.ErrUnauthorized)
	}
	user, err := i.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("token de usuario inexistente: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}
	return user, nil
}
