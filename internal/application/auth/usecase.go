package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// AuthUseCase resuelve la identidad de cada petición contra el proveedor externo.
type AuthUseCase struct {
	identity repository.IdentityProvider
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(identity repository.IdentityProvider) *AuthUseCase {
	return &AuthUseCase{identity: identity}
}

// Authenticate valida el token. Cualquier rechazo del proveedor se informa como ErrUnauthorized;
// las fallas de transporte se devuelven tal cual.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.identity.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrNotFound) ||
			errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// Me devuelve el usuario autenticado de la petición.
func (uc *AuthUseCase) Me(user *entity.User) (*dto.UserResponse, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return &dto.UserResponse{
		ID:      user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Avatar:  user.Avatar,
		Role:    user.EffectiveRole(),
		Created: user.Created.String(),
	}, nil
}
