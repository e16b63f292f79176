package pocketbase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jhoicas/inventory-tracker/internal/application/auth"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.IdentityProvider = (*Identity)(nil)

// Identity valida tokens de usuario emitidos por el backend (tras el flujo OAuth).
type Identity struct {
	client *Client
}

// NewIdentity construye el proveedor.
func NewIdentity(client *Client) *Identity {
	return &Identity{client: client}
}

type authResponse struct {
	Token  string      `json:"token"`
	Record entity.User `json:"record"`
}

// Authenticate refresca el token contra el backend y devuelve el usuario actual.
func (i *Identity) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	var res authResponse
	path := "/api/collections/" + entity.CollectionUsers + "/auth-refresh"
	if err := i.client.do(auth.WithToken(ctx, token), http.MethodPost, path, nil, nil, &res); err != nil {
		return nil, fmt.Errorf("auth-refresh: %w", err)
	}
	if res.Record.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	return &res.Record, nil
}
