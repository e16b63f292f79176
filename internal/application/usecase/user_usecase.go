package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// UserUseCase administración de usuarios (solo admin).
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List lista todos los usuarios, el más reciente primero.
func (uc *UserUseCase) List(ctx context.Context) (*dto.UserListResponse, error) {
	list, err := uc.repo.List(ctx, repository.ListOptions{Sort: repository.SortNewestFirst})
	if err != nil {
		return nil, domain.RetrievalFailure("users.list", err)
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUserResponse(u))
	}
	return &dto.UserListResponse{Items: items}, nil
}

// UpdateRole cambia el rol de un usuario. Solo admite admin o user.
func (uc *UserUseCase) UpdateRole(ctx context.Context, id string, in dto.UpdateUserRoleRequest) (*dto.UserResponse, error) {
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if !entity.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	user, err := uc.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, domain.WriteFailure("users.update_role", err)
	}
	return toUserResponse(user), nil
}

// Delete elimina un usuario.
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return domain.WriteFailure("users.delete", err)
	}
	return nil
}
