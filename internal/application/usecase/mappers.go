package usecase

import (
	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	res := &dto.ItemResponse{
		ID:                i.ID,
		Name:              i.Name,
		Weight:            i.Weight,
		Price:             i.Price,
		StorageLocationID: i.StorageLocationID,
		Created:           i.Created.String(),
		Updated:           i.Updated.String(),
	}
	if loc := i.Expand.StorageLocation; loc != nil {
		res.StorageLocationName = loc.Name
	}
	return res
}

func toStorageLocationResponse(s *entity.StorageLocation) *dto.StorageLocationResponse {
	if s == nil {
		return nil
	}
	return &dto.StorageLocationResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Position:    s.Position,
		Location:    s.Location,
		Schema:      s.Schema,
		Created:     s.Created.String(),
		Updated:     s.Updated.String(),
	}
}

// ToStorageLocationResponses mapea una vista reconciliada.
func ToStorageLocationResponses(list []entity.StorageLocation) []dto.StorageLocationResponse {
	out := make([]dto.StorageLocationResponse, 0, len(list))
	for i := range list {
		out = append(out, *toStorageLocationResponse(&list[i]))
	}
	return out
}

func toStockChangeResponse(c *entity.StockChange) *dto.StockChangeResponse {
	if c == nil {
		return nil
	}
	res := &dto.StockChangeResponse{
		ID:      c.ID,
		ItemID:  c.ItemID,
		Delta:   c.Delta,
		Reason:  c.Reason,
		UserID:  c.UserID,
		Created: c.Created.String(),
	}
	if u := c.Expand.User; u != nil {
		res.UserName = u.Name
		if res.UserName == "" {
			res.UserName = u.Email
		}
	}
	return res
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Avatar:  u.Avatar,
		Role:    u.EffectiveRole(),
		Created: u.Created.String(),
	}
}
