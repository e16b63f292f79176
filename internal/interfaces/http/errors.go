package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/domain"
)

// respondError traduce un error de caso de uso a la respuesta HTTP.
// La causa envuelta (validación, inexistente) tiene prioridad sobre el tipo de Failure.
func respondError(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	return c.Status(status).JSON(body)
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrInvalidRole):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_ROLE", Message: "rol inválido: use admin o user"}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos o incompletos"}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión inválida o expirada"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "el almacén rechazó la operación"}
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: "el registro entra en conflicto con uno existente"}
	}

	var f *domain.Failure
	if errors.As(err, &f) {
		switch f.Kind {
		case domain.KindRetrieval:
			return fiber.StatusBadGateway, dto.ErrorResponse{Code: "RETRIEVAL_FAILED", Message: f.Message()}
		case domain.KindWrite:
			return fiber.StatusBadGateway, dto.ErrorResponse{Code: "WRITE_FAILED", Message: f.Message()}
		default:
			return fiber.StatusBadGateway, dto.ErrorResponse{Code: "UPSTREAM_FAILED", Message: f.Message()}
		}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error inesperado"}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
