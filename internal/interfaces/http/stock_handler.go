package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/usecase"
)

// StockHandler expone el ledger de stock.
type StockHandler struct {
	uc *usecase.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Current godoc
// @Summary      Stock actual de un ítem
// @Description  Suma de todos los cambios del ledger del ítem (0 si no tiene).
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.StockResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/stock [get]
func (h *StockHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.Current(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Batch godoc
// @Summary      Stock actual de varios ítems
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockBatchRequest  true  "IDs de ítems"
// @Success      200   {object}  dto.StockBatchResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/items/stock [post]
func (h *StockHandler) Batch(c *fiber.Ctx) error {
	var in dto.StockBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Batch(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de stock de un ítem
// @Description  Más recientes primero, con el usuario que registró cada cambio.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.StockHistoryResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/history [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Record godoc
// @Summary      Registrar cambio de stock
// @Description  stock_change es un entero con signo; reason es obligatorio.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del ítem"
// @Param        body  body  dto.RecordStockChangeRequest  true  "Cambio"
// @Success      201   {object}  dto.StockChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/stock-changes [post]
func (h *StockHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordStockChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Record(c.UserContext(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
