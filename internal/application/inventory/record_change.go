package inventory

import (
	"context"
	"strconv"
	"strings"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// RecordChangeInput entrada para agregar un cambio al ledger.
// Delta llega como texto (formulario / JSON) y debe ser un entero en base 10.
type RecordChangeInput struct {
	ItemID string
	Delta  string
	Reason string
	UserID string
}

// ParseDelta valida y convierte el delta. Vacío o no numérico es ErrInvalidInput:
// nunca se coacciona a cero.
func ParseDelta(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, domain.ErrInvalidInput
	}
	n, err := strconv.ParseInt(s, 10, 64) // admite signo "+" o "-"
	if err != nil {
		return 0, domain.ErrInvalidInput
	}
	return n, nil
}

// validate revisa todos los campos obligatorios antes de persistir.
func (in RecordChangeInput) validate() (int64, error) {
	if in.ItemID == "" || strings.TrimSpace(in.Reason) == "" {
		return 0, domain.ErrInvalidInput
	}
	return ParseDelta(in.Delta)
}

// RecordChange agrega un StockChange (item, delta, motivo, usuario). Es la única escritura del ledger.
func (l *StockLedger) RecordChange(ctx context.Context, in RecordChangeInput) (*entity.StockChange, error) {
	delta, err := in.validate()
	if err != nil {
		return nil, err
	}
	change := &entity.StockChange{
		ItemID: in.ItemID,
		Delta:  delta,
		Reason: strings.TrimSpace(in.Reason),
		UserID: in.UserID,
	}
	if err := l.changes.Create(ctx, change); err != nil {
		return nil, domain.WriteFailure("stock.record", err)
	}
	return change, nil
}

// RecordChangeFromRequest adapta el request HTTP al caso de uso RecordChange.
func (l *StockLedger) RecordChangeFromRequest(ctx context.Context, itemID, userID string, in dto.RecordStockChangeRequest) (*entity.StockChange, error) {
	return l.RecordChange(ctx, RecordChangeInput{
		ItemID: itemID,
		Delta:  in.StockChange.String(),
		Reason: in.Reason,
		UserID: userID,
	})
}
