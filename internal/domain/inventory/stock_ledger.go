package inventory

import "github.com/jhoicas/inventory-tracker/internal/domain/entity"

// SumDeltas implementa la regla del ledger (servicio de dominio):
// StockActual = Σ Delta de los cambios del ítem. Sin registros es 0.
// No se acota en cero: un stock neto negativo es un resultado válido.
func SumDeltas(changes []*entity.StockChange) int64 {
	var total int64
	for _, c := range changes {
		if c == nil {
			continue
		}
		total += c.Delta
	}
	return total
}

// SumByItem agrupa y suma por ítem. Todo id de itemIDs queda presente en el
// resultado (0 si no tiene registros); los cambios de ítems no pedidos se ignoran.
// Cada ítem tiene su propio acumulador.
func SumByItem(itemIDs []string, changes []*entity.StockChange) map[string]int64 {
	totals := make(map[string]int64, len(itemIDs))
	for _, id := range itemIDs {
		totals[id] = 0
	}
	for _, c := range changes {
		if c == nil {
			continue
		}
		if _, ok := totals[c.ItemID]; !ok {
			continue
		}
		totals[c.ItemID] += c.Delta
	}
	return totals
}
