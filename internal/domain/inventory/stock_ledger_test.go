package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/inventory"
)

func change(itemID string, delta int64) *entity.StockChange {
	return &entity.StockChange{ItemID: itemID, Delta: delta}
}

func TestSumDeltas_EscenarioDiezMenosTresMasDos(t *testing.T) {
	changes := []*entity.StockChange{change("a", 10), change("a", -3), change("a", 2)}
	assert.Equal(t, int64(9), inventory.SumDeltas(changes))
}

func TestSumDeltas_SinRegistrosEsCero(t *testing.T) {
	assert.Equal(t, int64(0), inventory.SumDeltas(nil))
}

func TestSumDeltas_NegativoNoSeAcota(t *testing.T) {
	changes := []*entity.StockChange{change("a", 2), change("a", -5)}
	assert.Equal(t, int64(-3), inventory.SumDeltas(changes),
		"un stock neto negativo debe devolverse tal cual")
}

func TestSumByItem_IndependienteDelOrdenDeInsercion(t *testing.T) {
	changes := []*entity.StockChange{
		change("a", 10), change("b", 4), change("a", -3), change("c", 100), change("b", -1), change("a", 2),
	}
	got := inventory.SumByItem([]string{"a", "b"}, changes)

	assert.Equal(t, map[string]int64{"a": 9, "b": 3}, got,
		"los cambios de ítems no pedidos no deben contaminar los totales")
}

func TestSumByItem_IDsSinRegistrosQuedanEnCero(t *testing.T) {
	got := inventory.SumByItem([]string{"a", "z"}, []*entity.StockChange{change("a", 1)})
	assert.Equal(t, int64(0), got["z"])
	_, ok := got["z"]
	assert.True(t, ok, "todo id pedido debe estar presente en el resultado")
}
