package realtime

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// decodeEvent valida un evento y decodifica su registro.
// Acciones desconocidas devuelven ok=false sin error: se ignoran.
func decodeEvent[T Record](ev entity.RealtimeEvent, decode func(json.RawMessage) (T, error)) (rec T, ok bool, err error) {
	switch ev.Action {
	case entity.ActionCreate, entity.ActionUpdate, entity.ActionDelete:
	case "":
		return rec, false, fmt.Errorf("%w: acción vacía", domain.ErrMalformedEvent)
	default:
		return rec, false, nil
	}
	if !ev.HasRecord() {
		return rec, false, fmt.Errorf("%w: %s sin registro", domain.ErrMalformedEvent, ev.Action)
	}
	rec, err = decode(ev.Record)
	if err != nil {
		return rec, false, fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
	}
	if rec.RecordID() == "" {
		return rec, false, fmt.Errorf("%w: registro sin id", domain.ErrMalformedEvent)
	}
	return rec, true, nil
}

func decodeJSON[T any](raw json.RawMessage) (T, error) {
	var v T
	err := json.Unmarshal(raw, &v)
	return v, err
}

// applyEvent devuelve la lista resultante de aplicar la acción sobre items.
func applyEvent[T Record](items []T, action string, rec T, less Less[T]) []T {
	switch action {
	case entity.ActionCreate:
		return insertSorted(removeByID(items, rec.RecordID()), rec, less)
	case entity.ActionUpdate:
		if i := indexOf(items, rec.RecordID()); i >= 0 {
			items[i] = rec
			if less == nil || inPlace(items, i, less) {
				return items
			}
			return insertSorted(append(items[:i], items[i+1:]...), rec, less)
		}
		return insertSorted(items, rec, less)
	case entity.ActionDelete:
		return removeByID(items, rec.RecordID())
	}
	return items
}

func indexOf[T Record](items []T, id string) int {
	for i := range items {
		if items[i].RecordID() == id {
			return i
		}
	}
	return -1
}

// inPlace indica si items[i] sigue entre sus vecinos según less.
func inPlace[T Record](items []T, i int, less Less[T]) bool {
	if i > 0 && less(items[i], items[i-1]) {
		return false
	}
	return i == len(items)-1 || !less(items[i+1], items[i])
}

func removeByID[T Record](items []T, id string) []T {
	i := indexOf(items, id)
	if i < 0 {
		return items
	}
	return append(items[:i], items[i+1:]...)
}

// insertSorted inserta rec antes del primer elemento que no lo precede.
// Sin orden definido, rec se antepone.
func insertSorted[T any](items []T, rec T, less Less[T]) []T {
	pos := 0
	if less != nil {
		pos = sort.Search(len(items), func(i int) bool { return !less(items[i], rec) })
	}
	var zero T
	items = append(items, zero)
	copy(items[pos+1:], items[pos:])
	items[pos] = rec
	return items
}

func sortItems[T any](items []T, less Less[T]) {
	if less == nil {
		return
	}
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}
