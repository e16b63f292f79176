package realtime

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// Record es cualquier registro con identidad estable.
type Record interface {
	RecordID() string
}

// Timestamped es un registro con fecha de creación asignada por el almacén.
type Timestamped interface {
	Record
	CreatedAt() entity.DateTime
}

// Less define el orden de la vista: true si a va antes que b.
type Less[T any] func(a, b T) bool

// NewestFirst ordena por fecha de creación descendente.
func NewestFirst[T Timestamped]() Less[T] {
	return func(a, b T) bool {
		return a.CreatedAt().After(b.CreatedAt().Time)
	}
}

// ByName ordena alfabéticamente según la colación del idioma indicado
// (sin distinguir mayúsculas). Un collate.Collator no es seguro para uso concurrente.
func ByName[T any](name func(T) string, tag language.Tag) Less[T] {
	var mu sync.Mutex
	col := collate.New(tag, collate.IgnoreCase)
	return func(a, b T) bool {
		mu.Lock()
		defer mu.Unlock()
		return col.CompareString(name(a), name(b)) < 0
	}
}
