package repository

import "strings"

// Campos de orden soportados por todas las colecciones.
const (
	SortNewestFirst = "-created"
	SortOldestFirst = "created"
	SortByName      = "name"
)

// ListOptions parámetros de un listado completo: orden y relaciones a embeber.
// Sort es un nombre de campo con prefijo "-" opcional para orden descendente.
type ListOptions struct {
	Sort   string
	Expand []string
}

// SortField separa el campo y la dirección de Sort.
func (o ListOptions) SortField() (field string, desc bool) {
	s := strings.TrimSpace(o.Sort)
	if strings.HasPrefix(s, "-") {
		return strings.TrimPrefix(s, "-"), true
	}
	return strings.TrimPrefix(s, "+"), false
}

// Expands indica si se pidió embeber la relación rel.
func (o ListOptions) Expands(rel string) bool {
	for _, e := range o.Expand {
		if e == rel {
			return true
		}
	}
	return false
}
