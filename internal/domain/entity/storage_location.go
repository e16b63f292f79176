package entity

import (
	"encoding/json"
	"strings"
)

// Variantes de esquema de storage_locations presentes en el backend.
// "described" usa name/description; "positioned" usa Name/Position/Location.
const (
	SchemaDescribed  = "described"
	SchemaPositioned = "positioned"
)

// StorageLocation representa una ubicación de almacenamiento (bodega, estante, etc.).
// Conserva ambos esquemas; Schema indica con cuál llegó el registro.
type StorageLocation struct {
	ID          string
	Name        string
	Description string
	Position    string
	Location    string
	Created     DateTime
	Updated     DateTime
	Schema      string
}

// RecordID implementa la identidad usada por el reconciliador.
func (s StorageLocation) RecordID() string { return s.ID }

// CreatedAt devuelve el timestamp de creación.
func (s StorageLocation) CreatedAt() DateTime { return s.Created }

type storageLocationWire struct {
	ID          string   `json:"id"`
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	NameAlt     *string  `json:"Name,omitempty"`
	Position    *string  `json:"Position,omitempty"`
	Location    *string  `json:"Location,omitempty"`
	Created     DateTime `json:"created"`
	Updated     DateTime `json:"updated"`
}

// UnmarshalJSON acepta las dos variantes de esquema.
// encoding/json empareja claves sin distinguir mayúsculas, por eso se decodifica a mapa.
func (s *StorageLocation) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	str := func(key string) (string, bool) {
		v, ok := raw[key]
		if !ok {
			return "", false
		}
		var out string
		if err := json.Unmarshal(v, &out); err != nil {
			return "", false
		}
		return out, true
	}

	out := StorageLocation{Schema: SchemaDescribed}
	out.ID, _ = str("id")
	if v, ok := raw["created"]; ok {
		if err := out.Created.UnmarshalJSON(v); err != nil {
			return err
		}
	}
	if v, ok := raw["updated"]; ok {
		if err := out.Updated.UnmarshalJSON(v); err != nil {
			return err
		}
	}

	name, hasLower := str("name")
	nameAlt, hasUpper := str("Name")
	position, hasPosition := str("Position")
	location, hasLocation := str("Location")
	out.Description, _ = str("description")
	out.Position = position
	out.Location = location

	switch {
	case hasUpper || hasPosition || hasLocation:
		out.Schema = SchemaPositioned
		out.Name = nameAlt
		if out.Name == "" && hasLower {
			out.Name = name
		}
	default:
		out.Name = name
	}
	*s = out
	return nil
}

// MarshalJSON emite los campos de la variante indicada en Schema.
func (s StorageLocation) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.wire(s.Schema))
}

func (s StorageLocation) wire(schema string) storageLocationWire {
	w := storageLocationWire{ID: s.ID, Created: s.Created, Updated: s.Updated}
	switch strings.ToLower(schema) {
	case SchemaPositioned:
		w.NameAlt = &s.Name
		w.Position = &s.Position
		w.Location = &s.Location
	default:
		w.Name = &s.Name
		w.Description = &s.Description
	}
	return w
}

// WriteFields devuelve el cuerpo de escritura (create/update) en la variante indicada.
func (s StorageLocation) WriteFields(schema string) map[string]any {
	switch strings.ToLower(schema) {
	case SchemaPositioned:
		return map[string]any{"Name": s.Name, "Position": s.Position, "Location": s.Location}
	default:
		return map[string]any{"name": s.Name, "description": s.Description}
	}
}
