package dto

// CreateStorageLocationRequest entrada para crear una ubicación.
// Acepta los campos de ambas variantes de esquema.
type CreateStorageLocationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Position    string `json:"position"`
	Location    string `json:"location"`
}

// UpdateStorageLocationRequest entrada para actualizar una ubicación.
type UpdateStorageLocationRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Position    *string `json:"position"`
	Location    *string `json:"location"`
}

// StorageLocationResponse salida de una ubicación.
type StorageLocationResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Position    string `json:"position,omitempty"`
	Location    string `json:"location,omitempty"`
	Schema      string `json:"schema"`
	Created     string `json:"created"`
	Updated     string `json:"updated"`
}

// StorageLocationListResponse lista de ubicaciones.
type StorageLocationListResponse struct {
	Items []StorageLocationResponse `json:"items"`
}

// StorageLocationSnapshot mensaje SSE con el estado reconciliado de la vista.
type StorageLocationSnapshot struct {
	State string                    `json:"state"`
	Items []StorageLocationResponse `json:"items"`
	Error string                    `json:"error,omitempty"`
}
