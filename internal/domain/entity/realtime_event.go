package entity

import (
	"bytes"
	"encoding/json"
)

// Acciones de un evento realtime.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// RealtimeEvent es el payload tipado que entrega el stream de una colección.
// Record se conserva crudo; cada consumidor lo decodifica a su tipo.
type RealtimeEvent struct {
	Action string          `json:"action"`
	Record json.RawMessage `json:"record"`
}

// HasRecord indica si el evento trae un registro no nulo.
func (e RealtimeEvent) HasRecord() bool {
	trimmed := bytes.TrimSpace(e.Record)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// NewRealtimeEvent serializa record y construye el evento.
func NewRealtimeEvent(action string, record any) (RealtimeEvent, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return RealtimeEvent{}, err
	}
	return RealtimeEvent{Action: action, Record: raw}, nil
}
