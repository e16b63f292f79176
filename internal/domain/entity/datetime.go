package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateTimeLayout es el formato que usa el backend para created/updated.
const DateTimeLayout = "2006-01-02 15:04:05.000Z"

// DateTime es un timestamp asignado por el almacén externo.
// Acepta el formato del backend, RFC 3339 y cadena vacía (cero).
type DateTime struct {
	time.Time
}

// NewDateTime envuelve t en UTC.
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.UTC()}
}

// ParseDateTime interpreta s con los formatos aceptados.
func ParseDateTime(s string) (DateTime, error) {
	if s == "" {
		return DateTime{}, nil
	}
	for _, layout := range []string{DateTimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateTime{Time: t.UTC()}, nil
		}
	}
	return DateTime{}, fmt.Errorf("fecha inválida: %q", s)
}

func (d DateTime) String() string {
	if d.IsZero() {
		return ""
	}
	return d.UTC().Format(DateTimeLayout)
}

// MarshalJSON serializa con el formato del backend ("" si es cero).
func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON acepta string o null.
func (d *DateTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = DateTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
