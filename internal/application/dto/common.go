package dto

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NumberText conserva el texto de un campo numérico tal como llegó (número JSON o string)
// para que la validación ocurra en el caso de uso y no se coaccione a cero.
type NumberText string

// UnmarshalJSON acepta número, string o null.
func (n *NumberText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NumberText(s)
		return nil
	}
	*n = NumberText(b)
	return nil
}

func (n NumberText) String() string { return strings.TrimSpace(string(n)) }

// IsEmpty indica si el campo no se envió.
func (n NumberText) IsEmpty() bool { return n.String() == "" }
