package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrUserNotFound   = errors.New("usuario no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrDuplicate      = errors.New("recurso duplicado")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrForbidden      = errors.New("acceso denegado")
	ErrConflict       = errors.New("conflicto con el estado actual")
	ErrInvalidRole    = errors.New("rol inválido")
	ErrStreamClosed   = errors.New("el stream de eventos se cerró")
	ErrMalformedEvent = errors.New("evento realtime malformado")
)

// FailureKind clasifica las fallas que cruzan la frontera con el almacén externo.
type FailureKind string

const (
	KindRetrieval         FailureKind = "retrieval"          // list/historial no se pudo obtener
	KindWrite             FailureKind = "write"              // create/update/delete rechazado
	KindSubscriptionSetup FailureKind = "subscription_setup" // no se pudo establecer el stream
	KindEventApply        FailureKind = "event_apply"        // un evento realtime no se pudo aplicar (no fatal)
)

// Failure es un resultado de falla distinguible: nunca se resuelve a un valor por defecto.
// Op identifica la operación (ej. "items.list"); Err es la causa original.
type Failure struct {
	Kind FailureKind
	Op   string
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: %s", f.Op, f.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", f.Op, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Message devuelve un texto legible para notificaciones al usuario.
func (f *Failure) Message() string {
	switch f.Kind {
	case KindRetrieval:
		return "no se pudo obtener la información solicitada"
	case KindWrite:
		return "no se pudo guardar el cambio"
	case KindSubscriptionSetup:
		return "no se pudo activar la actualización en tiempo real"
	case KindEventApply:
		return "no se pudo aplicar una actualización en tiempo real"
	}
	return "error inesperado"
}

// RetrievalFailure envuelve un error de lectura. Devuelve nil si err es nil.
func RetrievalFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Failure{Kind: KindRetrieval, Op: op, Err: err}
}

// WriteFailure envuelve un error de escritura. Devuelve nil si err es nil.
func WriteFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Failure{Kind: KindWrite, Op: op, Err: err}
}

// SubscriptionSetupFailure envuelve un error al establecer el stream realtime.
func SubscriptionSetupFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Failure{Kind: KindSubscriptionSetup, Op: op, Err: err}
}

// EventApplyFailure envuelve un error al aplicar un evento individual.
func EventApplyFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Failure{Kind: KindEventApply, Op: op, Err: err}
}

// IsKind indica si err (o alguno de sus envueltos) es una Failure del tipo indicado.
func IsKind(err error, kind FailureKind) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == kind
}
