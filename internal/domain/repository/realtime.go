package repository

import (
	"context"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// TopicAll suscribe a todos los registros de la colección.
const TopicAll = "*"

// Subscription es un stream activo de eventos de una colección.
// Events se cierra cuando el stream termina; Unsubscribe libera el recurso subyacente.
type Subscription struct {
	Events      <-chan entity.RealtimeEvent
	Unsubscribe func()
}

// RealtimeSubscriber define el puerto de suscripción a eventos realtime.
// Subscribe puede bloquear mientras se establece el stream; respeta ctx.
type RealtimeSubscriber interface {
	Subscribe(ctx context.Context, collection, topic string) (*Subscription, error)
}

// EventPublisher publica eventos de cambio de una colección (drivers auto-hospedados).
type EventPublisher interface {
	Publish(ctx context.Context, collection string, event entity.RealtimeEvent) error
}
