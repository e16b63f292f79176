// Package redisbus transporta los eventos realtime del driver postgres sobre Redis pub/sub.
// Cada colección usa el canal "realtime:<colección>"; el payload es el RealtimeEvent en JSON.
package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

var (
	_ repository.EventPublisher     = (*Bus)(nil)
	_ repository.RealtimeSubscriber = (*Bus)(nil)
)

// Bus publica y consume eventos de colecciones.
type Bus struct {
	client *redis.Client
	buffer int
	log    *logger.Logger
}

// New construye el bus sobre un cliente ya conectado. buffer es la capacidad del canal
// de eventos de cada suscripción.
func New(client *redis.Client, buffer int, log *logger.Logger) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Bus{client: client, buffer: buffer, log: log.Component("redisbus")}
}

// Channel devuelve el canal Redis de una colección.
func Channel(collection string) string {
	return "realtime:" + collection
}

// Publish serializa el evento y lo publica en el canal de la colección.
func (b *Bus) Publish(ctx context.Context, collection string, ev entity.RealtimeEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("redisbus: serializar evento: %w", err)
	}
	if err := b.client.Publish(ctx, Channel(collection), raw).Err(); err != nil {
		return fmt.Errorf("redisbus: publish %s: %w", collection, err)
	}
	return nil
}

// Subscribe se suscribe al canal de la colección y espera la confirmación del servidor
// antes de devolver, de modo que ningún evento publicado después se pierde.
// topic "*" recibe todos los registros; otro valor filtra por id de registro.
func (b *Bus) Subscribe(ctx context.Context, collection, topic string) (*repository.Subscription, error) {
	if topic == "" {
		topic = repository.TopicAll
	}
	channel := Channel(collection)
	ps := b.client.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redisbus: subscribe %s: %w", channel, err)
	}

	events := make(chan entity.RealtimeEvent, b.buffer)
	done := make(chan struct{})
	go b.forward(ps.Channel(), events, topic, done)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			if err := ps.Close(); err != nil {
				b.log.Debug().Err(err).Str("channel", channel).Msg("unsubscribe")
			}
		})
	}
	b.log.Debug().Str("channel", channel).Str("topic", topic).Msg("suscripción activa")
	return &repository.Subscription{Events: events, Unsubscribe: unsubscribe}, nil
}

// forward decodifica los mensajes; un payload ilegible se reenvía vacío para que el
// consumidor lo reporte como evento malformado.
func (b *Bus) forward(in <-chan *redis.Message, events chan<- entity.RealtimeEvent, topic string, done <-chan struct{}) {
	defer close(events)
	for {
		select {
		case <-done:
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			var ev entity.RealtimeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				ev = entity.RealtimeEvent{}
			} else if !matchesTopic(ev, topic) {
				continue
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}
}

func matchesTopic(ev entity.RealtimeEvent, topic string) bool {
	if topic == repository.TopicAll {
		return true
	}
	var rec struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(ev.Record, &rec); err != nil {
		return true
	}
	return rec.ID == topic
}
