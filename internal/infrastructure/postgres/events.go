package postgres

import (
	"context"
	"sync"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// Emitter publica un evento realtime por cada escritura confirmada.
// Un Emitter nil no publica nada. Un error de publicación no revierte la escritura: se registra.
type Emitter struct {
	pub repository.EventPublisher
	log *logger.Logger

	// pending acumula los eventos de una transacción hasta el Commit.
	mu      sync.Mutex
	hold    bool
	pending []pendingEvent
}

type pendingEvent struct {
	collection string
	event      entity.RealtimeEvent
}

// NewEmitter construye el emisor. pub nil desactiva la publicación.
func NewEmitter(pub repository.EventPublisher, log *logger.Logger) *Emitter {
	if pub == nil {
		return nil
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Emitter{pub: pub, log: log.Component("postgres.events")}
}

// deferred devuelve un emisor que retiene los eventos hasta flush.
func (e *Emitter) deferred() *Emitter {
	if e == nil {
		return nil
	}
	return &Emitter{pub: e.pub, log: e.log, hold: true}
}

func (e *Emitter) emit(ctx context.Context, collection, action string, record any) {
	if e == nil {
		return
	}
	ev, err := entity.NewRealtimeEvent(action, record)
	if err != nil {
		e.log.Error().Err(err).Str("collection", collection).Msg("serializar evento")
		return
	}
	if e.hold {
		e.mu.Lock()
		e.pending = append(e.pending, pendingEvent{collection: collection, event: ev})
		e.mu.Unlock()
		return
	}
	e.publish(ctx, collection, ev)
}

func (e *Emitter) publish(ctx context.Context, collection string, ev entity.RealtimeEvent) {
	if err := e.pub.Publish(ctx, collection, ev); err != nil {
		e.log.Warn().Err(err).
			Str("collection", collection).
			Str("action", ev.Action).
			Msg("publicar evento")
	}
}

// flush publica en orden los eventos retenidos.
func (e *Emitter) flush(ctx context.Context) {
	if e == nil {
		return
	}
	e.mu.Lock()
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()
	for _, p := range pending {
		e.publish(ctx, p.collection, p.event)
	}
}

// discard descarta los eventos retenidos (Rollback).
func (e *Emitter) discard() {
	if e == nil {
		return
	}
	e.mu.Lock()
	e.pending = nil
	e.mu.Unlock()
}
