// Package realtime mantiene una vista local de una colección remota sincronizada con
// su stream de eventos (create/update/delete).
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// State es el estado de la suscripción de un Reconciler.
type State string

const (
	StateUnsubscribed State = "unsubscribed"
	StateSubscribing  State = "subscribing"
	StateActive       State = "active"
	StateError        State = "error" // sin stream: la lista sigue disponible en modo solo-lectura
)

// ErrStopped indica que el Reconciler ya fue detenido.
var ErrStopped = errors.New("reconciliador detenido")

// Config parámetros de un Reconciler.
type Config[T Record] struct {
	Collection string
	Topic      string // repository.TopicAll si vacío
	Subscriber repository.RealtimeSubscriber
	Fetch      func(ctx context.Context) ([]T, error)
	Order      Less[T]                          // nil: los creados se anteponen
	Decode     func(json.RawMessage) (T, error) // nil: encoding/json
	ErrorSink  func(error)                      // recibe fallas no fatales
}

// Reconciler mantiene la lista de una vista: carga inicial más eventos del stream.
//
// Start se suscribe antes de consultar la lista; los eventos que llegan durante la carga
// quedan en el canal de la suscripción y se aplican sobre la lista cargada, de modo que
// ningún cambio se pierde entre la consulta y la activación del stream.
type Reconciler[T Record] struct {
	cfg Config[T]

	mu      sync.Mutex
	items   []T
	state   State
	lastErr error
	started bool
	closed  bool
	cancel  context.CancelFunc
	unsub   func()

	release  sync.Once
	stopOnce sync.Once
	changes  chan struct{}
	done     chan struct{}
}

// New construye un Reconciler sin iniciar (StateUnsubscribed).
func New[T Record](cfg Config[T]) *Reconciler[T] {
	if cfg.Topic == "" {
		cfg.Topic = repository.TopicAll
	}
	if cfg.Decode == nil {
		cfg.Decode = decodeJSON[T]
	}
	if cfg.ErrorSink == nil {
		cfg.ErrorSink = func(error) {}
	}
	return &Reconciler[T]{
		cfg:     cfg,
		state:   StateUnsubscribed,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Start establece la suscripción, carga la lista inicial y comienza a aplicar eventos.
//
// Si la suscripción no se puede establecer, el estado pasa a StateError, la falla se envía
// al ErrorSink y la lista se carga igual (modo solo-lectura, ver Refresh). Si en cambio la
// suscripción queda activa y la carga inicial falla, el estado pasa igual a StateActive: los
// eventos se siguen aplicando sobre la lista vacía y Refresh puede recargarla más tarde.
// El error devuelto corresponde únicamente a la carga inicial; en ambos casos Stop debe llamarse.
func (r *Reconciler[T]) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if r.closed || r.started {
		r.mu.Unlock()
		cancel()
		return ErrStopped
	}
	r.started = true
	r.cancel = cancel
	r.state = StateSubscribing
	r.mu.Unlock()
	r.notify()

	sub, err := r.cfg.Subscriber.Subscribe(runCtx, r.cfg.Collection, r.cfg.Topic)
	if err != nil {
		failure := domain.SubscriptionSetupFailure(r.cfg.Collection+".subscribe", err)
		if !r.setState(StateError, failure) {
			return ErrStopped
		}
		r.cfg.ErrorSink(failure)
		return r.load(runCtx)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.releaseSub(sub.Unsubscribe)
		return ErrStopped
	}
	r.unsub = sub.Unsubscribe
	r.mu.Unlock()

	loadErr := r.load(runCtx)
	if !r.setState(StateActive, nil) {
		return ErrStopped
	}
	go r.loop(runCtx, sub.Events)
	return loadErr
}

// Refresh vuelve a consultar la lista completa y reemplaza la vista.
func (r *Reconciler[T]) Refresh(ctx context.Context) error {
	return r.load(ctx)
}

// Stop cancela la suscripción y libera el stream exactamente una vez.
// Es idempotente y seguro aunque la suscripción siga estableciéndose.
func (r *Reconciler[T]) Stop() {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.state = StateUnsubscribed
		unsub, cancel := r.unsub, r.cancel
		r.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		if unsub != nil {
			r.releaseSub(unsub)
		}
		close(r.done)
		r.notify()
	})
}

// Snapshot devuelve una copia de la lista actual.
func (r *Reconciler[T]) Snapshot() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// State devuelve el estado de la suscripción.
func (r *Reconciler[T]) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Err devuelve la última falla de suscripción o carga (nil si ninguna).
func (r *Reconciler[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Changes notifica (de forma agrupada) cada cambio de lista o de estado.
func (r *Reconciler[T]) Changes() <-chan struct{} { return r.changes }

// Done se cierra cuando el Reconciler se detiene.
func (r *Reconciler[T]) Done() <-chan struct{} { return r.done }

func (r *Reconciler[T]) load(ctx context.Context) error {
	items, err := r.cfg.Fetch(ctx)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrStopped
	}
	if err != nil {
		failure := domain.RetrievalFailure(r.cfg.Collection+".list", err)
		r.lastErr = failure
		r.mu.Unlock()
		r.cfg.ErrorSink(failure)
		r.notify()
		return failure
	}
	list := make([]T, len(items))
	copy(list, items)
	sortItems(list, r.cfg.Order)
	r.items = list
	r.mu.Unlock()
	r.notify()
	return nil
}

func (r *Reconciler[T]) loop(ctx context.Context, events <-chan entity.RealtimeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				r.streamEnded()
				return
			}
			r.apply(ev)
		}
	}
}

func (r *Reconciler[T]) apply(ev entity.RealtimeEvent) {
	rec, ok, err := decodeEvent(ev, r.cfg.Decode)
	if err != nil {
		r.cfg.ErrorSink(domain.EventApplyFailure(r.cfg.Collection+".event", err))
		return
	}
	if !ok {
		return
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.items = applyEvent(r.items, ev.Action, rec, r.cfg.Order)
	r.mu.Unlock()
	r.notify()
}

func (r *Reconciler[T]) streamEnded() {
	r.mu.Lock()
	unsub := r.unsub
	r.mu.Unlock()
	failure := domain.SubscriptionSetupFailure(r.cfg.Collection+".stream", domain.ErrStreamClosed)
	if !r.setState(StateError, failure) {
		return
	}
	if unsub != nil {
		r.releaseSub(unsub)
	}
	r.cfg.ErrorSink(failure)
}

// setState cambia el estado salvo que el Reconciler esté detenido.
func (r *Reconciler[T]) setState(s State, err error) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	r.state = s
	if err != nil {
		r.lastErr = err
	}
	r.mu.Unlock()
	r.notify()
	return true
}

func (r *Reconciler[T]) releaseSub(fn func()) {
	if fn == nil {
		return
	}
	r.release.Do(fn)
}

func (r *Reconciler[T]) notify() {
	select {
	case r.changes <- struct{}{}:
	default:
	}
}
