package pocketbase

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/inventory-tracker/internal/application/auth"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

const (
	realtimePath      = "/api/realtime"
	connectEvent      = "PB_CONNECT"
	connectTimeout    = 15 * time.Second
	unsubscribeBudget = 5 * time.Second
	maxEventSize      = 1 << 20
)

var _ repository.RealtimeSubscriber = (*Subscriber)(nil)

// Subscriber abre un stream SSE por suscripción.
type Subscriber struct {
	client *Client
}

// NewSubscriber construye el suscriptor realtime.
func NewSubscriber(client *Client) *Subscriber {
	return &Subscriber{client: client}
}

// sseMessage un evento del protocolo text/event-stream.
type sseMessage struct {
	ID    string
	Event string
	Data  string
}

// readSSE lee mensajes hasta EOF o error y los envía a out; cierra out al terminar.
func readSSE(r io.Reader, out chan<- sseMessage, done <-chan struct{}) {
	defer close(out)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)

	var msg sseMessage
	var data []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if msg.Event != "" || len(data) > 0 {
				msg.Data = strings.Join(data, "\n")
				select {
				case out <- msg:
				case <-done:
					return
				}
			}
			msg, data = sseMessage{}, nil
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue // comentario / keep-alive
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "id":
			msg.ID = value
		case "event":
			msg.Event = value
		case "data":
			data = append(data, value)
		}
	}
}

type connectPayload struct {
	ClientID string `json:"clientId"`
}

type subscriptionsBody struct {
	ClientID      string   `json:"clientId"`
	Subscriptions []string `json:"subscriptions"`
}

// Subscribe abre el stream, espera PB_CONNECT y registra el topic collection/topic.
// Los eventos recibidos se reenvían tipados por Subscription.Events; el canal se cierra
// cuando el stream termina o tras Unsubscribe.
func (s *Subscriber) Subscribe(ctx context.Context, collection, topic string) (*repository.Subscription, error) {
	if topic == "" {
		topic = repository.TopicAll
	}
	name := collection + "/" + topic
	token := s.client.token(ctx)

	streamCtx, cancel := context.WithCancel(ctx)
	req, err := s.client.newRequest(streamCtx, http.MethodGet, realtimePath, nil, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.streamClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("realtime: abrir stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("realtime: abrir stream: %w", decodeAPIError(resp))
	}

	done := make(chan struct{})
	raw := make(chan sseMessage, s.client.eventBuffer)
	go readSSE(resp.Body, raw, done)

	closeStream := func() {
		cancel()
		resp.Body.Close()
	}

	clientID, err := waitConnect(ctx, raw)
	if err != nil {
		close(done)
		closeStream()
		return nil, fmt.Errorf("realtime: %w", err)
	}

	body := subscriptionsBody{ClientID: clientID, Subscriptions: []string{name}}
	if err := s.client.do(ctx, http.MethodPost, realtimePath, nil, body, nil); err != nil {
		close(done)
		closeStream()
		return nil, fmt.Errorf("realtime: registrar %s: %w", name, err)
	}

	events := make(chan entity.RealtimeEvent, s.client.eventBuffer)
	go forward(raw, events, name, done)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			// Best effort: el backend descarta el cliente al cerrarse la conexión.
			uctx, ucancel := context.WithTimeout(context.Background(), unsubscribeBudget)
			defer ucancel()
			if token != "" {
				uctx = auth.WithToken(uctx, token)
			}
			empty := subscriptionsBody{ClientID: clientID, Subscriptions: []string{}}
			if err := s.client.do(uctx, http.MethodPost, realtimePath, nil, empty, nil); err != nil {
				s.client.log.Debug().Err(err).Str("topic", name).Msg("unsubscribe")
			}
			close(done)
			closeStream()
		})
	}

	s.client.log.Debug().Str("topic", name).Str("client_id", clientID).Msg("suscripción activa")
	return &repository.Subscription{Events: events, Unsubscribe: unsubscribe}, nil
}

func waitConnect(ctx context.Context, raw <-chan sseMessage) (string, error) {
	timer := time.NewTimer(connectTimeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
			return "", errors.New("sin PB_CONNECT")
		case msg, ok := <-raw:
			if !ok {
				return "", domain.ErrStreamClosed
			}
			if msg.Event != connectEvent {
				continue
			}
			var p connectPayload
			if err := json.Unmarshal([]byte(msg.Data), &p); err != nil || p.ClientID == "" {
				if msg.ID == "" {
					return "", errors.New("PB_CONNECT sin clientId")
				}
				p.ClientID = msg.ID
			}
			return p.ClientID, nil
		}
	}
}

// forward decodifica los mensajes del topic. Un payload ilegible se reenvía sin acción para
// que el consumidor lo reporte como evento malformado.
func forward(raw <-chan sseMessage, events chan<- entity.RealtimeEvent, name string, done <-chan struct{}) {
	defer close(events)
	for msg := range raw {
		if msg.Event != name {
			continue
		}
		var ev entity.RealtimeEvent
		if err := json.Unmarshal([]byte(msg.Data), &ev); err != nil {
			ev = entity.RealtimeEvent{}
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}
