// Package pocketbase implementa los puertos de colecciones, realtime e identidad sobre la
// API REST de un backend PocketBase hospedado.
//
// Endpoints usados:
//
//	GET    /api/collections/{c}/records          listado paginado (filter, sort, expand)
//	GET    /api/collections/{c}/records/{id}     registro
//	POST   /api/collections/{c}/records          alta
//	PATCH  /api/collections/{c}/records/{id}     modificación
//	DELETE /api/collections/{c}/records/{id}     baja
//	GET    /api/realtime                         stream SSE
//	POST   /api/realtime                         conjunto de suscripciones del cliente SSE
//	POST   /api/collections/users/auth-refresh   validación del token de usuario
package pocketbase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/inventory-tracker/internal/application/auth"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

const maxErrorBody = 64 * 1024

// Config parámetros del cliente.
type Config struct {
	BaseURL      string
	ServiceToken string        // se usa cuando el contexto no trae token de usuario
	Timeout      time.Duration // peticiones REST; el stream SSE no tiene timeout
	EventBuffer  int           // capacidad del canal de eventos por suscripción
}

// Client cliente HTTP del backend. Seguro para uso concurrente.
type Client struct {
	baseURL      string
	serviceToken string
	eventBuffer  int
	httpClient   *http.Client
	streamClient *http.Client
	log          *logger.Logger
}

// NewClient construye el cliente. log puede ser nil.
func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 64
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		serviceToken: cfg.ServiceToken,
		eventBuffer:  cfg.EventBuffer,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		streamClient: &http.Client{},
		log:          log.Component("pocketbase"),
	}
}

// APIError respuesta de error del backend ({code, message, data}).
type APIError struct {
	Status  int                       `json:"code"`
	Message string                    `json:"message"`
	Data    map[string]map[string]any `json:"data"`
}

func (e *APIError) Error() string {
	if len(e.Data) == 0 {
		return fmt.Sprintf("pocketbase: %d %s", e.Status, e.Message)
	}
	fields := make([]string, 0, len(e.Data))
	for f := range e.Data {
		fields = append(fields, f)
	}
	return fmt.Sprintf("pocketbase: %d %s (%s)", e.Status, e.Message, strings.Join(fields, ", "))
}

// Unwrap traduce el status HTTP al error de dominio equivalente.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return domain.ErrInvalidInput
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	}
	return nil
}

func (c *Client) token(ctx context.Context) string {
	if t := auth.TokenFrom(ctx); t != "" {
		return t
	}
	return c.serviceToken
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("pocketbase: serializar body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return nil, fmt.Errorf("pocketbase: crear request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if t := c.token(ctx); t != "" {
		req.Header.Set("Authorization", t)
	}
	return req, nil
}

// do ejecuta la petición y decodifica la respuesta en out (si no es nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("pocketbase: %s %s: cancelado: %w", method, path, ctx.Err())
		}
		return fmt.Errorf("pocketbase: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("pocketbase: %s %s: decodificar respuesta: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	apiErr.Status = resp.StatusCode
	return apiErr
}

// IsStatus indica si err es un APIError con el status indicado.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
