package pocketbase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/application/auth"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/pocketbase"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newClient(t *testing.T, handler http.Handler) *pocketbase.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return pocketbase.NewClient(pocketbase.Config{
		BaseURL:      srv.URL + "/",
		ServiceToken: "service-token",
		Timeout:      5 * time.Second,
		EventBuffer:  8,
	}, nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func page(items []map[string]any, n, total int) map[string]any {
	return map[string]any{"page": n, "perPage": 500, "totalItems": len(items), "totalPages": total, "items": items}
}

// ──────────────────────────────────────────────────────────────────────────────
// Records
// ──────────────────────────────────────────────────────────────────────────────

func TestItemRepo_ListRecorreTodasLasPaginas(t *testing.T) {
	var mu sync.Mutex
	var queries []string
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.RawQuery)
		mu.Unlock()
		assert.Equal(t, "/api/collections/items/records", r.URL.Path)
		assert.Equal(t, "-created", r.URL.Query().Get("sort"))
		assert.Equal(t, "storage_location", r.URL.Query().Get("expand"))
		assert.Equal(t, "500", r.URL.Query().Get("perPage"))

		n, _ := strconv.Atoi(r.URL.Query().Get("page"))
		item := map[string]any{
			"id": fmt.Sprintf("i%d", n), "name": "Item", "weight": 1.25, "price": 10,
			"storage_location": "L1", "created": "2024-05-01 10:00:00.000Z",
			"expand": map[string]any{"storage_location": map[string]any{"id": "L1", "name": "Bodega"}},
		}
		writeJSON(w, http.StatusOK, page([]map[string]any{item}, n, 2))
	}))

	list, err := pocketbase.NewItemRepo(client).List(context.Background(), repository.ListOptions{
		Sort: repository.SortNewestFirst, Expand: []string{"storage_location"},
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "i1", list[0].ID)
	assert.Equal(t, "i2", list[1].ID)
	assert.True(t, list[0].Weight.Equal(decimal.RequireFromString("1.25")))
	require.NotNil(t, list[0].Expand.StorageLocation)
	assert.Equal(t, "Bodega", list[0].Expand.StorageLocation.Name)
	assert.Len(t, queries, 2)
}

func TestItemRepo_CreateEnviaNumerosYTokenDeUsuario(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "user-token", r.Header.Get("Authorization"), "el token del contexto tiene prioridad")

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 2.5, body["weight"], "weight debe viajar como número JSON")
		assert.Equal(t, "Tornillo", body["name"])

		body["id"] = "new1"
		body["created"] = "2024-05-01 10:00:00.000Z"
		writeJSON(w, http.StatusOK, body)
	}))

	item := &entity.Item{Name: "Tornillo", Weight: decimal.RequireFromString("2.5"), Price: decimal.NewFromInt(3)}
	ctx := auth.WithToken(context.Background(), "user-token")
	require.NoError(t, pocketbase.NewItemRepo(client).Create(ctx, item))
	assert.Equal(t, "new1", item.ID)
	assert.False(t, item.Created.IsZero())
}

func TestClient_ErroresSeTraducenADominio(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "service-token", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusNotFound, map[string]any{"code": 404, "message": "The requested resource wasn't found.", "data": map[string]any{}})
		case http.MethodPatch:
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"code": 400, "message": "Failed to update record.",
				"data": map[string]any{"name": map[string]any{"code": "validation_required", "message": "Missing required value."}},
			})
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	repo := pocketbase.NewItemRepo(client)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, pocketbase.IsStatus(err, http.StatusNotFound))

	err = repo.Update(ctx, &entity.Item{ID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "name")

	assert.ErrorIs(t, repo.Delete(ctx, "x"), domain.ErrForbidden)
}

func TestStockChangeRepo_ListByItemsFiltraPorConjunto(t *testing.T) {
	var filter string
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter = r.URL.Query().Get("filter")
		writeJSON(w, http.StatusOK, page([]map[string]any{
			{"id": "1", "item": "a", "stock_change": 10, "reason": "x"},
			{"id": "2", "item": `b"c`, "stock_change": -2, "reason": "y"},
		}, 1, 1))
	}))

	rows, err := pocketbase.NewStockChangeRepo(client).ListByItems(context.Background(), []string{"a", `b"c`})
	require.NoError(t, err)
	assert.Equal(t, `item = "a" || item = "b\"c"`, filter)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(-2), rows[1].Delta)
}

func TestStockChangeRepo_CreateCuerpo(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"item": "a", "stock_change": float64(-4), "reason": "merma", "user": "u1"}, body)
		body["id"] = "sc1"
		writeJSON(w, http.StatusOK, body)
	}))

	change := &entity.StockChange{ItemID: "a", Delta: -4, Reason: "merma", UserID: "u1"}
	require.NoError(t, pocketbase.NewStockChangeRepo(client).Create(context.Background(), change))
	assert.Equal(t, "sc1", change.ID)
}

func TestStorageLocationRepo_AmbasVariantes(t *testing.T) {
	var written map[string]any
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&written))
			writeJSON(w, http.StatusOK, map[string]any{"id": "L9", "Name": "Muelle", "Position": "M", "Location": "Patio"})
			return
		}
		writeJSON(w, http.StatusOK, page([]map[string]any{
			{"id": "L1", "name": "Bodega", "description": "principal"},
			{"id": "L2", "Name": "Estante", "Position": "A-1", "Location": "Pasillo"},
		}, 1, 1))
	}))
	repo := pocketbase.NewStorageLocationRepo(client)

	list, err := repo.List(context.Background(), repository.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, entity.SchemaDescribed, list[0].Schema)
	assert.Equal(t, entity.SchemaPositioned, list[1].Schema)
	assert.Equal(t, "Estante", list[1].Name)

	loc := &entity.StorageLocation{Name: "Muelle", Position: "M", Location: "Patio", Schema: entity.SchemaPositioned}
	require.NoError(t, repo.Create(context.Background(), loc))
	assert.Equal(t, map[string]any{"Name": "Muelle", "Position": "M", "Location": "Patio"}, written)
	assert.Equal(t, "L9", loc.ID)
}

func TestUserRepo_UpdateRole(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/collections/users/records/u1", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"id": "u1", "email": "a@x.co", "role": "admin"})
	}))

	u, err := pocketbase.NewUserRepo(client).UpdateRole(context.Background(), "u1", "admin")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
}

func TestIdentity_Authenticate(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/collections/users/auth-refresh", r.URL.Path)
		if r.Header.Get("Authorization") != "good" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"code": 401, "message": "invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": "refreshed", "record": map[string]any{"id": "u1", "email": "a@x.co", "role": "admin"}})
	}))
	idp := pocketbase.NewIdentity(client)

	u, err := idp.Authenticate(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = idp.Authenticate(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestQuoteYAnyOf(t *testing.T) {
	assert.Equal(t, `"a\\b\"c"`, pocketbase.Quote(`a\b"c`))
	assert.Equal(t, `id = "1"`, pocketbase.AnyOf("id", []string{"1"}))
	assert.Empty(t, pocketbase.AnyOf("id", nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Realtime (SSE)
// ──────────────────────────────────────────────────────────────────────────────

type fakeRealtime struct {
	mu   sync.Mutex
	subs [][]string
	send chan string
}

func (f *fakeRealtime) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/realtime" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": keep-alive\n\nid:c1\nevent:PB_CONNECT\ndata:{\"clientId\":\"c1\"}\n\n")
		flusher.Flush()
		for {
			select {
			case <-r.Context().Done():
				return
			case msg, ok := <-f.send:
				if !ok {
					return
				}
				fmt.Fprint(w, msg)
				flusher.Flush()
			}
		}
	case http.MethodPost:
		var body struct {
			ClientID      string   `json:"clientId"`
			Subscriptions []string `json:"subscriptions"`
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		if body.ClientID != "c1" {
			writeJSON(w, http.StatusNotFound, map[string]any{"code": 404, "message": "Missing or invalid client id."})
			return
		}
		f.mu.Lock()
		f.subs = append(f.subs, body.Subscriptions)
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (f *fakeRealtime) subscriptions() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.subs...)
}

func TestSubscriber_RecibeEventosDelTopic(t *testing.T) {
	rt := &fakeRealtime{send: make(chan string, 4)}
	client := newClient(t, rt)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := pocketbase.NewSubscriber(client).Subscribe(ctx, "storage_locations", repository.TopicAll)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"storage_locations/*"}}, rt.subscriptions())

	rt.send <- "event:items/*\ndata:{\"action\":\"create\",\"record\":{\"id\":\"otro\"}}\n\n"
	rt.send <- "id:e1\nevent:storage_locations/*\ndata:{\"action\":\"update\",\"record\":{\"id\":\"L1\",\"name\":\"Bodega\"}}\n\n"
	rt.send <- "event:storage_locations/*\ndata:no-json\n\n"

	select {
	case ev := <-sub.Events:
		assert.Equal(t, entity.ActionUpdate, ev.Action, "los eventos de otros topics se descartan")
		assert.JSONEq(t, `{"id":"L1","name":"Bodega"}`, string(ev.Record))
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó el evento")
	}
	select {
	case ev := <-sub.Events:
		assert.Empty(t, ev.Action, "un payload ilegible llega sin acción")
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó el evento malformado")
	}

	sub.Unsubscribe()
	sub.Unsubscribe()
	subs := rt.subscriptions()
	require.Len(t, subs, 2, "unsubscribe publica el conjunto vacío una sola vez")
	assert.Empty(t, subs[1])

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-sub.Events:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond, "Events se cierra tras Unsubscribe")
}

func TestSubscriber_FallaDeRegistro(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := pocketbase.NewSubscriber(client).Subscribe(context.Background(), "storage_locations", "")
	assert.Error(t, err)
}

func TestSubscriber_StreamCerradoAntesDeConectar(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
	}))

	_, err := pocketbase.NewSubscriber(client).Subscribe(context.Background(), "storage_locations", "")
	assert.ErrorIs(t, err, domain.ErrStreamClosed)
}
