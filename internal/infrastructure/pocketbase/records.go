package pocketbase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// perPage es el máximo de registros por página que admite el backend.
const perPage = 500

type listPage[T any] struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Items      []T `json:"items"`
}

func recordsPath(collection string) string {
	return "/api/collections/" + url.PathEscape(collection) + "/records"
}

func recordPath(collection, id string) string {
	return recordsPath(collection) + "/" + url.PathEscape(id)
}

// listQuery traduce ListOptions a parámetros del backend.
func listQuery(opts repository.ListOptions, filter string) url.Values {
	q := url.Values{}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	if len(opts.Expand) > 0 {
		q.Set("expand", strings.Join(opts.Expand, ","))
	}
	if filter != "" {
		q.Set("filter", filter)
	}
	return q
}

// listAll recorre todas las páginas y devuelve la lista completa.
func listAll[T any](ctx context.Context, c *Client, collection string, query url.Values) ([]T, error) {
	var out []T
	for page := 1; ; page++ {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("perPage", strconv.Itoa(perPage))

		var res listPage[T]
		if err := c.do(ctx, http.MethodGet, recordsPath(collection), q, nil, &res); err != nil {
			return nil, fmt.Errorf("%s: list: %w", collection, err)
		}
		out = append(out, res.Items...)
		if page >= res.TotalPages || len(res.Items) == 0 {
			break
		}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func getRecord[T any](ctx context.Context, c *Client, collection, id string, query url.Values) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodGet, recordPath(collection, id), query, nil, &out); err != nil {
		return nil, fmt.Errorf("%s: get %s: %w", collection, id, err)
	}
	return &out, nil
}

func createRecord(ctx context.Context, c *Client, collection string, body, out any) error {
	if err := c.do(ctx, http.MethodPost, recordsPath(collection), nil, body, out); err != nil {
		return fmt.Errorf("%s: create: %w", collection, err)
	}
	return nil
}

func updateRecord(ctx context.Context, c *Client, collection, id string, body, out any) error {
	if err := c.do(ctx, http.MethodPatch, recordPath(collection, id), nil, body, out); err != nil {
		return fmt.Errorf("%s: update %s: %w", collection, id, err)
	}
	return nil
}

func deleteRecord(ctx context.Context, c *Client, collection, id string) error {
	if err := c.do(ctx, http.MethodDelete, recordPath(collection, id), nil, nil, nil); err != nil {
		return fmt.Errorf("%s: delete %s: %w", collection, id, err)
	}
	return nil
}

// Quote escapa s como literal de string del lenguaje de filtros.
func Quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// AnyOf construye `field = "a" || field = "b"` para el conjunto de valores.
func AnyOf(field string, values []string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, field+" = "+Quote(v))
	}
	return strings.Join(parts, " || ")
}
