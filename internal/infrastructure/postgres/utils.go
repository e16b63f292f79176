package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// Querier es el subconjunto común de *pgxpool.Pool y pgx.Tx que usan los repositorios.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isForeignKeyViolation verifica si la relación apunta a un registro inexistente (23503).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// writeError traduce los errores de escritura a errores de dominio.
func writeError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: relación inexistente: %w", op, domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func newID() string { return uuid.NewString() }

// now trunca a milisegundos, la precisión con que se serializan los timestamps.
func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// orderBy traduce ListOptions.Sort a una cláusula ORDER BY usando solo columnas conocidas.
// Un campo desconocido cae en def. El id desempata para que el orden sea estable.
func orderBy(opts repository.ListOptions, columns map[string]string, def string) string {
	field, desc := opts.SortField()
	col, ok := columns[field]
	if !ok {
		return "ORDER BY " + def
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	idCol := columns["id"]
	if idCol == "" {
		idCol = "id"
	}
	return fmt.Sprintf("ORDER BY %s %s, %s %s", col, dir, idCol, dir)
}
