package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/brightpath-learning/brightpath/internal/domain"
)

// dbtx is the subset of pgxpool.Pool and pgx.Tx the repositories need, so a
// repository can run against either.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// textArrayOrNil turns an optional filter slice into a query argument. A nil
// argument disables the corresponding ANY clause.
func textArrayOrNil(values []string) any {
	if len(values) == 0 {
		return nil
	}
	return values
}

// indexUnavailable wraps a backend failure so callers can test for
// domain.ErrIndexUnavailable with errors.Is.
func indexUnavailable(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
}
