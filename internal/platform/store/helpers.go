package store

import (
	"context"
	"errors"

	perr "usagereport/internal/platform/errors"
)

// RowSource is anything that returns a result set, postgres or clickhouse
type RowSource interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Scalar scans the first column of a single row into T
func Scalar[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (T, error) {
	var v T
	if err := q.QueryRow(ctx, sql, args...).Scan(&v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// One maps exactly one row through scan
// no row is perr.ErrNotFound, a second row is an error
func One[T any](ctx context.Context, q RowSource, scan func(Row) (T, error), sql string, args ...any) (T, error) {
	var zero T
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return zero, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, err
		}
		return zero, perr.ErrNotFound
	}
	item, err := scan(rows)
	if err != nil {
		return zero, err
	}
	if rows.Next() {
		return zero, errors.New("expected one row, got more")
	}
	return item, rows.Err()
}
