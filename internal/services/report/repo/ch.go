package repo

import (
	"context"
	"errors"
	"fmt"

	"usagereport/internal/core/period"
	perr "usagereport/internal/platform/errors"
	"usagereport/internal/platform/store"
	"usagereport/internal/services/report/domain"
)

// CH reads samples from a clickhouse copy of the sample table
type CH struct {
	db    store.Clickhouse
	table string
}

// NewCH returns a clickhouse backed SampleStore over table; empty means DefaultTable
func NewCH(db store.Clickhouse, table string) *CH {
	if db == nil {
		panic("report repo: CH requires a non nil clickhouse seam")
	}
	return &CH{db: db, table: mustTable(table)}
}

var _ domain.SampleStore = (*CH)(nil)

// Bounds returns the sample range; clickhouse min/max of an empty table is 0
func (c *CH) Bounds(ctx context.Context) (period.Bounds, error) {
	sql := fmt.Sprintf(`SELECT toInt64(count()), toInt64(min(sampled_at)), toInt64(max(sampled_at)) FROM %s`, c.table)
	var n, lo, hi int64
	if err := c.one(ctx, sql, []any{&n, &lo, &hi}); err != nil {
		return period.Bounds{}, err
	}
	if n == 0 {
		return period.Bounds{}, nil
	}
	return period.BoundsFromUnix(lo, hi), nil
}

// Sum totals col over w
func (c *CH) Sum(ctx context.Context, col domain.Column, w period.Window) (int64, error) {
	if err := checkColumn(col); err != nil {
		return 0, err
	}
	sql := fmt.Sprintf(`SELECT toInt64(sum(%[1]s)) FROM %[2]s WHERE sampled_at BETWEEN ? AND ? AND %[1]s >= 0`, col, c.table)
	return c.scalar(ctx, sql, w.StartUnix(), w.StopUnix())
}

// CountAtLeast counts samples in w with col >= k
func (c *CH) CountAtLeast(ctx context.Context, col domain.Column, w period.Window, k int) (int64, error) {
	if err := checkColumn(col); err != nil {
		return 0, err
	}
	sql := fmt.Sprintf(`SELECT toInt64(count()) FROM %[2]s WHERE sampled_at BETWEEN ? AND ? AND %[1]s >= ?`, col, c.table)
	return c.scalar(ctx, sql, w.StartUnix(), w.StopUnix(), int64(k))
}

// CountSamples counts samples in w
func (c *CH) CountSamples(ctx context.Context, w period.Window) (int64, error) {
	sql := fmt.Sprintf(`SELECT toInt64(count()) FROM %s WHERE sampled_at BETWEEN ? AND ?`, c.table)
	return c.scalar(ctx, sql, w.StartUnix(), w.StopUnix())
}

func (c *CH) scalar(ctx context.Context, sql string, args ...any) (int64, error) {
	var n int64
	if err := c.one(ctx, sql, []any{&n}, args...); err != nil {
		return 0, err
	}
	return n, nil
}

// one scans the single aggregate row into dest; no row leaves dest at zero
func (c *CH) one(ctx context.Context, sql string, dest []any, args ...any) error {
	_, err := store.One(ctx, c.db, func(r store.Row) (struct{}, error) {
		return struct{}{}, r.Scan(dest...)
	}, sql, args...)
	if err == nil || errors.Is(err, perr.ErrNotFound) {
		return nil
	}
	return perr.Wrap(err, perr.ErrorCodeDB, "clickhouse aggregate")
}
