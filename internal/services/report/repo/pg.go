package repo

import (
	"context"
	"fmt"

	"usagereport/internal/core/period"
	"usagereport/internal/modkit/repokit"
	perr "usagereport/internal/platform/errors"
	"usagereport/internal/platform/store"
	"usagereport/internal/services/report/domain"
)

type (
	// PG binds the sample store to a postgres queryer
	PG struct{ table string }

	// queries holds the bound postgres query methods
	queries struct {
		q     repokit.Queryer
		table string
	}
)

// NewPG creates a postgres binder over table; empty means DefaultTable
func NewPG(table string) repokit.Binder[domain.SampleStore] { return PG{table: mustTable(table)} }

// Bind binds a queryer to the SampleStore implementation
func (p PG) Bind(q repokit.Queryer) domain.SampleStore {
	return &queries{q: repokit.RequireQueryer(q), table: p.table}
}

func (r *queries) Bounds(ctx context.Context) (period.Bounds, error) {
	sql := fmt.Sprintf(`select min(sampled_at), max(sampled_at) from %s`, r.table)
	var lo, hi *int64
	if err := r.q.QueryRow(ctx, sql).Scan(&lo, &hi); err != nil {
		return period.Bounds{}, perr.FromPostgres(err, "sample bounds")
	}
	if lo == nil || hi == nil {
		return period.Bounds{}, nil
	}
	return period.BoundsFromUnix(*lo, *hi), nil
}

func (r *queries) Sum(ctx context.Context, col domain.Column, w period.Window) (int64, error) {
	if err := checkColumn(col); err != nil {
		return 0, err
	}
	sql := fmt.Sprintf(`
select coalesce(sum(%[1]s), 0)::bigint
from %[2]s
where sampled_at between $1 and $2
and %[1]s >= 0
`, col, r.table)
	return r.scalar(ctx, sql, w.StartUnix(), w.StopUnix())
}

func (r *queries) CountAtLeast(ctx context.Context, col domain.Column, w period.Window, k int) (int64, error) {
	if err := checkColumn(col); err != nil {
		return 0, err
	}
	sql := fmt.Sprintf(`
select count(*)
from %[2]s
where sampled_at between $1 and $2
and %[1]s >= $3
`, col, r.table)
	return r.scalar(ctx, sql, w.StartUnix(), w.StopUnix(), k)
}

func (r *queries) CountSamples(ctx context.Context, w period.Window) (int64, error) {
	sql := fmt.Sprintf(`select count(*) from %s where sampled_at between $1 and $2`, r.table)
	return r.scalar(ctx, sql, w.StartUnix(), w.StopUnix())
}

// scalar runs a single value aggregate, repeating it once on a transient failure
func (r *queries) scalar(ctx context.Context, sql string, args ...any) (int64, error) {
	n, err := store.Scalar[int64](ctx, r.q, sql, args...)
	if err != nil && perr.IsRetryable(err) {
		n, err = store.Scalar[int64](ctx, r.q, sql, args...)
	}
	if err != nil {
		return 0, perr.FromPostgres(err, "sample aggregate")
	}
	return n, nil
}
