package domain

import (
	"context"

	"usagereport/internal/core/period"
)

// SampleStore answers aggregate questions about the sample table
// aggregates over no rows are zero, not errors
type SampleStore interface {
	// Bounds is the earliest and latest sample time; zero Bounds when the table is empty
	Bounds(ctx context.Context) (period.Bounds, error)
	// Sum totals col over samples inside w
	Sum(ctx context.Context, col Column, w period.Window) (int64, error)
	// CountAtLeast counts samples inside w whose col is >= k
	CountAtLeast(ctx context.Context, col Column, w period.Window, k int) (int64, error)
	// CountSamples counts samples inside w
	CountSamples(ctx context.Context, w period.Window) (int64, error)
}

// ServicePort is what other modules call
type ServicePort interface {
	Generate(ctx context.Context, req Request) (Report, error)
	Bounds(ctx context.Context) (period.Bounds, error)
}
