// Package histogram decomposes cumulative "at least k users" sample counts into exact-count buckets
package histogram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"usagereport/internal/core/period"
)

// ErrNonMonotonic is recorded when a higher threshold reports more samples than a lower one
var ErrNonMonotonic = errors.New("histogram: cumulative counts increase with threshold")

// Source answers the three questions a fill asks about one column over one window
// implementations return zero for an empty or NULL aggregate
type Source interface {
	// Sum is the total of the column over the window
	Sum(ctx context.Context, w period.Window) (int64, error)
	// CountAtLeast is the number of samples whose column value is >= k
	CountAtLeast(ctx context.Context, w period.Window, k int) (int64, error)
	// CountSamples is the number of samples recorded in the window regardless of value
	CountSamples(ctx context.Context, w period.Window) (int64, error)
}

// Result is the histogram for one window and column, in raw sample units
type Result struct {
	Window period.Window

	// Buckets[i] counts samples with exactly i+1 users present
	Buckets []int64
	// Overflow counts samples with more than len(Buckets) users present
	Overflow int64

	OnSamples     int64
	UserSamples   int64
	ActiveSamples int64

	// Filled is the number of query steps that completed; step 0 is the sum
	Filled int
	// FailedAt is the step whose query failed, -1 when nothing failed
	// OnStep(len(Buckets)) marks a failed on-samples query
	FailedAt int
	Err      error
}

// OnStep is the step index reported when the on-samples query fails
func OnStep(maxBucket int) int { return maxBucket + 2 }

// Complete reports whether every query succeeded
func (r Result) Complete() bool { return r.FailedAt < 0 && r.Err == nil }

// MaxBucket is the highest exact-count bucket
func (r Result) MaxBucket() int { return len(r.Buckets) }

// Fill queries src for window w and builds the bucket decomposition up to maxBucket
// a failing query stops the fill and leaves the buckets computed so far in place
func Fill(ctx context.Context, src Source, w period.Window, maxBucket int) Result {
	if maxBucket < 0 {
		maxBucket = 0
	}
	res := Result{
		Window:   w,
		Buckets:  make([]int64, maxBucket),
		FailedAt: -1,
	}

	fillBuckets(ctx, src, &res)

	on, err := src.CountSamples(ctx, w)
	if err != nil {
		res.fail(OnStep(maxBucket), fmt.Errorf("count samples: %w", err))
	} else {
		res.OnSamples = on
	}
	return res
}

func fillBuckets(ctx context.Context, src Source, res *Result) {
	maxBucket := len(res.Buckets)

	sum, err := src.Sum(ctx, res.Window)
	if err != nil {
		res.fail(0, fmt.Errorf("sum: %w", err))
		return
	}
	res.Filled = 1
	if sum <= 0 {
		return
	}
	res.UserSamples = sum

	for k := 1; k <= maxBucket+1; k++ {
		c, err := src.CountAtLeast(ctx, res.Window, k)
		if err != nil {
			res.fail(k, fmt.Errorf("count >= %d: %w", k, err))
			return
		}
		if c <= 0 {
			return
		}
		if k == 1 {
			res.ActiveSamples = c
		} else {
			prev := &res.Buckets[k-2]
			if *prev < c {
				res.fail(k, fmt.Errorf("count >= %d is %d, count >= %d is %d: %w", k-1, *prev, k, c, ErrNonMonotonic))
				return
			}
			*prev -= c
		}
		if k <= maxBucket {
			res.Buckets[k-1] = c
		} else {
			res.Overflow = c
		}
		res.Filled = k + 1
	}
}

func (r *Result) fail(step int, err error) {
	if r.FailedAt < 0 {
		r.FailedAt = step
	}
	r.Err = errors.Join(r.Err, err)
}

// Hours converts a sample count to hours given the sampling interval
func Hours(samples int64, interval time.Duration) float64 {
	return float64(samples) * interval.Seconds() / 3600
}

// Metrics is a Result converted to hours, in row order
type Metrics struct {
	Buckets     []float64
	Overflow    float64
	OnHours     float64
	UserHours   float64
	ActiveHours float64
}

// Metrics converts the raw counts to hours and multiplies by scale
// pass 1 for unscaled values or Window.ScalingFactor() for a full period projection
func (r Result) Metrics(interval time.Duration, scale float64) Metrics {
	h := func(n int64) float64 { return Hours(n, interval) * scale }

	m := Metrics{
		Buckets:     make([]float64, len(r.Buckets)),
		Overflow:    h(r.Overflow),
		OnHours:     h(r.OnSamples),
		UserHours:   h(r.UserSamples),
		ActiveHours: h(r.ActiveSamples),
	}
	for i, b := range r.Buckets {
		m.Buckets[i] = h(b)
	}
	return m
}

// Values flattens the metrics into buckets, overflow, on, user, active
func (m Metrics) Values() []float64 {
	out := make([]float64, 0, len(m.Buckets)+4)
	out = append(out, m.Buckets...)
	return append(out, m.Overflow, m.OnHours, m.UserHours, m.ActiveHours)
}
