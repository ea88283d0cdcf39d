// Package period builds calendar aligned reporting windows over the recorded sample range
package period

import (
	"fmt"
	"time"
)

const (
	// Day is the granularity used to judge how complete a partial window is
	Day = 24 * time.Hour

	// WeekLength is the nominal length of a weekly window
	WeekLength = 7 * Day

	// MonthLength is the nominal length of a monthly window for scaling purposes
	MonthLength = 30 * Day
)

// Window is one inclusive reporting interval and its partial-period correction
// the zero value is not meaningful; build windows with NewWindow
type Window struct {
	start   time.Time
	stop    time.Time
	nominal time.Duration
	scale   float64
}

// NewWindow returns the window [start, stop] for a period of nominal length
// start and stop are truncated to whole seconds; stop before start is rejected
func NewWindow(start, stop time.Time, nominal time.Duration) (Window, error) {
	start = start.Truncate(time.Second)
	stop = stop.Truncate(time.Second)
	if stop.Before(start) {
		return Window{}, fmt.Errorf("period: stop %s before start %s", stop.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	if nominal <= 0 {
		return Window{}, fmt.Errorf("period: nominal length must be positive, got %s", nominal)
	}
	return Window{
		start:   start,
		stop:    stop,
		nominal: nominal,
		scale:   scalingFactor(stop.Sub(start), nominal),
	}, nil
}

// mustWindow is used by the generator where bounds are already ordered
func mustWindow(start, stop time.Time, nominal time.Duration) Window {
	w, err := NewWindow(start, stop, nominal)
	if err != nil {
		panic(err)
	}
	return w
}

// scalingFactor projects a partial window onto a full one at whole day resolution
// a window at least as long as nominal is not corrected
func scalingFactor(actual, nominal time.Duration) float64 {
	if actual >= nominal {
		return 1.0
	}
	days := max(int64(actual/Day)+1, 1)
	adjusted := time.Duration(days) * Day
	return float64(nominal) / float64(adjusted)
}

// Start returns the inclusive lower bound
func (w Window) Start() time.Time { return w.start }

// Stop returns the inclusive upper bound
func (w Window) Stop() time.Time { return w.stop }

// StartUnix returns the lower bound in unix seconds, the unit the sample store uses
func (w Window) StartUnix() int64 { return w.start.Unix() }

// StopUnix returns the upper bound in unix seconds
func (w Window) StopUnix() int64 { return w.stop.Unix() }

// Nominal returns the length a full window of this granularity spans
func (w Window) Nominal() time.Duration { return w.nominal }

// Actual returns Stop minus Start
func (w Window) Actual() time.Duration { return w.stop.Sub(w.start) }

// ScalingFactor multiplies raw totals of a partial window up to a full period rate
// it is 1.0 for complete windows and at most Nominal/Day for the shortest ones
func (w Window) ScalingFactor() float64 { return w.scale }

// Coverage is the fraction of the nominal period the window represents, in (0, 1]
func (w Window) Coverage() float64 {
	if w.scale == 0 {
		return 0
	}
	return 1 / w.scale
}

// Partial reports whether the window is shorter than its nominal length
func (w Window) Partial() bool { return w.scale != 1.0 }

// Contains reports whether t falls within the inclusive bounds
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.start) && !t.After(w.stop)
}

// Equal reports whether two windows cover the same interval at the same granularity
func (w Window) Equal(o Window) bool {
	return w.start.Equal(o.start) && w.stop.Equal(o.stop) && w.nominal == o.nominal
}

// String renders the window for logs
func (w Window) String() string {
	return w.start.Format(time.RFC3339) + ".." + w.stop.Format(time.RFC3339)
}
