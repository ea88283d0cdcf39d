package period

import (
	"errors"
	"slices"
	"time"
)

// Bounds is the observed time range of the sample store
// the zero value means the store holds no samples
type Bounds struct {
	Min time.Time
	Max time.Time
}

// BoundsFromUnix builds Bounds from the unix second values the store reports
func BoundsFromUnix(minSec, maxSec int64) Bounds {
	return Bounds{Min: time.Unix(minSec, 0), Max: time.Unix(maxSec, 0)}
}

// Empty reports whether no data was recorded
func (b Bounds) Empty() bool { return b.Min.IsZero() && b.Max.IsZero() }

// Clamp moves t into [Min, Max]
func (b Bounds) Clamp(t time.Time) time.Time {
	if t.Before(b.Min) {
		return b.Min
	}
	if t.After(b.Max) {
		return b.Max
	}
	return t
}

// Span is Max minus Min
func (b Bounds) Span() time.Duration { return b.Max.Sub(b.Min) }

// Generator emits weekly and monthly windows clipped to the recorded data range
type Generator struct {
	bounds Bounds
	months int
	weeks  int
	loc    *time.Location
}

// NewGenerator returns a generator over bounds
// weeks defaults to four per month when zero; a nil loc means time.Local
func NewGenerator(b Bounds, months, weeks int, loc *time.Location) (*Generator, error) {
	if months < 0 || weeks < 0 {
		return nil, errors.New("period: window counts must not be negative")
	}
	if !b.Empty() && b.Max.Before(b.Min) {
		return nil, errors.New("period: bounds max before min")
	}
	if weeks == 0 {
		weeks = 4 * months
	}
	if loc == nil {
		loc = time.Local
	}
	if !b.Empty() {
		b.Min = b.Min.In(loc)
		b.Max = b.Max.In(loc)
	}
	return &Generator{bounds: b, months: months, weeks: weeks, loc: loc}, nil
}

// Bounds returns the data range the generator clips to
func (g *Generator) Bounds() Bounds { return g.bounds }

// Months returns how many monthly windows are requested
func (g *Generator) Months() int { return g.months }

// Weeks returns how many weekly windows are requested
func (g *Generator) Weeks() int { return g.weeks }

// Location returns the zone used for calendar alignment
func (g *Generator) Location() *time.Location { return g.loc }

// Weekly returns up to Weeks() windows aligned on Monday 00:00, earliest first
// the last window runs from its week start to end and may be partial
// a zero end means the latest recorded sample
func (g *Generator) Weekly(end time.Time) []Window {
	if g.bounds.Empty() || g.weeks == 0 {
		return nil
	}
	end = g.resolveEnd(end)
	return g.walk(end, g.weeks, WeekLength, g.StartOfWeek, func(t time.Time) time.Time {
		return t.AddDate(0, 0, -7)
	})
}

// Monthly returns up to Months() windows aligned on the first of the month, earliest first
func (g *Generator) Monthly(end time.Time) []Window {
	if g.bounds.Empty() || g.months == 0 {
		return nil
	}
	end = g.resolveEnd(end)
	return g.walk(end, g.months, MonthLength, g.StartOfMonth, func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month()-1, 1, 0, 0, 0, 0, g.loc)
	})
}

// walk steps backwards from end one period at a time
// each earlier window stops one second before the next one starts so inclusive windows never share a sample
// a window reaching past the data minimum is clipped to it and ends the walk
func (g *Generator) walk(end time.Time, n int, nominal time.Duration, align, prev func(time.Time) time.Time) []Window {
	lo := g.bounds.Min
	start := align(end)
	stop := end

	out := make([]Window, 0, n)
	for len(out) < n {
		if !start.After(lo) {
			out = append(out, mustWindow(lo, stop, nominal))
			break
		}
		out = append(out, mustWindow(start, stop, nominal))
		stop = start.Add(-time.Second)
		start = prev(start)
	}
	slices.Reverse(out)
	return out
}

func (g *Generator) resolveEnd(end time.Time) time.Time {
	if end.IsZero() {
		return g.bounds.Max
	}
	return g.bounds.Clamp(end.In(g.loc))
}

// StartOfWeek returns Monday 00:00 of the week containing t
func (g *Generator) StartOfWeek(t time.Time) time.Time {
	t = t.In(g.loc)
	back := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-back, 0, 0, 0, 0, g.loc)
}

// StartOfMonth returns the first of the month containing t at 00:00
func (g *Generator) StartOfMonth(t time.Time) time.Time {
	t = t.In(g.loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, g.loc)
}
