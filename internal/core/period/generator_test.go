package period

import (
	"testing"
	"time"
)

func mustGen(t *testing.T, b Bounds, months, weeks int) *Generator {
	t.Helper()
	g, err := NewGenerator(b, months, weeks, time.UTC)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return g
}

func checkWindows(t *testing.T, ws []Window, b Bounds) {
	t.Helper()
	for i, w := range ws {
		if w.Start().After(w.Stop()) {
			t.Fatalf("window %d: start after stop: %s", i, w)
		}
		if w.Start().Before(b.Min) || w.Stop().After(b.Max) {
			t.Fatalf("window %d outside bounds: %s", i, w)
		}
		if i == 0 {
			continue
		}
		prev := ws[i-1]
		if !prev.Stop().Before(w.Start()) {
			t.Fatalf("windows %d and %d overlap: %s %s", i-1, i, prev, w)
		}
		if !prev.Stop().Add(time.Second).Equal(w.Start()) {
			t.Fatalf("gap between windows %d and %d: %s %s", i-1, i, prev, w)
		}
	}
}

func TestGenerator_Weekly(t *testing.T) {
	t.Parallel()

	b := Bounds{Min: at(2024, time.January, 3, 10, 0, 0), Max: at(2024, time.March, 20, 15, 0, 0)}
	g := mustGen(t, b, 0, 3)

	ws := g.Weekly(time.Time{})
	if len(ws) != 3 {
		t.Fatalf("want 3 windows, got %d", len(ws))
	}
	checkWindows(t, ws, b)

	want := [][2]time.Time{
		{at(2024, time.March, 4, 0, 0, 0), at(2024, time.March, 10, 23, 59, 59)},
		{at(2024, time.March, 11, 0, 0, 0), at(2024, time.March, 17, 23, 59, 59)},
		{at(2024, time.March, 18, 0, 0, 0), at(2024, time.March, 20, 15, 0, 0)},
	}
	for i, w := range want {
		if !ws[i].Start().Equal(w[0]) || !ws[i].Stop().Equal(w[1]) {
			t.Errorf("window %d = %s, want %s..%s", i, ws[i], w[0], w[1])
		}
	}
	if !near(ws[2].ScalingFactor(), 7.0/3.0) {
		t.Errorf("latest window factor=%v want 7/3", ws[2].ScalingFactor())
	}
	if ws[0].ScalingFactor() != 1.0 || ws[1].ScalingFactor() != 1.0 {
		t.Errorf("full weeks must not be scaled")
	}
}

func TestGenerator_WeeklyClampsAtDataMin(t *testing.T) {
	t.Parallel()

	b := Bounds{Min: at(2024, time.February, 28, 10, 0, 0), Max: at(2024, time.March, 20, 15, 0, 0)}
	g := mustGen(t, b, 0, 10)

	ws := g.Weekly(time.Time{})
	if len(ws) != 4 {
		t.Fatalf("want 4 windows, got %d", len(ws))
	}
	checkWindows(t, ws, b)
	if !ws[0].Start().Equal(b.Min) {
		t.Fatalf("earliest window should start at data min, got %s", ws[0])
	}
	if !ws[0].Stop().Equal(at(2024, time.March, 3, 23, 59, 59)) {
		t.Fatalf("earliest window stop=%s", ws[0].Stop())
	}
}

func TestGenerator_MonthlyYearRollover(t *testing.T) {
	t.Parallel()

	b := Bounds{Min: at(2023, time.November, 15, 8, 0, 0), Max: at(2024, time.February, 10, 12, 0, 0)}

	ws := mustGen(t, b, 3, 0).Monthly(time.Time{})
	if len(ws) != 3 {
		t.Fatalf("want 3 windows, got %d", len(ws))
	}
	checkWindows(t, ws, b)
	if !ws[0].Start().Equal(at(2023, time.December, 1, 0, 0, 0)) {
		t.Fatalf("earliest start=%s", ws[0].Start())
	}
	if !ws[1].Stop().Equal(at(2024, time.January, 31, 23, 59, 59)) {
		t.Fatalf("january stop=%s", ws[1].Stop())
	}
	if !near(ws[2].ScalingFactor(), 3.0) {
		t.Fatalf("partial february factor=%v want 3", ws[2].ScalingFactor())
	}

	all := mustGen(t, b, 5, 0).Monthly(time.Time{})
	if len(all) != 4 {
		t.Fatalf("want 4 windows after clamping, got %d", len(all))
	}
	checkWindows(t, all, b)
	if !all[0].Start().Equal(b.Min) || !all[0].Stop().Equal(at(2023, time.November, 30, 23, 59, 59)) {
		t.Fatalf("clamped window=%s", all[0])
	}
}

func TestGenerator_EmptyBounds(t *testing.T) {
	t.Parallel()

	g := mustGen(t, Bounds{}, 12, 0)
	if ws := g.Weekly(time.Time{}); len(ws) != 0 {
		t.Fatalf("weekly over empty store: %d windows", len(ws))
	}
	if ws := g.Monthly(at(2024, time.June, 1, 0, 0, 0)); len(ws) != 0 {
		t.Fatalf("monthly over empty store: %d windows", len(ws))
	}
}

func TestGenerator_EndIsClamped(t *testing.T) {
	t.Parallel()

	b := Bounds{Min: at(2024, time.January, 3, 10, 0, 0), Max: at(2024, time.March, 20, 15, 0, 0)}
	g := mustGen(t, b, 2, 0)

	late := g.Weekly(at(2030, time.January, 1, 0, 0, 0))
	dflt := g.Weekly(time.Time{})
	if len(late) != len(dflt) || !late[len(late)-1].Equal(dflt[len(dflt)-1]) {
		t.Fatalf("end past data max should behave like the default end")
	}

	early := g.Weekly(at(2020, time.January, 1, 0, 0, 0))
	if len(early) != 1 {
		t.Fatalf("end before data min: want 1 window, got %d", len(early))
	}
	if !early[0].Start().Equal(b.Min) || !early[0].Stop().Equal(b.Min) {
		t.Fatalf("degenerate window=%s", early[0])
	}
	if early[0].ScalingFactor() != 7.0 {
		t.Fatalf("degenerate factor=%v", early[0].ScalingFactor())
	}
}

func TestGenerator_Properties(t *testing.T) {
	t.Parallel()

	b := Bounds{Min: at(2022, time.July, 14, 3, 7, 0), Max: at(2024, time.December, 31, 23, 59, 0)}
	g := mustGen(t, b, 24, 0)
	if g.Weeks() != 96 {
		t.Fatalf("weeks default=%d want 96", g.Weeks())
	}

	for end := b.Min; end.Before(b.Max); end = end.Add(11*Day + 5*time.Hour) {
		weekly := g.Weekly(end)
		monthly := g.Monthly(end)
		if len(weekly) == 0 || len(weekly) > g.Weeks() || len(monthly) == 0 || len(monthly) > g.Months() {
			t.Fatalf("end %s: counts weekly=%d monthly=%d", end, len(weekly), len(monthly))
		}
		checkWindows(t, weekly, b)
		checkWindows(t, monthly, b)
		if !weekly[len(weekly)-1].Stop().Equal(end.Truncate(time.Second)) {
			t.Fatalf("end %s: latest weekly stop=%s", end, weekly[len(weekly)-1].Stop())
		}
		for _, w := range weekly[1:] {
			if w.Start().Weekday() != time.Monday || w.Start().Hour() != 0 {
				t.Fatalf("weekly window not Monday aligned: %s", w)
			}
		}
		for _, w := range monthly[1:] {
			if w.Start().Day() != 1 || w.Start().Hour() != 0 {
				t.Fatalf("monthly window not aligned to first of month: %s", w)
			}
		}
	}
}

func TestGenerator_LocationAlignment(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC-5", -5*3600)
	b := Bounds{Min: at(2024, time.January, 1, 0, 0, 0), Max: at(2024, time.March, 18, 3, 0, 0)}
	g, err := NewGenerator(b, 1, 1, loc)
	if err != nil {
		t.Fatal(err)
	}

	// 03:00 UTC Monday is still Sunday evening five hours west
	ws := g.Weekly(time.Time{})
	want := time.Date(2024, time.March, 11, 0, 0, 0, 0, loc)
	if len(ws) != 1 || !ws[0].Start().Equal(want) {
		t.Fatalf("weekly start=%v want %v", ws, want)
	}
	if got := g.StartOfMonth(b.Max); !got.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, loc)) {
		t.Fatalf("StartOfMonth=%v", got)
	}
}

func TestNewGenerator_Rejects(t *testing.T) {
	t.Parallel()

	if _, err := NewGenerator(Bounds{}, -1, 0, nil); err == nil {
		t.Fatalf("expected error for negative months")
	}
	b := Bounds{Min: at(2024, time.March, 1, 0, 0, 0), Max: at(2024, time.February, 1, 0, 0, 0)}
	if _, err := NewGenerator(b, 1, 0, nil); err == nil {
		t.Fatalf("expected error for inverted bounds")
	}
	g, err := NewGenerator(Bounds{}, 1, 0, nil)
	if err != nil || g.Location() != time.Local {
		t.Fatalf("nil location should default to Local")
	}
}

func TestBoundsFromUnix(t *testing.T) {
	t.Parallel()

	b := BoundsFromUnix(1700000000, 1700086400)
	if b.Empty() || b.Span() != Day {
		t.Fatalf("unexpected bounds %+v", b)
	}
}
