package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"usagereport/internal/core/period"
	"usagereport/internal/core/report"
	perr "usagereport/internal/platform/errors"
	"usagereport/internal/platform/testkit"
	"usagereport/internal/services/report/domain"
)

type sample struct {
	at     int64
	counts map[domain.Column]int64
}

// memStore answers aggregates by scanning samples in memory
type memStore struct {
	samples   []sample
	boundsErr error
	// failK makes CountAtLeast fail at that threshold, narrowed by
	// failCol (any column when empty) and failStart (any window when zero)
	failCol   domain.Column
	failK     int
	failStart time.Time
	queries   int
}

func (m *memStore) Bounds(context.Context) (period.Bounds, error) {
	if m.boundsErr != nil {
		return period.Bounds{}, m.boundsErr
	}
	if len(m.samples) == 0 {
		return period.Bounds{}, nil
	}
	lo, hi := m.samples[0].at, m.samples[0].at
	for _, s := range m.samples {
		lo, hi = min(lo, s.at), max(hi, s.at)
	}
	return period.BoundsFromUnix(lo, hi), nil
}

func (m *memStore) each(w period.Window, fn func(sample)) {
	for _, s := range m.samples {
		if s.at >= w.StartUnix() && s.at <= w.StopUnix() {
			fn(s)
		}
	}
}

func (m *memStore) Sum(_ context.Context, col domain.Column, w period.Window) (int64, error) {
	m.queries++
	var n int64
	m.each(w, func(s sample) { n += s.counts[col] })
	return n, nil
}

func (m *memStore) CountAtLeast(_ context.Context, col domain.Column, w period.Window, k int) (int64, error) {
	m.queries++
	if m.fails(col, w, k) {
		return 0, errors.New("statement timeout")
	}
	var n int64
	m.each(w, func(s sample) {
		if s.counts[col] >= int64(k) {
			n++
		}
	})
	return n, nil
}

func (m *memStore) fails(col domain.Column, w period.Window, k int) bool {
	if k != m.failK {
		return false
	}
	if m.failCol != "" && col != m.failCol {
		return false
	}
	return m.failStart.IsZero() || w.Start().Equal(m.failStart)
}

func (m *memStore) CountSamples(_ context.Context, w period.Window) (int64, error) {
	m.queries++
	var n int64
	m.each(w, func(sample) { n++ })
	return n, nil
}

// hourly samples from Mar 1 00:00 to Mar 20 23:00 UTC
// one teacher always on, students cycle 0,1,2; one student active every third hour
func marchStore() *memStore {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Unix()
	m := &memStore{}
	for i := 0; i < 20*24; i++ {
		m.samples = append(m.samples, sample{
			at: start + int64(i)*3600,
			counts: map[domain.Column]int64{
				domain.TeacherCount:       1,
				domain.ActiveTeacherCount: 0,
				domain.StudentCount:       int64(i % 3),
				domain.ActiveStudentCount: int64(i%3) / 2,
			},
		})
	}
	return m
}

func newSvc(st domain.SampleStore) *Svc {
	return NewWithStore(st, Config{Months: 1, MaxCount: 3, Interval: time.Hour, Location: time.UTC})
}

func TestGenerate_WindowsAndOrder(t *testing.T) {
	t.Parallel()

	rep, err := newSvc(marchStore()).Generate(context.Background(), domain.Request{})
	if err != nil {
		t.Fatal(err)
	}
	// 4 weekly + 1 monthly windows, 4 histograms each
	if len(rep.Entries) != 20 {
		t.Fatalf("entries = %d, want 20", len(rep.Entries))
	}
	if rep.RunID == "" {
		t.Fatal("missing run id")
	}
	if rep.Failed() != 0 {
		t.Fatalf("failed = %d", rep.Failed())
	}

	want := []struct {
		g report.Granularity
		c report.Category
		s report.Status
	}{
		{report.Month, report.Student, report.Active},
		{report.Month, report.Student, report.All},
		{report.Month, report.Teacher, report.Active},
		{report.Month, report.Teacher, report.All},
		{report.Week, report.Student, report.Active},
	}
	for i, w := range want {
		k := rep.Entries[i].Key
		if k.Granularity != w.g || k.Category != w.c || k.Status != w.s {
			t.Fatalf("entry %d key = %v/%v/%v", i, k.Granularity, k.Category, k.Status)
		}
	}

	// weekly student active windows run newest first
	starts := []time.Time{
		time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, s := range starts {
		got := rep.Entries[4+i].Key.Window.Start()
		if !got.Equal(s) {
			t.Fatalf("week %d start = %s, want %s", i, got, s)
		}
	}

	for i := 1; i < len(rep.Entries); i++ {
		if report.Compare(rep.Entries[i-1].Key, rep.Entries[i].Key) >= 0 {
			t.Fatalf("entries %d and %d out of order", i-1, i)
		}
	}
}

func TestGenerate_MonthlyHistograms(t *testing.T) {
	t.Parallel()

	rep, err := newSvc(marchStore()).Generate(context.Background(), domain.Request{})
	if err != nil {
		t.Fatal(err)
	}
	byKey := map[[2]int]report.Entry{}
	for _, e := range rep.Entries {
		if e.Key.Granularity == report.Month {
			byKey[[2]int{int(e.Key.Category), int(e.Key.Status)}] = e
		}
	}

	studentAll := byKey[[2]int{int(report.Student), int(report.All)}].Result
	if got := studentAll.Buckets; got[0] != 160 || got[1] != 160 || got[2] != 0 {
		t.Fatalf("student buckets = %v", got)
	}
	if studentAll.UserSamples != 480 || studentAll.ActiveSamples != 320 || studentAll.OnSamples != 480 {
		t.Fatalf("student totals = %+v", studentAll)
	}

	teacherAll := byKey[[2]int{int(report.Teacher), int(report.All)}].Result
	if teacherAll.Buckets[0] != 480 || teacherAll.Overflow != 0 {
		t.Fatalf("teacher buckets = %v", teacherAll.Buckets)
	}

	teacherActive := byKey[[2]int{int(report.Teacher), int(report.Active)}].Result
	if teacherActive.UserSamples != 0 || teacherActive.ActiveSamples != 0 || teacherActive.OnSamples != 480 {
		t.Fatalf("idle teacher totals = %+v", teacherActive)
	}
	if !teacherActive.Complete() {
		t.Fatal("no usage must not be a failure")
	}

	header := rep.Header()
	rows := rep.Rows(false)
	if len(rows) != len(rep.Entries) || len(rows[0]) != len(header) {
		t.Fatalf("rows %d x %d, header %d", len(rows), len(rows[0]), len(header))
	}
}

func TestGenerate_PartialFailureIsContained(t *testing.T) {
	t.Parallel()

	st := marchStore()
	st.failCol, st.failK = domain.StudentCount, 2

	rep, err := newSvc(st).Generate(context.Background(), domain.Request{})
	if err != nil {
		t.Fatalf("partial failure must not fail the run: %v", err)
	}
	if rep.Failed() != 5 {
		t.Fatalf("failed = %d, want one per window", rep.Failed())
	}
	for _, e := range rep.Entries {
		failing := e.Key.Category == report.Student && e.Key.Status == report.All
		if failing == e.Result.Complete() {
			t.Fatalf("%v/%v complete = %v", e.Key.Category, e.Key.Status, e.Result.Complete())
		}
		if failing {
			if e.Result.FailedAt != 2 || e.Result.Buckets[0] == 0 || e.Result.OnSamples == 0 {
				t.Fatalf("partial result = %+v", e.Result)
			}
		}
	}
}

func TestGenerate_FailedWindowDoesNotStopRun(t *testing.T) {
	t.Parallel()

	st := marchStore()
	// keep every column in use so each histogram reaches the threshold queries
	for _, s := range st.samples {
		s.counts[domain.ActiveTeacherCount] = 1
	}
	bad := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	st.failK, st.failStart = 1, bad

	rep, err := newSvc(st).Generate(context.Background(), domain.Request{})
	if err != nil {
		t.Fatalf("a failed window must not fail the run: %v", err)
	}
	if len(rep.Entries) != 20 || rep.Failed() != 4 {
		t.Fatalf("entries = %d failed = %d, want 20 and 4", len(rep.Entries), rep.Failed())
	}

	laterComplete := 0
	for _, e := range rep.Entries {
		r := e.Result
		if !e.Key.Window.Start().Equal(bad) {
			if !r.Complete() {
				t.Fatalf("window %s incomplete: %v", e.Key.Window, r.Err)
			}
			if e.Key.Granularity == report.Week && e.Key.Window.Start().Before(bad) {
				laterComplete++
			}
			continue
		}
		if r.FailedAt != 1 || r.ActiveSamples != 0 || r.Overflow != 0 {
			t.Fatalf("failed window result = %+v", r)
		}
		for i, b := range r.Buckets {
			if b != 0 {
				t.Fatalf("bucket %d = %d, want zero", i+1, b)
			}
		}
		if r.OnSamples != 7*24 {
			t.Fatalf("on samples = %d", r.OnSamples)
		}
	}
	// the two weeks generated after the failed one
	if laterComplete != 8 {
		t.Fatalf("complete entries after the failed week = %d, want 8", laterComplete)
	}
}

func TestGenerate_EmptyStore(t *testing.T) {
	t.Parallel()

	st := &memStore{}
	rep, err := newSvc(st).Generate(context.Background(), domain.Request{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Entries) != 0 || !rep.Bounds.Empty() {
		t.Fatalf("want empty report, got %d entries", len(rep.Entries))
	}
	if st.queries != 0 {
		t.Fatalf("no histogram queries expected, got %d", st.queries)
	}
}

func TestGenerate_BoundsUnavailable(t *testing.T) {
	t.Parallel()

	st := &memStore{boundsErr: errors.New("connection refused")}
	_, err := newSvc(st).Generate(context.Background(), domain.Request{})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
	if _, err := newSvc(st).Bounds(context.Background()); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("bounds err = %v", err)
	}
}

func TestGenerate_RequestOverrides(t *testing.T) {
	t.Parallel()

	end := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	rep, err := newSvc(marchStore()).Generate(context.Background(), domain.Request{Months: 1, Weeks: 1, MaxCount: 5, End: end})
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Entries) != 8 || rep.MaxBucket != 5 {
		t.Fatalf("entries = %d, max = %d", len(rep.Entries), rep.MaxBucket)
	}
	for _, e := range rep.Entries {
		if e.Key.Window.Stop().After(end) {
			t.Fatalf("window %s past end", e.Key.Window)
		}
		if len(e.Result.Buckets) != 5 {
			t.Fatalf("bucket count = %d", len(e.Result.Buckets))
		}
	}
}

func TestGenerate_UnsetCountsUseConfig(t *testing.T) {
	t.Parallel()

	svc := NewWithStore(marchStore(), Config{Months: 1, Weeks: 2, MaxCount: 4, Interval: time.Hour, Location: time.UTC})
	rep, err := svc.Generate(context.Background(), domain.Request{})
	if err != nil {
		t.Fatal(err)
	}
	// 2 weekly + 1 monthly windows, 4 histograms each
	if len(rep.Entries) != 12 || rep.MaxBucket != 4 {
		t.Fatalf("entries = %d, max = %d", len(rep.Entries), rep.MaxBucket)
	}
}

func TestGenerate_RejectsNegative(t *testing.T) {
	t.Parallel()

	_, err := newSvc(marchStore()).Generate(context.Background(), domain.Request{Months: -1})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newSvc(marchStore()).Generate(ctx, domain.Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestGenerate_DeadlineIsTimeout(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	_, err := newSvc(marchStore()).Generate(ctx, domain.Request{})
	if !errors.Is(err, context.DeadlineExceeded) || !perr.IsCode(err, perr.ErrorCodeTimeout) {
		t.Fatalf("err = %v code = %v", err, perr.CodeOf(err))
	}
}

func TestNew_PanicsOnNil(t *testing.T) {
	t.Parallel()

	testkit.MustPanic(t, func() { _ = New(nil, nil, Config{}) })
	testkit.MustPanic(t, func() { _ = NewWithStore(nil, Config{}) })
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	c := NewWithStore(&memStore{}, Config{}).Config()
	if c.Months != 60 || c.MaxCount != 20 || c.Interval != time.Minute || c.Location == nil {
		t.Fatalf("defaults = %+v", c)
	}
}
