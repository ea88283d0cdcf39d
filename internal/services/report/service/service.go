// Package service runs usage report generation over a sample store
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"usagereport/internal/core/histogram"
	"usagereport/internal/core/period"
	"usagereport/internal/core/report"
	"usagereport/internal/modkit/repokit"
	perr "usagereport/internal/platform/errors"
	"usagereport/internal/platform/logger"
	"usagereport/internal/platform/metrics"
	"usagereport/internal/services/report/domain"
)

// Service defines the service contract for reports
type Service interface{ domain.ServicePort }

// Config holds the defaults a run falls back to
type Config struct {
	Months   int           // monthly windows; default 60
	Weeks    int           // weekly windows; 0 -> 4*Months
	MaxCount int           // highest exact-count bucket; default 20
	Interval time.Duration // sampling interval of the store; default 1m
	Location *time.Location
}

func (c Config) withDefaults() Config {
	if c.Months <= 0 {
		c.Months = 60
	}
	if c.MaxCount <= 0 {
		c.MaxCount = 20
	}
	if c.Interval <= 0 {
		c.Interval = time.Minute
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	return c
}

// Svc implements the Service interface
type Svc struct {
	open func() domain.SampleStore
	cfg  Config
}

// New creates a report service binding a fresh postgres repo per run
func New(db repokit.Queryer, binder repokit.Binder[domain.SampleStore], cfg Config) *Svc {
	if db == nil {
		panic("report.Service requires a non nil Queryer")
	}
	if binder == nil {
		panic("report.Service requires a non nil SampleStore binder")
	}
	return &Svc{open: func() domain.SampleStore { return binder.Bind(db) }, cfg: cfg.withDefaults()}
}

// NewWithStore creates a report service over an already bound store
func NewWithStore(st domain.SampleStore, cfg Config) *Svc {
	if st == nil {
		panic("report.Service requires a non nil SampleStore")
	}
	return &Svc{open: func() domain.SampleStore { return st }, cfg: cfg.withDefaults()}
}

// Config returns the effective defaults
func (s *Svc) Config() Config { return s.cfg }

// Bounds returns the recorded sample range
func (s *Svc) Bounds(ctx context.Context) (period.Bounds, error) {
	b, err := s.open().Bounds(ctx)
	if err != nil {
		return period.Bounds{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "read sample bounds")
	}
	return b, nil
}

// Generate builds the weekly and monthly histograms for every category and status
// an unreadable store fails the run; a failing histogram query only marks that entry
func (s *Svc) Generate(ctx context.Context, req domain.Request) (rep domain.Report, err error) {
	began := time.Now()
	runID := uuid.NewString()
	ctx = logger.WithRun(ctx, runID)
	log := logger.C(ctx).With().Str("mod", "report").Logger()
	defer func() { metrics.ObserveRun(time.Since(began), err) }()

	req, err = s.resolve(req)
	if err != nil {
		return domain.Report{}, err
	}

	st := s.open()
	bounds, err := st.Bounds(ctx)
	if err != nil {
		log.Error().Err(err).Msg("report: sample bounds unavailable")
		return domain.Report{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "read sample bounds")
	}
	rep = domain.Report{
		RunID:     runID,
		Bounds:    bounds,
		MaxBucket: req.MaxCount,
		Interval:  s.cfg.Interval,
		Location:  s.cfg.Location,
	}
	if bounds.Empty() {
		log.Warn().Msg("report: no samples recorded")
		return rep, nil
	}

	gen, err := period.NewGenerator(bounds, req.Months, req.Weeks, s.cfg.Location)
	if err != nil {
		return domain.Report{}, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "window generator")
	}

	plan := []struct {
		gran    report.Granularity
		windows []period.Window
	}{
		{report.Week, gen.Weekly(req.End)},
		{report.Month, gen.Monthly(req.End)},
	}
	for _, p := range plan {
		for _, w := range p.windows {
			for _, status := range report.Statuses {
				for _, cat := range report.Categories {
					col := domain.ColumnFor(cat, status)
					res := histogram.Fill(ctx, columnSource{st: st, col: col}, w, req.MaxCount)
					complete := res.Complete()
					metrics.IncHistogram(p.gran.String(), complete)
					if !complete {
						log.Error().
							Err(res.Err).
							Str("window", w.String()).
							Str("column", string(col)).
							Int("threshold", res.FailedAt).
							Msg("report: histogram incomplete")
					}
					rep.Entries = append(rep.Entries, report.Entry{
						Key:    report.Key{Granularity: p.gran, Category: cat, Status: status, Window: w},
						Result: res,
					})
				}
			}
			if cerr := ctx.Err(); cerr != nil {
				code := perr.ErrorCodeUnavailable
				if errors.Is(cerr, context.DeadlineExceeded) {
					code = perr.ErrorCodeTimeout
				}
				return domain.Report{}, perr.Wrap(cerr, code, "report run cancelled")
			}
		}
	}

	report.Sort(rep.Entries)
	log.Info().
		Int("entries", len(rep.Entries)).
		Int("failed", rep.Failed()).
		Time("min", bounds.Min).
		Time("max", bounds.Max).
		Dur("took", time.Since(began)).
		Msg("report: generated")
	return rep, nil
}

func (s *Svc) resolve(req domain.Request) (domain.Request, error) {
	if req.Months < 0 || req.Weeks < 0 || req.MaxCount < 0 {
		return req, perr.InvalidArgf("window and bucket counts must not be negative")
	}
	if req.Months == 0 {
		req.Months = s.cfg.Months
		if req.Weeks == 0 {
			req.Weeks = s.cfg.Weeks
		}
	}
	if req.MaxCount == 0 {
		req.MaxCount = s.cfg.MaxCount
	}
	return req, nil
}

// columnSource binds a store to one counter column for a histogram fill
type columnSource struct {
	st  domain.SampleStore
	col domain.Column
}

func (c columnSource) Sum(ctx context.Context, w period.Window) (int64, error) {
	return c.st.Sum(ctx, c.col, w)
}

func (c columnSource) CountAtLeast(ctx context.Context, w period.Window, k int) (int64, error) {
	return c.st.CountAtLeast(ctx, c.col, w, k)
}

func (c columnSource) CountSamples(ctx context.Context, w period.Window) (int64, error) {
	return c.st.CountSamples(ctx, w)
}
