// Package http exposes report generation over the api
package http

import (
	stdhttp "net/http"
	"time"

	"usagereport/internal/modkit/httpkit"
	perr "usagereport/internal/platform/errors"
	"usagereport/internal/services/report/domain"
)

// DateLayout is the format of ReportInput.End
const DateLayout = "2006-01-02"

// Deps are the handler dependencies
type Deps struct {
	Reports domain.ServicePort
	// Location resolves End dates; nil means time.Local
	Location *time.Location
}

type handlers struct {
	svc domain.ServicePort
	loc *time.Location
}

// Register mounts the report routes
func Register(r httpkit.Router, d Deps) {
	if d.Reports == nil {
		panic("reports http requires a report port")
	}
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	h := &handlers{svc: d.Reports, loc: loc}
	httpkit.PostJSON(r, "/", h.generate)
	httpkit.Get(r, "/bounds", h.bounds)
}

// generate runs one report and returns its rows in report order
func (h *handlers) generate(r *stdhttp.Request, in domain.ReportInput) (any, error) {
	req, err := h.request(in)
	if err != nil {
		return nil, err
	}
	rep, err := h.svc.Generate(r.Context(), req)
	if err != nil {
		return nil, err
	}
	out := domain.ReportOutput{
		RunID:  rep.RunID,
		Header: rep.Header(),
		Rows:   rep.Rows(in.Scaled),
		Failed: rep.Failed(),
		Scaled: in.Scaled,
	}
	if !rep.Bounds.Empty() {
		out.MinTime = rep.Bounds.Min.In(h.loc).Format(time.RFC3339)
		out.MaxTime = rep.Bounds.Max.In(h.loc).Format(time.RFC3339)
	}
	return out, nil
}

func (h *handlers) bounds(r *stdhttp.Request) (any, error) {
	b, err := h.svc.Bounds(r.Context())
	if err != nil {
		return nil, err
	}
	if b.Empty() {
		return domain.BoundsOutput{Empty: true}, nil
	}
	return domain.BoundsOutput{
		MinTime: b.Min.In(h.loc).Format(time.RFC3339),
		MaxTime: b.Max.In(h.loc).Format(time.RFC3339),
		MinUnix: b.Min.Unix(),
		MaxUnix: b.Max.Unix(),
	}, nil
}

// request turns the body into a run request; End covers the whole named day
func (h *handlers) request(in domain.ReportInput) (domain.Request, error) {
	req := domain.Request{Months: in.Months, Weeks: in.Weeks, MaxCount: in.MaxCount}
	if in.End == "" {
		return req, nil
	}
	day, err := time.ParseInLocation(DateLayout, in.End, h.loc)
	if err != nil {
		return domain.Request{}, perr.WithField(perr.InvalidArgf("end: %v", err), "end")
	}
	req.End = day.AddDate(0, 0, 1).Add(-time.Second)
	return req, nil
}
