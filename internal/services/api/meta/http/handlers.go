// Package http provides health and build endpoints
package http

import (
	"net/http"
	"time"

	"usagereport/internal/core/version"
	"usagereport/internal/modkit/httpkit"
	"usagereport/internal/modkit/repokit"
)

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	// Store is checked by /ready; nil reports skipped
	Store repokit.Guarder
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d, now: time.Now}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
}

// ReadyResponse reports whether the sample store answers
type ReadyResponse struct {
	Status string `json:"status"` // ok fail skipped
	Error  string `json:"error,omitempty"`
	Now    string `json:"now"`
}

func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}

// ready answers 200 even on failure; the status field carries the verdict
func (h *handlers) ready(r *http.Request) (any, error) {
	out := ReadyResponse{Status: "skipped", Now: h.now().UTC().Format(time.RFC3339)}
	if h.deps.Store == nil {
		return out, nil
	}
	if err := repokit.Check(r.Context(), h.deps.Store); err != nil {
		out.Status, out.Error = "fail", err.Error()
		return out, nil
	}
	out.Status = "ok"
	return out, nil
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}
