package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pnet "usagereport/internal/platform/net"
	"usagereport/internal/platform/net/middleware"
)

func TestAccessLog_PassesThrough(t *testing.T) {
	cases := []struct {
		name string
		opt  middleware.AccessLogOptions
	}{
		{"plain", middleware.AccessLogOptions{}},
		{"slow marked", middleware.AccessLogOptions{Slow: time.Nanosecond}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = io.WriteString(w, "hi")
				_, _ = io.WriteString(w, "there")
			})
			rr := httptest.NewRecorder()
			middleware.AccessLog(tc.opt)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
			if rr.Code != http.StatusCreated || rr.Body.String() != "hithere" {
				t.Fatalf("got %d %q", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestRequestLogger_PropagatesID(t *testing.T) {
	var seen string
	h := middleware.RequestID()(middleware.RequestLogger(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = pnet.RequestID(r.Context())
	})))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "rid-42")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "rid-42" {
		t.Fatalf("request id %q", seen)
	}
}
