package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func header(name string) func(stdhttp.Handler) stdhttp.Handler {
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			w.Header().Set(name, "1")
			next.ServeHTTP(w, r)
		})
	}
}

func TestAdaptChi_GroupsRoutesAndMiddleware(t *testing.T) {
	t.Parallel()

	r := AdaptChi(chi.NewRouter())
	r.Use(header("X-Root"))
	r.Get("/root", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { _, _ = w.Write([]byte("root")) })

	r.Group(func(g Router) {
		g.Use(header("X-Group"))
		g.Get("/g", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { _, _ = w.Write([]byte("g")) })
	})

	r.Route("/api", func(sr Router) {
		sr.Use(header("X-Route"))
		sr.Post("/reports", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(stdhttp.StatusCreated) })
		sr.Handle("/raw", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(stdhttp.StatusTeapot) }))
	})

	do := func(method, path string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		r.Mux().ServeHTTP(rr, httptest.NewRequest(method, path, nil))
		return rr
	}

	rr := do(stdhttp.MethodGet, "/root")
	if rr.Body.String() != "root" || rr.Header().Get("X-Root") != "1" || rr.Header().Get("X-Group") != "" {
		t.Fatalf("root: %d %q %v", rr.Code, rr.Body.String(), rr.Header())
	}
	rr = do(stdhttp.MethodGet, "/g")
	if rr.Body.String() != "g" || rr.Header().Get("X-Group") != "1" {
		t.Fatalf("group: %d %v", rr.Code, rr.Header())
	}
	rr = do(stdhttp.MethodPost, "/api/reports")
	if rr.Code != stdhttp.StatusCreated || rr.Header().Get("X-Route") != "1" || rr.Header().Get("X-Root") != "1" {
		t.Fatalf("route: %d %v", rr.Code, rr.Header())
	}
	if rr = do(stdhttp.MethodGet, "/api/raw"); rr.Code != stdhttp.StatusTeapot {
		t.Fatalf("handle: %d", rr.Code)
	}
	if rr = do(stdhttp.MethodGet, "/api/reports"); rr.Code != stdhttp.StatusMethodNotAllowed {
		t.Fatalf("method: %d", rr.Code)
	}
}
