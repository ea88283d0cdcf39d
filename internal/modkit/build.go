package modkit

import (
	"net/http"

	phttp "usagereport/internal/platform/net/http"
)

// Built is the resolved option set a module keeps
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Ports    any
	Register func(phttp.Router)
}

// Build applies opts; Register defaults to a no-op
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.register == nil {
		c.register = func(phttp.Router) {}
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:    c.ports,
		Register: c.register,
	}
}

// Mount registers b under its prefix with its middleware on r
func (b Built) Mount(r phttp.Router) {
	r.Route(b.Prefix, func(sr phttp.Router) {
		if len(b.Mw) > 0 {
			sr.Use(b.Mw...)
		}
		b.Register(sr)
	})
}
