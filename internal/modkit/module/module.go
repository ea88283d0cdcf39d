// Package module is the contract the api mounts and the port lookup between modules
package module

import (
	phttp "usagereport/internal/platform/net/http"
)

// Module mounts routes and exposes a port bundle for other modules
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
