// Package module defines the module contracts and port lookup used at bootstrap
package module

import (
	phttp "tubeport/internal/platform/net/http"
)

// Porter is anything that exposes a named port bundle. Worker modules such as
// ingest and ident stop here
type Porter interface {
	Ports() any
	Name() string
}

// Module is a Porter that also mounts HTTP routes
type Module interface {
	Porter
	MountRoutes(r phttp.Router)
}
