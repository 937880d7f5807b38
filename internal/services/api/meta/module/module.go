// Package module mounts the health and version endpoints at the router root
package module

import (
	"context"
	"time"

	modkit "tubeport/internal/modkit"
	"tubeport/internal/modkit/httpkit"
	str "tubeport/internal/platform/strings"

	metahttp "tubeport/internal/services/api/meta/http"
)

// Module implements modkit.Module
type Module struct {
	spec modkit.Spec
	deps metahttp.Deps
}

// New constructs the meta module. guard may be nil
func New(service string, guard func(context.Context) error, opts ...modkit.Option) modkit.Module {
	return &Module{
		spec: modkit.Build([]modkit.Option{modkit.WithName("meta")}, opts...),
		deps: metahttp.Deps{ServiceName: service, StartedAt: time.Now(), Guard: guard},
	}
}

// MountRoutes mounts /healthz and /version; meta carries no prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.spec.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements modkit.Module
func (m *Module) Name() string { return str.MustString(m.spec.Name, "meta") }

// Ports implements modkit.Module; meta exports nothing
func (m *Module) Ports() any { return nil }
