// Package module wires the runs read API into the router
package module

import (
	modkit "tubeport/internal/modkit"
	"tubeport/internal/modkit/httpkit"
	str "tubeport/internal/platform/strings"
	runshttp "tubeport/internal/services/api/runs/http"
	runsrepo "tubeport/internal/services/api/runs/repo"
	runssvc "tubeport/internal/services/api/runs/service"
)

// Ports exposes the runs service to other modules
type Ports struct {
	Runs runssvc.Service
}

// Module implements modkit.Module
type Module struct {
	spec modkit.Spec
	svc  runssvc.Service
}

// New constructs the runs module; deps.PG is required
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	return &Module{
		spec: modkit.Build([]modkit.Option{modkit.WithName("runs"), modkit.WithPrefix("/runs")}, opts...),
		svc:  runssvc.New(deps.PG, runsrepo.NewPG()),
	}
}

// MountRoutes mounts GET /runs and GET /runs/{id}
func (m *Module) MountRoutes(r httpkit.Router) {
	m.spec.Mount(r, func(rr httpkit.Router) { runshttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.spec.Name, "module name") }

// Ports returns the runs service bundle
func (m *Module) Ports() any { return Ports{Runs: m.svc} }
