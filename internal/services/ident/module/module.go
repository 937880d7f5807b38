// Package module wires the anonymizer for a run
package module

import (
	"tubeport/internal/modkit"
	"tubeport/internal/services/ident/domain"
	"tubeport/internal/services/ident/repo"
	"tubeport/internal/services/ident/service"
)

// Ports exposes the anonymizer to other modules
type Ports struct {
	Anonymizer domain.AnonymizerPort
}

// Module owns one run's anonymizer
type Module struct {
	ports Ports
}

// New builds the anonymizer from deps.Cfg. Persistence is used when enabled and PG is wired
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)
	anon := service.New(service.Config{
		AvatarBase:  opts.AvatarBase,
		AvatarQuery: opts.AvatarQuery,
		MaxSuffix:   opts.MaxSuffix,
		Seed:        opts.Seed,
	})
	if opts.Persist && deps.PG != nil {
		anon = anon.WithStore(deps.PG, repo.NewPG())
	}
	return &Module{ports: Ports{Anonymizer: anon}}
}

// Name returns the module name
func (m *Module) Name() string { return "ident" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
