// Package module wires the ingest pipeline from config and the opened stores
package module

import (
	"context"

	"tubeport/internal/adapters/destination"
	"tubeport/internal/adapters/ingest/ytdlp"
	"tubeport/internal/modkit"
	"tubeport/internal/modkit/module"
	"tubeport/internal/modkit/repokit"
	identmod "tubeport/internal/services/ident/module"
	identrepo "tubeport/internal/services/ident/repo"
	"tubeport/internal/services/ingest/domain"
	"tubeport/internal/services/ingest/repo"
	"tubeport/internal/services/ingest/service"
	"tubeport/internal/services/ingest/source"
)

// Ports defines the ingest module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the ingest module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New builds the runner. Each store is used when both its option is on and deps carries it
func New(deps modkit.Deps) (*Module, error) {
	opts, err := FromConfig(deps.Cfg)
	if err != nil {
		return nil, err
	}

	yt := ytdlp.New(ytdlp.Options{
		Runner:   ytdlp.ExecRunner{Bin: opts.YTDLP.Bin},
		CacheDir: opts.YTDLP.CacheDir,
		Cookies:  opts.YTDLP.Cookies,
	})
	retry := source.DefaultRetry
	retry.Attempts = opts.YTDLP.Retries
	retry.Base = opts.YTDLP.RetryBase

	anon := module.MustPortsOf[identmod.Ports](identmod.New(deps)).Anonymizer

	p := service.Ports{
		Provider:   source.NewProvider(yt, retry, opts.YTDLP.KeepMedia),
		Anonymizer: anon,
		Housekeep: func(ctx context.Context) {
			n, err := yt.CleanCache(opts.YTDLP.CacheMaxAge)
			if err != nil {
				deps.Log.Warn().Err(err).Msg("cache cleanup failed")
				return
			}
			if n > 0 {
				deps.Log.Info().Int("removed", n).Msg("cache cleaned")
			}
		},
	}
	if !opts.Mode.DryRun() {
		dst := source.NewDestination(destination.NewClient(destination.Options{
			BackendURL:  opts.Dest.BackendURL,
			PublishURL:  opts.Dest.PublishURL,
			IdentityURL: opts.Dest.IdentityURL,
			APIKey:      opts.Dest.APIKey,
			Timeout:     opts.Dest.Timeout,
			MaxRetries:  opts.Dest.Retries,
			RateLimit:   opts.Dest.RateLimit,
		}))
		p.Auth, p.Assets, p.Publisher = dst, dst, dst
	}
	if opts.Ledger && deps.PG != nil {
		p.DB = repokit.WithBeginHooks(deps.PG, repokit.StatementTimeout(opts.Timeouts.DB))
		p.Ledger = repo.NewPG()
	}
	if opts.Analytics && deps.CH != nil {
		p.Sink = repo.NewSink(deps.CH)
	}
	if opts.PublishLedger && deps.RDS != nil {
		p.Published = repo.NewPublished(deps.RDS, opts.PublishedTTL)
	}

	svc := service.New(p, service.Config{
		Mode:            opts.Mode,
		MaxVideos:       opts.MaxVideos,
		MaxComments:     opts.MaxComments,
		EnforceDuration: opts.EnforceDuration,
		LiveChat:        opts.LiveChat,
		Timeouts:        opts.Timeouts,
	})

	return &Module{deps: deps, opts: opts, ports: Ports{Runner: svc}}, nil
}

// Migrate creates the tables of every wired store
func (m *Module) Migrate(ctx context.Context) error {
	if m.deps.PG != nil {
		if err := identrepo.EnsureSchema(ctx, m.deps.PG); err != nil {
			return err
		}
		if m.opts.Ledger {
			if err := repo.EnsureSchema(ctx, m.deps.PG); err != nil {
				return err
			}
		}
	}
	if m.deps.CH != nil && m.opts.Analytics {
		if err := repo.EnsureCHSchema(ctx, m.deps.CH); err != nil {
			return err
		}
	}
	return nil
}

// Options returns the resolved configuration
func (m *Module) Options() Options { return m.opts }

// Credential is the operator sign in from config
func (m *Module) Credential() domain.Credential {
	return domain.Credential{Email: m.opts.Dest.Email, Password: m.opts.Dest.Password}
}

// Name returns the module name
func (m *Module) Name() string { return "ingest" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
