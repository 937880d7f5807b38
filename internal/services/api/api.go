// Package api provides the read-only reporting API over the ingest ledger
package api

import (
	"context"

	"tubeport/internal/platform/config"
	"tubeport/internal/platform/logger"
	phttp "tubeport/internal/platform/net/http"
	"tubeport/internal/platform/store"

	"tubeport/internal/modkit"
	"tubeport/internal/modkit/httpkit"

	metamod "tubeport/internal/services/api/meta/module"
	runsmod "tubeport/internal/services/api/runs/module"
)

// ServiceName is reported by /healthz and /version
const ServiceName = "tubeport-api"

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger
}

// Mount mounts the API onto r. opt.Store must carry postgres
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
		RDS: opt.Store.RDS,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	r.Use(httpkit.CommonStack(httpkit.StackOptions{
		Origins: opt.Config.MayCSV("CORS_ORIGINS", nil),
		Slow:    opt.Config.MayDuration("SLOW_REQUEST", 0),
		Timeout: opt.Config.MayDuration("REQUEST_TIMEOUT", 0),
	})...)

	guard := func(ctx context.Context) error { return opt.Store.Guard(ctx) }
	meta := metamod.New(ServiceName, guard)
	mods := []modkit.Module{
		runsmod.New(deps),
	}

	meta.MountRoutes(r)

	httpkit.Version(r, "v1", func(api httpkit.Router) {
		for _, m := range mods {
			logger.Named("api").Debug().Str("module", m.Name()).Msg("mounted")
			m.MountRoutes(api)
		}
	})
}
