package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"tubeport/internal/modkit/repokit"
	"tubeport/internal/platform/config"
	"tubeport/internal/platform/logger"
	phttp "tubeport/internal/platform/net/http"
	"tubeport/internal/platform/store"

	"tubeport/internal/services/api"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	fConfig := flag.String("config", os.Getenv("TUBEPORT_CONFIG"), "optional YAML config file")
	flag.Parse()

	logger.Init(logger.FromEnv())
	l := logger.Named("api")

	root, err := config.FromFile(*fConfig)
	if err != nil {
		l.Fatal().Err(err).Msg("config load failed")
	}
	apiCfg := root.Prefix("CORE_API_")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stCfg := store.ConfigFrom(root, "tubeport-api", "api")
	if !stCfg.PG.Enabled {
		l.Fatal().Msg("SERVICE_PGSQL_DBURL is required")
	}
	st, err := store.Open(ctx, stCfg, store.WithLogger(*logger.Get()))
	if err != nil {
		l.Fatal().Err(err).Msg("store open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	repokit.MustGuard(ctx, st)

	// reads CORE_API_ADDR
	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{Config: apiCfg, Store: st, Logger: l})

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
