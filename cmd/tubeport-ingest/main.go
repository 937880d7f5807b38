package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"tubeport/internal/adapters/ingest/listfile"
	"tubeport/internal/modkit"
	"tubeport/internal/modkit/module"
	"tubeport/internal/platform/config"
	"tubeport/internal/platform/logger"
	"tubeport/internal/platform/store"

	"tubeport/internal/services/ingest/domain"
	ingestmod "tubeport/internal/services/ingest/module"
	"tubeport/internal/services/ingest/source"

	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	// .env never overrides variables already set
	_ = godotenv.Load()

	fs := flag.NewFlagSet("tubeport-ingest", flag.ContinueOnError)
	var (
		fConfig  = fs.String("config", os.Getenv("TUBEPORT_CONFIG"), "optional YAML config file")
		fList    = fs.String("list", "", "input list file, one ref,category pair per line (default CORE_INGEST_LIST)")
		fMigrate = fs.Bool("migrate", true, "create ledger tables before the run")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger.Init(logger.FromEnv())
	l := logger.Named("ingest")

	root, err := config.FromFile(*fConfig)
	if err != nil {
		l.Error().Err(err).Msg("config load failed")
		return 2
	}
	listPath := *fList
	if listPath == "" {
		listPath = root.Prefix("CORE_INGEST_").MayString("LIST", "")
	}
	if listPath == "" && fs.NArg() > 0 {
		listPath = fs.Arg(0)
	}
	if listPath == "" {
		l.Error().Msg("no input list: pass -list or set CORE_INGEST_LIST")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	entries, parseErrs, err := listfile.ReadFile(listPath)
	if err != nil {
		l.Error().Err(err).Str("list", listPath).Msg("read input list failed")
		return 2
	}
	refs, refErrs := source.Resolve(entries)
	for _, pe := range append(parseErrs, refErrs...) {
		l.Warn().Int("line", pe.Line).Err(pe.Err).Msg("skipping malformed list line")
	}

	st, err := store.Open(ctx, store.ConfigFrom(root, "tubeport", "ingest"), store.WithLogger(*logger.Get()))
	if err != nil {
		l.Error().Err(err).Msg("store open failed")
		return 1
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{Log: *l, Cfg: root, PG: st.PG, CH: st.CH, RDS: st.RDS}
	mod, err := ingestmod.New(deps)
	if err != nil {
		l.Error().Err(err).Msg("ingest setup failed")
		return 2
	}
	if *fMigrate {
		if err := mod.Migrate(ctx); err != nil {
			l.Error().Err(err).Msg("migrate failed")
			return 1
		}
	}

	runner := module.MustPortsOf[ingestmod.Ports](mod).Runner
	l.Info().
		Str("mode", mod.Options().Mode.String()).
		Int("entries", len(refs)).
		Int("parse_failures", len(parseErrs)+len(refErrs)).
		Msg("starting batch")

	sum, runErr := runner.Run(ctx, domain.RunInput{
		Entries:       refs,
		ParseFailures: len(parseErrs) + len(refErrs),
		Credential:    mod.Credential(),
	})
	if err := printSummary(stdout, sum); err != nil {
		l.Error().Err(err).Msg("print summary failed")
	}
	if runErr != nil {
		l.Error().Err(runErr).Msg("batch aborted")
		return 1
	}
	if sum.Failed() {
		return 1
	}
	return 0
}

func printSummary(w io.Writer, sum domain.BatchSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sum); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}
