package pg

import (
	"context"
	"strings"

	"tubeport/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives statement events from the store adapters
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// maxSQLLog bounds the statement text written per event
const maxSQLLog = 2048

// Tracer returns a tracer that always prints statements, independent of the root level.
// Comment bodies travel as args, so args are only logged when withArgs is set
func Tracer(root logger.Logger, withArgs bool) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &zlTracer{log: ll, withArgs: withArgs}
}

type zlTracer struct {
	log      logger.Logger
	withArgs bool
}

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := z.log.Debug()
	if ev.Slow {
		evt = z.log.Warn()
	}
	if ev.Err != nil {
		evt = z.log.Error().Err(ev.Err)
	}
	evt = evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL))
	if z.withArgs {
		evt = evt.Interface("args", ev.Args)
	}
	evt.Msg("pg query")
}

// compact folds whitespace runs to one space and truncates long statements
func compact(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxSQLLog {
		return s[:maxSQLLog] + "..."
	}
	return s
}
