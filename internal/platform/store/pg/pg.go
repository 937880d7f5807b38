// Package pg opens the postgres pool the store facade runs statements on
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config describes one pool
type Config struct {
	URL      string
	AppName  string // sent as application_name
	MaxConns int32

	// Slow marks statements at or over this duration in trace events; zero disables
	Slow   time.Duration
	Tracer QueryTracer

	// Configure, when set, sees the parsed pool config last
	Configure func(*pgxpool.Config)
}

// PG is an open pool plus its trace settings
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	Slow   time.Duration
}

// Retry bounds WaitReady
type Retry struct {
	Attempts int           // default 20
	Timeout  time.Duration // per ping, default 3s
	Backoff  time.Duration // first pause, doubled up to 2s; default 150ms
}

var (
	newPool = pgxpool.NewWithConfig
	sleep   = time.Sleep
)

// Open parses cfg.URL and starts the pool. Connections are made lazily, see WaitReady
func Open(ctx context.Context, cfg Config) (*PG, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg: parse url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		if pc.ConnConfig.RuntimeParams == nil {
			pc.ConnConfig.RuntimeParams = make(map[string]string, 1)
		}
		pc.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if cfg.Configure != nil {
		cfg.Configure(pc)
	}
	pool, err := newPool(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("pg: new pool: %w", err)
	}
	return &PG{Pool: pool, Tracer: cfg.Tracer, Slow: cfg.Slow}, nil
}

// WaitReady pings until the server answers, ctx ends or the attempts run out.
// onRetry, if set, sees every failed attempt
func (p *PG) WaitReady(ctx context.Context, r Retry, onRetry func(attempt int, err error)) error {
	return waitReady(ctx, p.Pool.Ping, r, onRetry)
}

func waitReady(ctx context.Context, ping func(context.Context) error, r Retry, onRetry func(int, error)) error {
	if r.Attempts <= 0 {
		r.Attempts = 20
	}
	if r.Timeout <= 0 {
		r.Timeout = 3 * time.Second
	}
	if r.Backoff <= 0 {
		r.Backoff = 150 * time.Millisecond
	}

	var err error
	for i := 1; i <= r.Attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, r.Timeout)
		err = ping(pctx)
		cancel()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if onRetry != nil {
			onRetry(i, err)
		}
		if i < r.Attempts {
			sleep(r.Backoff)
			r.Backoff = min(2*r.Backoff, 2*time.Second)
		}
	}
	return fmt.Errorf("pg: not ready after %d attempts: %w", r.Attempts, err)
}

// Close releases the pool; safe on nil
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
