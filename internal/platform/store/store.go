// Package store is the facade over the optional postgres, clickhouse and
// redis backends. Repos depend on the seams declared here, never on drivers
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tubeport/internal/platform/logger"
)

// Store holds whichever backends were enabled; the rest stay nil.
// The zero value is usable and empty
type Store struct {
	Log logger.Logger // zero value discards

	PG  TxRunner
	CH  Clickhouse
	RDS KV
}

// ErrNoRows is returned by Row.Scan when the query matched nothing
var ErrNoRows = errors.New("store: no rows")

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is a tiny seam for columnar writes and queries
type Clickhouse interface {
	// Insert appends rows in column order and sends them as one batch
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// KV is the hash shaped key value seam backed by redis
type KV interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSet(ctx context.Context, key string, values map[string]string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Close() error
}

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open starts the backends cfg enables, in pg, ch, redis order. On failure
// the ones already started are closed again
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	steps := []struct {
		on   bool
		open func() error
	}{
		{cfg.PG.Enabled, func() error {
			db, err := openPG(ctx, cfg, s)
			if err == nil {
				s.PG = db
			}
			return err
		}},
		{cfg.CH.Enabled, func() error {
			c, err := openCH(ctx, cfg)
			if err == nil {
				s.CH = c
			}
			return err
		}},
		{cfg.RDS.Enabled, func() error {
			kv, err := openRDS(ctx, cfg)
			if err == nil {
				s.RDS = kv
			}
			return err
		}},
	}
	for _, st := range steps {
		if !st.on {
			continue
		}
		if err := st.open(); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
	}
	return s, nil
}

// seams lists the configured backends by name, pg first
func (s *Store) seams() []namedSeam {
	var out []namedSeam
	if s.PG != nil {
		out = append(out, namedSeam{"pg", s.PG})
	}
	if s.CH != nil {
		out = append(out, namedSeam{"ch", s.CH})
	}
	if s.RDS != nil {
		out = append(out, namedSeam{"redis", s.RDS})
	}
	return out
}

type namedSeam struct {
	name string
	v    any
}

// Guard pings each configured backend that can report readiness
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil")
	}
	var errs []error
	for _, b := range s.seams() {
		if p, ok := b.v.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Close shuts the backends down in reverse open order
func (s *Store) Close(context.Context) error {
	var errs []error
	seams := s.seams()
	for i := len(seams) - 1; i >= 0; i-- {
		if c, ok := seams[i].v.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", seams[i].name, err))
			}
		}
	}
	return errors.Join(errs...)
}
