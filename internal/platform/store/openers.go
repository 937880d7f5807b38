package store

import (
	"context"

	chx "tubeport/internal/platform/store/ch"
	"tubeport/internal/platform/store/pg"
	"tubeport/internal/platform/store/rds"
)

// openPG starts the pool and blocks until postgres answers a ping
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	pc := pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
		Slow:     cfg.PG.Slow,
	}
	if cfg.PG.LogSQL {
		pc.Tracer = pg.Tracer(s.Log, cfg.PG.LogArgs)
	}
	p, err := pg.Open(ctx, pc)
	if err != nil {
		return nil, err
	}
	err = p.WaitReady(ctx, cfg.PG.Ready, func(n int, err error) {
		s.Log.Warn().Err(err).Int("attempt", n).Msg("postgres not ready")
	})
	if err != nil {
		p.Close()
		return nil, err
	}
	return newPGAdapter(p), nil
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:         cfg.CH.URL,
		Role:        cfg.CH.Role,
		Tag:         cfg.CH.Tag,
		DialTimeout: cfg.CH.DialTimeout,
	})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

func openRDS(ctx context.Context, cfg Config) (KV, error) {
	return rds.Open(ctx, rds.Config{
		URL:      cfg.RDS.URL,
		Addr:     cfg.RDS.Addr,
		Password: cfg.RDS.Password,
		DB:       cfg.RDS.DB,
	})
}
