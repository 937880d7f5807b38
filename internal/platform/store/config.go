package store

import (
	"time"

	"tubeport/internal/platform/config"
	"tubeport/internal/platform/store/pg"
)

// Config selects and tunes the backends Open starts
type Config struct {
	AppName string

	PG  PGConfig
	CH  CHConfig
	RDS RedisConfig
}

// PGConfig tunes the postgres pool
type PGConfig struct {
	Enabled  bool
	URL      string
	MaxConns int32
	LogSQL   bool
	LogArgs  bool // args can carry comment bodies
	Slow     time.Duration
	Ready    pg.Retry
}

// CHConfig tunes the clickhouse connection
type CHConfig struct {
	Enabled     bool
	URL         string
	Role        string // ingest or api, shown in system.query_log
	Tag         string
	DialTimeout time.Duration
}

// RedisConfig tunes the redis client. URL wins over Addr
type RedisConfig struct {
	Enabled  bool
	URL      string
	Addr     string
	Password string
	DB       int
}

// ConfigFrom reads SERVICE_PGSQL_*, SERVICE_CLICKHOUSE_* and SERVICE_REDIS_*.
// Each backend switches on when its DBURL (redis: URL or ADDR) is set; an
// explicit ENABLED overrides that
func ConfigFrom(root config.Conf, app, role string) Config {
	p := root.Prefix("SERVICE_PGSQL_")
	c := root.Prefix("SERVICE_CLICKHOUSE_")
	r := root.Prefix("SERVICE_REDIS_")

	cfg := Config{
		AppName: app,
		PG: PGConfig{
			URL:      p.MayString("DBURL", ""),
			MaxConns: int32(p.MayInt("MAX_CONNS", 4)),
			LogSQL:   p.MayBool("LOG_SQL", false),
			LogArgs:  p.MayBool("LOG_ARGS", false),
			Slow:     p.MayDuration("SLOW", 500*time.Millisecond),
			Ready: pg.Retry{
				Attempts: p.MayInt("CONNECT_RETRIES", 20),
				Timeout:  p.MayDuration("PING_TIMEOUT", 0),
			},
		},
		CH: CHConfig{
			URL:         c.MayString("DBURL", ""),
			Role:        role,
			Tag:         c.MayString("TAG", ""),
			DialTimeout: c.MayDuration("DIAL_TIMEOUT", 0),
		},
		RDS: RedisConfig{
			URL:      r.MayString("URL", ""),
			Addr:     r.MayString("ADDR", ""),
			Password: r.MayString("PASSWORD", ""),
			DB:       r.MayInt("DB", 0),
		},
	}
	cfg.PG.Enabled = p.MayBool("ENABLED", cfg.PG.URL != "")
	cfg.CH.Enabled = c.MayBool("ENABLED", cfg.CH.URL != "")
	cfg.RDS.Enabled = r.MayBool("ENABLED", cfg.RDS.URL != "" || cfg.RDS.Addr != "")
	return cfg
}
