package modkit

import (
	"tubeport/internal/modkit/repokit"
	"tubeport/internal/platform/config"
	"tubeport/internal/platform/logger"
	"tubeport/internal/platform/store"
)

// Deps are the process wide dependencies handed to every module.
// Stores that were not configured stay nil; modules check before use
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
	RDS store.KV
}
