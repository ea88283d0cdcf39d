// Package modkit wires services into api modules
package modkit

import (
	"usagereport/internal/modkit/repokit"
	"usagereport/internal/platform/config"
	"usagereport/internal/platform/logger"
	"usagereport/internal/platform/store"
)

// Deps are the shared handles every module is built from
// PG and CH are nil when the backend is disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}
