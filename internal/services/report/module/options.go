package module

import (
	"time"

	"usagereport/internal/platform/config"
	"usagereport/internal/services/report/repo"
)

// Backends a report can read from
const (
	BackendPG = "pg"
	BackendCH = "ch"
)

// Options holds configuration options for the report service
type Options struct {
	Months   int
	Weeks    int
	MaxCount int
	Interval time.Duration
	Location *time.Location
	Backend  string
	Table    string
}

// FromConfig reads the report options from config with CORE_REPORT_ prefix
func FromConfig(cfg config.Conf) Options {
	rc := cfg.Prefix("CORE_REPORT_")
	return Options{
		Months:   rc.MayInt("MONTHS", 60),
		Weeks:    rc.MayInt("WEEKS", 0), // 0 -> 4 per month
		MaxCount: rc.MayInt("MAX_COUNT", 20),
		Interval: time.Duration(rc.MayInt("SAMPLE_SECONDS", 60)) * time.Second,
		Location: rc.MayLocation("TZ", time.Local),
		Backend:  rc.MayEnum("BACKEND", BackendPG, BackendPG, BackendCH),
		Table:    rc.MayString("TABLE", repo.DefaultTable),
	}
}
