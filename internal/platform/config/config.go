// Package config reads typed settings from prefixed environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"usagereport/internal/platform/logger"
)

// Conf is a prefixed view over the environment, e.g. New().Prefix("CORE_REPORT_")
type Conf struct{ prefix string }

// New returns the unprefixed view
func New() Conf { return Conf{} }

// Prefix nests p under the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

// lookup returns the trimmed value and the full key name
func (c Conf) lookup(key string) (string, string) {
	k := c.key(key)
	return strings.TrimSpace(os.Getenv(k)), k
}

// invalid logs a rejected value and hands back def
func invalid[T any](k, v string, def T) T {
	logger.Get().Warn().Str("key", k).Str("value", v).Interface("default", def).Msg("invalid config value; using default")
	return def
}

// MustString panics through the logger when key is unset or blank
func (c Conf) MustString(key string) string {
	v, k := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", k).Msg("missing required env")
	}
	return v
}

// MayString returns the value or def
func (c Conf) MayString(key, def string) string {
	if v, _ := c.lookup(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def; unparsable values are logged
func (c Conf) MayInt(key string, def int) int {
	v, k := c.lookup(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return invalid(k, v, def)
	}
	return n
}

// MayBool accepts strconv forms plus yes/no and on/off
func (c Conf) MayBool(key string, def bool) bool {
	v, k := c.lookup(key)
	switch strings.ToLower(v) {
	case "":
		return def
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return invalid(k, v, def)
	}
	return b
}

// MayDuration parses a Go duration such as 90s or 5m
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	v, k := c.lookup(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return invalid(k, v, def)
	}
	return d
}

// MayCSV splits a comma list and drops blank items; def when nothing remains
func (c Conf) MayCSV(key string, def []string) []string {
	v, _ := c.lookup(key)
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the allowed spelling matching the value case insensitively
// def is used when unset; any other value panics through the logger
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v, k := c.lookup(key)
	if v == "" {
		return def
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a
		}
	}
	logger.Get().Panic().Str("key", k).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}

// MayLocation loads an IANA zone; "Local" is the process zone
// unknown zones are logged and fall back to def
func (c Conf) MayLocation(key string, def *time.Location) *time.Location {
	v, k := c.lookup(key)
	switch {
	case v == "":
		return def
	case strings.EqualFold(v, "local"):
		return time.Local
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		return invalid(k, v, def)
	}
	return loc
}
