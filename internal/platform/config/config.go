// Package config reads settings from the environment with an optional YAML
// file layer underneath. Precedence is env, then file, then the caller's default
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"tubeport/internal/platform/logger"
)

// Conf is a namespaced settings view. New gives the root view, Prefix scopes it
// (cfg.Prefix("CORE_INGEST_")). A Conf from FromFile also sees the YAML values
type Conf struct {
	prefix string
	file   map[string]string
}

// New creates a root Conf backed by env only
func New() Conf { return Conf{} }

// Prefix scopes c under p, keeping the file layer
func (c Conf) Prefix(p string) Conf {
	c.prefix += p
	return c
}

func (c Conf) name(key string) string { return c.prefix + key }

// lookup returns the trimmed value for key from env, falling back to the file layer
func (c Conf) lookup(key string) string {
	k := c.name(key)
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(c.file[k])
}

// must returns the parsed value of key and panics when it is unset or malformed
func must[T any](c Conf, key, kind string, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		logger.Get().Panic().Str("key", c.name(key)).Msg("missing required setting")
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Panic().Err(err).Str("key", c.name(key)).Str("value", s).Msgf("invalid %s value", kind)
	}
	return v
}

// may returns the parsed value of key, or def when it is unset. A malformed
// value logs a warning and also yields def
func may[T any](c Conf, key, kind string, def T, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.name(key)).Str("value", s).Interface("default", def).Msgf("invalid %s; using default", kind)
		return def
	}
	return v
}

func asString(s string) (string, error) { return s, nil }

// MustString panics if key is unset
func (c Conf) MustString(key string) string { return must(c, key, "string", asString) }

// MustInt panics if key is unset or not an integer
func (c Conf) MustInt(key string) int { return must(c, key, "int", strconv.Atoi) }

// MustBool panics if key is unset or not a bool
func (c Conf) MustBool(key string) bool { return must(c, key, "bool", strconv.ParseBool) }

// MustDuration panics if key is unset or not a Go duration (250ms, 2s, 1h)
func (c Conf) MustDuration(key string) time.Duration {
	return must(c, key, "duration", time.ParseDuration)
}

// Require panics on the first key that is unset
func (c Conf) Require(keys ...string) {
	for _, k := range keys {
		if c.lookup(k) == "" {
			logger.Get().Panic().Str("key", c.name(k)).Msg("missing required setting")
		}
	}
}

// MayString returns the value of key or def
func (c Conf) MayString(key, def string) string { return may(c, key, "string", def, asString) }

// MayInt returns the value of key or def
func (c Conf) MayInt(key string, def int) int { return may(c, key, "int", def, strconv.Atoi) }

// MayBool returns the value of key or def
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, "bool", def, strconv.ParseBool) }

// MayDuration returns the value of key or def
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, "duration", def, time.ParseDuration)
}

// MayCSV splits a comma separated value, dropping blanks. def when nothing remains
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
