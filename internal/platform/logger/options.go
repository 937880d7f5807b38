package logger

import (
	"io"
	"os"
	"strconv"
	"strings"
)

// Options configures the root logger
type Options struct {
	Level        string
	Format       string // console or json
	Service      string
	Component    string
	Writer       io.Writer
	WithCaller   bool
	SampleEvery  int
	StaticFields map[string]string
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE, LOG_COMPONENT, LOG_CALLER
// and LOG_SAMPLE_EVERY. The config package logs through us, so this reads the
// environment directly
func FromEnv() Options {
	return Options{
		Level:       strings.ToLower(env("LEVEL", "info")),
		Format:      strings.ToLower(env("FORMAT", "console")),
		Service:     env("SERVICE", ""),
		Component:   env("COMPONENT", ""),
		WithCaller:  envBool("CALLER"),
		SampleEvery: envInt("SAMPLE_EVERY"),
	}
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv("LOG_" + key)); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	switch strings.ToLower(env(key, "")) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func envInt(key string) int {
	n, err := strconv.Atoi(env(key, "0"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
