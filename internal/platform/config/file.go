package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile returns a root Conf backed by env and the YAML document at path.
// Nested keys flatten to env style names, so
//
//	core:
//	  ingest:
//	    rate_limit: 500ms
//
// answers CORE_INGEST_RATE_LIMIT. Sequences of scalars join with ",".
// An empty path or a missing file yields an env only Conf
func FromFile(path string) (Conf, error) {
	if strings.TrimSpace(path) == "" {
		return New(), nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return Conf{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	vals, err := parseYAML(b)
	if err != nil {
		return Conf{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return Conf{file: vals}, nil
}

// parseYAML flattens a YAML mapping document into env style keys
func parseYAML(b []byte) (map[string]string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	out := make(map[string]string)
	flatten("", doc, out)
	return out, nil
}

func flatten(prefix string, v any, out map[string]string) {
	switch x := v.(type) {
	case map[string]any:
		for k, vv := range x {
			flatten(joinKey(prefix, k), vv, out)
		}
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := scalar(item); ok {
				parts = append(parts, s)
			}
		}
		out[prefix] = strings.Join(parts, ",")
	default:
		if s, ok := scalar(x); ok && prefix != "" {
			out[prefix] = s
		}
	}
}

func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case map[string]any, []any:
		return "", false
	default:
		return fmt.Sprint(x), true
	}
}

// joinKey upper-cases k and maps anything that is not a letter or digit to '_'
func joinKey(prefix, k string) string {
	var b strings.Builder
	b.Grow(len(prefix) + len(k) + 1)
	if prefix != "" {
		b.WriteString(prefix)
		b.WriteByte('_')
	}
	for _, r := range strings.ToUpper(strings.TrimSpace(k)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}
