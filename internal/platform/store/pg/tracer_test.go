package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestCompact(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"select 1", "select 1"},
		{"  select   1  ", "select 1"},
		{"SELECT\t*\nFROM\r\truns WHERE  id =  $1", "SELECT * FROM runs WHERE id = $1"},
		{"", ""},
	}
	for i, c := range cases {
		if got := compact(c.in); got != c.want {
			t.Fatalf("case %d: compact(%q) = %q, want %q", i, c.in, got, c.want)
		}
	}
}

func TestCompact_Truncates(t *testing.T) {
	got := compact(strings.Repeat("x", maxSQLLog+10))
	if len(got) != maxSQLLog+3 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected truncation, len=%d", len(got))
	}
}

type logLine struct {
	Level     string  `json:"level"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Slow      bool    `json:"slow"`
	SQL       string  `json:"sql"`
	Args      any     `json:"args"`
	Error     string  `json:"error"`
	Message   string  `json:"message"`
	Component string  `json:"component"`
}

func emit(t *testing.T, withArgs bool, ev QueryEvent) logLine {
	t.Helper()
	var buf bytes.Buffer
	Tracer(zerolog.New(&buf), withArgs).OnQuery(context.Background(), ev)
	var line logLine
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("unmarshal: %v raw=%s", err, buf.String())
	}
	return line
}

func TestTracer_Levels(t *testing.T) {
	base := QueryEvent{SQL: "SELECT  1", Args: []any{"secret body"}, ElapsedUS: 2500}

	cases := []struct {
		name  string
		slow  bool
		err   error
		level string
	}{
		{"fast", false, nil, "debug"},
		{"slow", true, nil, "warn"},
		{"failed", false, errors.New("boom"), "error"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ev := base
			ev.Slow, ev.Err = c.slow, c.err
			line := emit(t, false, ev)
			if line.Level != c.level {
				t.Fatalf("level = %q, want %q", line.Level, c.level)
			}
			if line.SQL != "SELECT 1" || line.Component != "pg" || line.Message != "pg query" {
				t.Fatalf("unexpected line: %+v", line)
			}
			if line.ElapsedMS != 2.5 {
				t.Fatalf("elapsed_ms = %v", line.ElapsedMS)
			}
			if line.Args != nil {
				t.Fatalf("args should be withheld, got %v", line.Args)
			}
		})
	}
}

func TestTracer_WithArgs(t *testing.T) {
	line := emit(t, true, QueryEvent{SQL: "SELECT $1", Args: []any{1, "two"}})
	arr, ok := line.Args.([]any)
	if !ok || len(arr) != 2 || arr[1] != "two" {
		t.Fatalf("args = %#v", line.Args)
	}
}
