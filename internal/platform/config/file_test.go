package config

import (
	"path/filepath"
	"testing"
	"time"

	kit "tubeport/internal/platform/testkit"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	return kit.WriteTemp(t, "tubeport.yaml", body)
}

func TestFromFile_FlattensNestedKeys(t *testing.T) {
	p := writeYAML(t, `
core:
  ingest:
    rate-limit: 750ms
    max_comments: 25
    dry_run: true
  dest:
    hosts: [a.example, b.example]
service:
  redis:
    addr: "localhost:6379"
`)
	c, err := FromFile(p)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	in := c.Prefix("CORE_INGEST_")
	if got := in.MayDuration("RATE_LIMIT", time.Second); got != 750*time.Millisecond {
		t.Fatalf("RATE_LIMIT = %v", got)
	}
	if got := in.MayInt("MAX_COMMENTS", 0); got != 25 {
		t.Fatalf("MAX_COMMENTS = %d", got)
	}
	if !in.MayBool("DRY_RUN", false) {
		t.Fatalf("DRY_RUN should be true")
	}
	hosts := c.Prefix("CORE_DEST_").MayCSV("HOSTS", nil)
	if len(hosts) != 2 || hosts[0] != "a.example" || hosts[1] != "b.example" {
		t.Fatalf("HOSTS = %v", hosts)
	}
	if got := c.Prefix("SERVICE_REDIS_").MustString("ADDR"); got != "localhost:6379" {
		t.Fatalf("ADDR = %q", got)
	}
}

func TestFromFile_EnvWinsOverFile(t *testing.T) {
	p := writeYAML(t, "core:\n  ingest:\n    max_videos: 3\n")
	c, err := FromFile(p)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	t.Setenv("CORE_INGEST_MAX_VIDEOS", "9")
	if got := c.Prefix("CORE_INGEST_").MayInt("MAX_VIDEOS", 1); got != 9 {
		t.Fatalf("env should win, got %d", got)
	}
}

func TestFromFile_MissingAndEmptyPath(t *testing.T) {
	for _, p := range []string{"", filepath.Join(t.TempDir(), "nope.yaml")} {
		c, err := FromFile(p)
		if err != nil {
			t.Fatalf("FromFile(%q) error: %v", p, err)
		}
		if got := c.MayString("ANYTHING_AT_ALL", "def"); got != "def" {
			t.Fatalf("expected default, got %q", got)
		}
	}
}

func TestFromFile_Malformed(t *testing.T) {
	p := writeYAML(t, "core: [unterminated\n")
	if _, err := FromFile(p); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFromFile_RequireSeesFileValues(t *testing.T) {
	p := writeYAML(t, "core:\n  dest:\n    api_key: k\n    email: e\n")
	c, err := FromFile(p)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	dest := c.Prefix("CORE_DEST_")
	kit.MustNotPanic(t, func() { dest.Require("API_KEY", "EMAIL") })
	kit.MustPanic(t, func() { dest.Require("PASSWORD") })
}
