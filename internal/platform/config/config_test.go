package config

import (
	"slices"
	"testing"
	"time"

	kit "tubeport/internal/platform/testkit"
)

func TestPrefix_Nests(t *testing.T) {
	c := New().Prefix("CORE_").Prefix("INGEST_")
	if got := c.name("LIST"); got != "CORE_INGEST_LIST" {
		t.Fatalf("name = %q", got)
	}
	t.Setenv("CORE_INGEST_LIST", " videos.txt ")
	if got := c.MustString("LIST"); got != "videos.txt" {
		t.Fatalf("MustString = %q", got)
	}
}

func TestMust_PanicsOnMissingOrMalformed(t *testing.T) {
	t.Setenv("T_INT", "x")
	t.Setenv("T_BOOL", "perhaps")
	t.Setenv("T_DUR", "soon")
	t.Setenv("T_BLANK", "   ")
	c := New().Prefix("T_")

	for name, fn := range map[string]func(){
		"string missing":   func() { c.MustString("NOPE") },
		"string blank":     func() { c.MustString("BLANK") },
		"int missing":      func() { c.MustInt("NOPE") },
		"int malformed":    func() { c.MustInt("INT") },
		"bool malformed":   func() { c.MustBool("BOOL") },
		"duration invalid": func() { c.MustDuration("DUR") },
		"require":          func() { c.Require("BLANK") },
	} {
		t.Run(name, func(t *testing.T) { kit.MustPanic(t, fn) })
	}
}

func TestMust_Parses(t *testing.T) {
	t.Setenv("T_WORKERS", " 8 ")
	t.Setenv("T_ON", "true")
	t.Setenv("T_WAIT", "250ms")
	c := New().Prefix("T_")

	if got := c.MustInt("WORKERS"); got != 8 {
		t.Fatalf("MustInt = %d", got)
	}
	if !c.MustBool("ON") {
		t.Fatalf("MustBool = false")
	}
	if got := c.MustDuration("WAIT"); got != 250*time.Millisecond {
		t.Fatalf("MustDuration = %v", got)
	}
	kit.MustNotPanic(t, func() { c.Require("WORKERS", "ON", "WAIT") })
}

func TestMay_DefaultsAndFallbacks(t *testing.T) {
	t.Setenv("M_INT", "12")
	t.Setenv("M_BAD_INT", "twelve")
	t.Setenv("M_BOOL", "1")
	t.Setenv("M_BAD_BOOL", "yes please")
	t.Setenv("M_DUR", "2s")
	t.Setenv("M_BAD_DUR", "2 seconds")
	c := New().Prefix("M_")

	ints := []struct {
		key  string
		def  int
		want int
	}{
		{"INT", 1, 12},
		{"BAD_INT", 3, 3},
		{"UNSET", 7, 7},
	}
	for _, tc := range ints {
		if got := c.MayInt(tc.key, tc.def); got != tc.want {
			t.Fatalf("MayInt(%s) = %d, want %d", tc.key, got, tc.want)
		}
	}

	if !c.MayBool("BOOL", false) || c.MayBool("BAD_BOOL", false) || !c.MayBool("UNSET", true) {
		t.Fatalf("MayBool fallbacks wrong")
	}
	if c.MayDuration("DUR", 0) != 2*time.Second || c.MayDuration("BAD_DUR", time.Minute) != time.Minute {
		t.Fatalf("MayDuration fallbacks wrong")
	}
	if got := c.MayString("UNSET", "def"); got != "def" {
		t.Fatalf("MayString = %q", got)
	}
}

func TestMayCSV(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"a, b ,,c", []string{"a", "b", "c"}},
		{" , ,", []string{"fallback"}},
		{"", []string{"fallback"}},
		{"solo", []string{"solo"}},
	}
	for _, tc := range cases {
		t.Setenv("C_LIST", tc.raw)
		got := New().Prefix("C_").MayCSV("LIST", []string{"fallback"})
		if !slices.Equal(got, tc.want) {
			t.Fatalf("MayCSV(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
