package domain

import (
	"strings"
	"testing"
)

func TestKeyOf(t *testing.T) {
	a, b := KeyOf("UCabc"), KeyOf("UCabd")
	if a == b {
		t.Fatalf("distinct tokens share a key")
	}
	if KeyOf("UCabc") != a {
		t.Fatalf("KeyOf is not stable")
	}
	if h := a.Hex(); len(h) != 64 || strings.Contains(h, "UCabc") {
		t.Fatalf("hex = %q", h)
	}
	if len(a.Bytes()) != 32 {
		t.Fatalf("bytes len = %d", len(a.Bytes()))
	}
}

func TestAuthor_Key(t *testing.T) {
	if k := (Author{Token: "UC1", Name: "Ann"}).Key(); k != "UC1" {
		t.Fatalf("Key = %q", k)
	}
	if k := (Author{Name: "Ann"}).Key(); k != "Ann" {
		t.Fatalf("Key without token = %q", k)
	}
	if !(Identity{}).IsZero() || (Identity{UserID: "u"}).IsZero() {
		t.Fatalf("IsZero wrong")
	}
}
