package validate

import (
	"strings"
	"testing"

	perr "tubeport/internal/platform/errors"
)

type entry struct {
	Ref      string `json:"ref" validate:"notblank"`
	Category string `json:"category" validate:"required,max=8"`
	Limit    int    `json:"limit" validate:"min=0,max=200"`
}

func TestStruct(t *testing.T) {
	cases := []struct {
		name      string
		in        entry
		wantField string
		wantMsg   string
	}{
		{"ok", entry{Ref: "abc", Category: "music", Limit: 5}, "", ""},
		{"blank ref", entry{Ref: "   ", Category: "music"}, "ref", "ref must not be blank"},
		{"missing category", entry{Ref: "abc"}, "category", "category"},
		{"long category", entry{Ref: "abc", Category: "documentary"}, "category", "category must be at most 8"},
		{"limit too high", entry{Ref: "abc", Category: "x", Limit: 500}, "limit", "limit must be at most 200"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Struct(c.in)
			if c.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			e, ok := perr.As(err)
			if !ok || e.Code() != perr.ErrorCodeValidation {
				t.Fatalf("want validation error, got %v", err)
			}
			if e.Field() != c.wantField {
				t.Fatalf("field = %q, want %q", e.Field(), c.wantField)
			}
			if !strings.Contains(err.Error(), c.wantMsg) {
				t.Fatalf("message %q does not contain %q", err.Error(), c.wantMsg)
			}
		})
	}
}

func TestStruct_NonStruct(t *testing.T) {
	err := Struct(42)
	if err == nil || perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("non-struct input should be an internal error, got %v", err)
	}
}

func TestFieldAndMessage_Nil(t *testing.T) {
	if f, m := FieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("expected empty, got %q %q", f, m)
	}
}
