package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize drops bytes that must never reach storage or the destination:
// invalid UTF-8, NUL and other C0 controls except tab and line breaks, DEL and C1 controls.
// Clean input is returned as is
func Sanitize(s string) string {
	if !dirty(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if keep(r, size) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

func dirty(s string) bool {
	for i := 0; i < len(s); {
		if s[i] >= 0x20 && s[i] < 0x7F {
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if !keep(r, size) {
			return true
		}
		i += size
	}
	return false
}

func keep(r rune, size int) bool {
	switch {
	case r == utf8.RuneError && size == 1:
		return false
	case r == '\n' || r == '\r' || r == '\t':
		return true
	case r < 0x20, r == 0x7F:
		return false
	case r >= 0x80 && r <= 0x9F:
		return false
	}
	return true
}
