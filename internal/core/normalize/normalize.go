// Package normalize cleans free text pulled from video metadata before it is republished.
//
//  1. Sanitize: drop invalid UTF-8, NUL, C0 (except \t \n \r), DEL and C1 controls
//  2. NFC composition
//  3. Strip format characters (ZWSP, ZWJ, BOM, bidi overrides)
//  4. Width fold fullwidth and halfwidth forms
//  5. Collapse whitespace and trim
//
// Case is preserved; Key adds case folding for comparisons
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// chains are stateful, so each call borrows one
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

var foldPool = sync.Pool{
	New: func() any { return cases.Fold() },
}

func apply(pool *sync.Pool, s string) string {
	tr := pool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	pool.Put(tr)
	if err != nil {
		return s
	}
	return out
}

func clean(s string) string {
	if s == "" {
		return ""
	}
	return apply(&chainPool, Sanitize(s))
}

// Line normalizes single line text such as titles and keywords.
// Every whitespace run, line breaks included, becomes one space
func Line(s string) string {
	return strings.Join(strings.Fields(clean(s)), " ")
}

// Text normalizes multi line text such as descriptions.
// Whitespace runs collapse to one space, or one newline when the run had a line break
func Text(s string) string {
	return collapseSpaces(clean(s))
}

// Key returns the case folded Line form, for equality checks only
func Key(s string) string {
	l := Line(s)
	if l == "" {
		return ""
	}
	return apply(&foldPool, l)
}

// collapseSpaces folds whitespace runs and trims the edges
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWS, sawNL := false, false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			sawNL = sawNL || r == '\n' || r == '\r'
			continue
		}
		if inWS && b.Len() > 0 {
			if sawNL {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		inWS, sawNL = false, false
		b.WriteRune(r)
	}
	return b.String()
}
