// Package timeref finds in-video timestamp references such as "at 1:30" or "1:02:03" in comment text
package timeref

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Ref is one accepted reference
type Ref struct {
	Offset time.Duration
	Match  string // the clock text as written, e.g. "1:30"
}

// Seconds returns the offset in whole seconds
func (r Ref) Seconds() int { return int(r.Offset / time.Second) }

const clock = `(\d{1,2}):(\d{2})(?::(\d{2}))?`

// patterns in priority order; the first plausible hit wins
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:\bat\b|@)\s*` + clock),
	regexp.MustCompile(`(?i)` + clock + `\s+(?:is|was|at)\b`),
	regexp.MustCompile(`^\s*` + clock + `\s*$`),
	regexp.MustCompile(clock),
}

// strip removes a marker word along with the clock it introduces
var strip = regexp.MustCompile(`(?i)(?:(?:\bat\b|@)\s*)?` + clock)

// Parse returns the first plausible timestamp in text.
// When bound > 0 references past it are rejected; bound <= 0 means the duration is unknown
func Parse(text string, bound time.Duration) (Ref, bool) {
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			if ref, ok := plausible(text, m, bound); ok {
				return ref, true
			}
		}
	}
	return Ref{}, false
}

// plausible validates one match; m holds submatch indices for the three clock groups
func plausible(text string, m []int, bound time.Duration) (Ref, bool) {
	start, end := m[2], m[5]
	if m[6] >= 0 {
		end = m[7]
	}
	// "123:45" and "1:234" are not clocks
	if (start > 0 && isDigit(text[start-1])) || (end < len(text) && isDigit(text[end])) {
		return Ref{}, false
	}
	a := atoi(text[m[2]:m[3]])
	b := atoi(text[m[4]:m[5]])
	var secs int
	if m[6] >= 0 {
		c := atoi(text[m[6]:m[7]])
		if b >= 60 || c >= 60 {
			return Ref{}, false
		}
		secs = a*3600 + b*60 + c
	} else {
		if b >= 60 {
			return Ref{}, false
		}
		secs = a*60 + b
	}
	off := time.Duration(secs) * time.Second
	if bound > 0 && off > bound {
		return Ref{}, false
	}
	return Ref{Offset: off, Match: text[start:end]}, true
}

// Strip removes every clock reference, and any "at"/"@" marker before it, then collapses whitespace.
// If nothing would remain the trimmed original is returned
func Strip(text string) string {
	out := strings.Join(strings.Fields(strip.ReplaceAllString(text, " ")), " ")
	if out == "" {
		return strings.TrimSpace(text)
	}
	return out
}

// Format renders secs as m:ss or h:mm:ss
func Format(secs int) string {
	if secs < 0 {
		secs = 0
	}
	h, m, s := secs/3600, secs/60%60, secs%60
	if h > 0 {
		return strconv.Itoa(h) + ":" + pad(m) + ":" + pad(s)
	}
	return strconv.Itoa(m) + ":" + pad(s)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
