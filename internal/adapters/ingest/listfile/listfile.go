// Package listfile reads the batch input: one "reference,category" pair per line
package listfile

import (
	"bufio"
	"io"
	"os"
	"strings"

	perr "tubeport/internal/platform/errors"
	"tubeport/internal/platform/validate"
)

// Entry is one accepted line
type Entry struct {
	Line     int    `json:"line"`
	Ref      string `json:"ref" validate:"notblank"`
	Category string `json:"category" validate:"max=64"`
}

// ParseError describes a rejected line
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e ParseError) Error() string { return e.Err.Error() }

// Read parses r. Blank lines and lines starting with # are ignored,
// fields past the second are ignored, everything else that fails is reported
// as a ParseError and skipped
func Read(r io.Reader) ([]Entry, []ParseError, error) {
	sc := bufio.NewScanner(r)
	var (
		entries []Entry
		bad     []ParseError
		n       int
	)
	for sc.Scan() {
		n++
		raw := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		e, err := parseLine(n, raw)
		if err != nil {
			bad = append(bad, ParseError{Line: n, Text: raw, Err: err})
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return entries, bad, perr.Wrap(err, perr.ErrorCodeUnknown, "read list")
	}
	return entries, bad, nil
}

// ReadFile opens path and parses it
func ReadFile(path string) ([]Entry, []ParseError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "open list %s", path)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

func parseLine(n int, raw string) (Entry, error) {
	parts := strings.Split(raw, ",")
	if len(parts) < 2 {
		return Entry{}, perr.Parsef("line %d: want reference,category", n)
	}
	e := Entry{
		Line:     n,
		Ref:      strings.TrimSpace(parts[0]),
		Category: strings.TrimSpace(parts[1]),
	}
	if err := validate.Struct(e); err != nil {
		field := ""
		if ve, ok := perr.As(err); ok {
			field = ve.Field()
		}
		return Entry{}, perr.WithField(perr.Parsef("line %d: %v", n, err), field)
	}
	return e, nil
}
