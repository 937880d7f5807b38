// Package transform holds the pure steps of the ingest pipeline: video normalization and comment threading
package transform

import (
	"tubeport/internal/core/normalize"
	perr "tubeport/internal/platform/errors"
	"tubeport/internal/services/ingest/domain"
)

// NormalizeVideo cleans title, description and keywords and settles the category.
// override wins over the source category; with neither the video is Uncategorized
func NormalizeVideo(raw domain.RawVideo, override string) (domain.NormalizedVideo, error) {
	title := normalize.Line(raw.Title)
	if title == "" {
		return domain.NormalizedVideo{}, perr.WithField(perr.Validationf("video %s has no title", raw.ID), "title")
	}
	cat := normalize.Line(override)
	if cat == "" {
		cat = normalize.Line(raw.Category)
	}
	if cat == "" {
		cat = domain.Uncategorized
	}
	return domain.NormalizedVideo{
		ID:          raw.ID,
		Title:       title,
		Description: normalize.Text(raw.Description),
		Keywords:    Keywords(raw.Keywords),
		Category:    cat,
		Duration:    raw.Duration,
	}, nil
}

// Keywords normalizes each keyword and drops blanks and case-insensitive repeats, keeping first-seen order
func Keywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, k := range in {
		line := normalize.Line(k)
		if line == "" {
			continue
		}
		key := normalize.Key(line)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, line)
	}
	return out
}
