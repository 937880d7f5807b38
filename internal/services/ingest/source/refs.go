package source

import (
	"tubeport/internal/adapters/ingest/listfile"
	"tubeport/internal/adapters/ingest/ytdlp"
	"tubeport/internal/services/ingest/domain"
)

// Resolve turns list entries into source refs. Entries whose reference is not a
// recognizable video are returned as parse errors, in input order
func Resolve(entries []listfile.Entry) ([]domain.SourceRef, []listfile.ParseError) {
	refs := make([]domain.SourceRef, 0, len(entries))
	var bad []listfile.ParseError
	for _, e := range entries {
		id, err := ytdlp.VideoID(e.Ref)
		if err != nil {
			bad = append(bad, listfile.ParseError{Line: e.Line, Text: e.Ref, Err: err})
			continue
		}
		refs = append(refs, domain.SourceRef{Line: e.Line, Ref: e.Ref, VideoID: id, Category: e.Category})
	}
	return refs, bad
}
