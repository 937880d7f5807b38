package transform

import (
	"cmp"
	"slices"
	"time"

	"tubeport/internal/core/normalize"
	"tubeport/internal/core/timeref"
	"tubeport/internal/services/ingest/domain"
)

// ThreadOptions tunes timestamp acceptance
type ThreadOptions struct {
	// Bound rejects references past it; zero accepts any valid clock
	Bound time.Duration
}

type node struct {
	c    domain.ThreadedComment
	kids []*node
}

// BuildThreads keeps the comments that carry a plausible in-video timestamp and threads them.
// A retained reply whose parent was dropped, missing, or appears later is promoted to top level.
// Siblings and roots keep publish order
func BuildThreads(raw []domain.RawComment, opt ThreadOptions) ([]domain.ThreadedComment, domain.ThreadStats) {
	ordered := slices.Clone(raw)
	slices.SortStableFunc(ordered, func(a, b domain.RawComment) int { return cmp.Compare(a.Order, b.Order) })

	st := domain.ThreadStats{Total: len(raw)}
	byID := make(map[string]*node, len(ordered))
	var roots []*node

	for _, rc := range ordered {
		ref, ok := timeref.Parse(rc.Text, opt.Bound)
		if !ok {
			st.WithoutTimestamp++
			continue
		}
		st.WithTimestamp++

		n := &node{c: domain.ThreadedComment{
			SourceID: rc.ID,
			Text:     normalize.Text(timeref.Strip(rc.Text)),
			Offset:   ref.Offset,
			Order:    rc.Order,
			From:     rc.Author,
		}}

		parent := byID[rc.ParentID]
		switch {
		case rc.ParentID == "":
			roots = append(roots, n)
		case parent == nil:
			n.c.Promoted = true
			st.Promoted++
			roots = append(roots, n)
		default:
			n.c.ParentID = parent.c.SourceID
			n.c.Depth = parent.c.Depth + 1
			parent.kids = append(parent.kids, n)
		}
		if _, dup := byID[rc.ID]; rc.ID != "" && !dup {
			byID[rc.ID] = n
		}
	}

	out := make([]domain.ThreadedComment, 0, len(roots))
	for _, r := range roots {
		out = append(out, freeze(r, &st))
	}
	return out, st
}

func freeze(n *node, st *domain.ThreadStats) domain.ThreadedComment {
	c := n.c
	if len(n.kids) > 0 {
		st.WithReplies++
		c.Replies = make([]domain.ThreadedComment, 0, len(n.kids))
		for _, k := range n.kids {
			c.Replies = append(c.Replies, freeze(k, st))
		}
	}
	return c
}

// Walk visits the forest depth first, parents before their replies, allowing in place edits
func Walk(forest []domain.ThreadedComment, fn func(c *domain.ThreadedComment) error) error {
	for i := range forest {
		if err := fn(&forest[i]); err != nil {
			return err
		}
		if err := Walk(forest[i].Replies, fn); err != nil {
			return err
		}
	}
	return nil
}

// Flatten lists the forest in publish order without replies attached
func Flatten(forest []domain.ThreadedComment) []domain.ThreadedComment {
	var out []domain.ThreadedComment
	_ = Walk(forest, func(c *domain.ThreadedComment) error {
		flat := *c
		flat.Replies = nil
		out = append(out, flat)
		return nil
	})
	return out
}

// BuildChat orders live chat lines and drops empty ones
func BuildChat(raw []domain.RawChat) []domain.LiveChatMessage {
	ordered := slices.Clone(raw)
	slices.SortStableFunc(ordered, func(a, b domain.RawChat) int { return cmp.Compare(a.Order, b.Order) })
	out := make([]domain.LiveChatMessage, 0, len(ordered))
	for _, rc := range ordered {
		text := normalize.Text(rc.Text)
		if text == "" {
			continue
		}
		out = append(out, domain.LiveChatMessage{
			SourceID: rc.ID,
			Text:     text,
			Offset:   rc.Offset,
			Order:    rc.Order,
			From:     rc.Author,
		})
	}
	return out
}

// Cap returns at most n items, n < 0 meaning all
func Cap[T any](items []T, n int) []T {
	if n < 0 || n >= len(items) {
		return items
	}
	return items[:n]
}
