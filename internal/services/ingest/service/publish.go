package service

import (
	"context"
	"strconv"

	"tubeport/internal/services/ingest/domain"
	"tubeport/internal/services/ingest/guardrails"
)

// ledger keys keep comments and live chat apart within one asset
const (
	commentKey = "c:"
	chatKey    = "l:"
)

// stagePublish sends comments then live chat, one at a time in publish order.
// A failed item is counted and skipped; only a lost session stops the loop
func (s *Service) stagePublish(ctx context.Context, sess *session, v *video) {
	asset := v.res.AssetID
	dry := s.cfg.Mode.DryRun()
	c := &v.res.Counts

	prior := s.priorPublished(ctx, asset, dry)
	remote := make(map[string]string, len(v.comments))

	for i, cm := range v.comments {
		if sess.lost != nil || ctx.Err() != nil {
			c.CommentsFailed += len(v.comments) - i
			break
		}
		if id, ok := prior[commentKey+cm.SourceID]; ok {
			remote[cm.SourceID] = id
			c.AlreadyPublished++
			continue
		}
		it := domain.PublishItem{
			AssetID:  asset,
			ParentID: remote[cm.ParentID],
			Author:   cm.Author,
			Text:     cm.Text,
			Offset:   cm.Offset,
		}
		if dry {
			logDryItem(ctx, "comment", i+1, len(v.comments), cm.SourceID, it)
			remote[cm.SourceID] = "dry-run-" + strconv.Itoa(i+1)
			c.CommentsPublished++
			continue
		}
		id, err := s.publishOne(ctx, sess, it)
		if err != nil {
			lg(ctx).Warn().Err(err).Str("comment", cm.SourceID).Int("n", i+1).Msg("comment publish failed")
			c.CommentsFailed++
			continue
		}
		remote[cm.SourceID] = id
		c.CommentsPublished++
		s.remember(ctx, asset, commentKey+cm.SourceID, id)
	}

	for i, m := range v.chat {
		if sess.lost != nil || ctx.Err() != nil {
			c.LiveChatFailed += len(v.chat) - i
			break
		}
		if _, ok := prior[chatKey+m.SourceID]; ok {
			c.AlreadyPublished++
			continue
		}
		it := domain.PublishItem{AssetID: asset, Author: m.Author, Text: m.Text, Offset: m.Offset}
		if dry {
			logDryItem(ctx, "live_chat", i+1, len(v.chat), m.SourceID, it)
			c.LiveChatPublished++
			continue
		}
		id, err := s.publishOne(ctx, sess, it)
		if err != nil {
			lg(ctx).Warn().Err(err).Str("chat", m.SourceID).Int("n", i+1).Msg("live chat publish failed")
			c.LiveChatFailed++
			continue
		}
		c.LiveChatPublished++
		s.remember(ctx, asset, chatKey+m.SourceID, id)
	}
}

func (s *Service) publishOne(ctx context.Context, sess *session, it domain.PublishItem) (string, error) {
	pctx, cancel := guardrails.ForPublish(ctx, s.cfg.Timeouts)
	defer cancel()
	var id string
	err := s.withAuth(pctx, sess, func(tok domain.BearerToken) (err error) {
		id, err = s.p.Publisher.Publish(pctx, tok, it)
		return err
	})
	return id, err
}

// priorPublished loads the publish ledger for asset; any failure means starting fresh
func (s *Service) priorPublished(ctx context.Context, asset string, dry bool) map[string]string {
	if s.p.Published == nil || dry || asset == "" {
		return nil
	}
	m, err := s.p.Published.Published(ctx, asset)
	if err != nil {
		lg(ctx).Warn().Err(err).Str("asset", asset).Msg("publish ledger unavailable")
		return nil
	}
	return m
}

func (s *Service) remember(ctx context.Context, asset, key, remoteID string) {
	if s.p.Published == nil {
		return
	}
	if err := s.p.Published.Remember(context.WithoutCancel(ctx), asset, key, remoteID); err != nil {
		lg(ctx).Warn().Err(err).Str("key", key).Msg("publish ledger write failed")
	}
}

func logDryItem(ctx context.Context, kind string, n, of int, sourceID string, it domain.PublishItem) {
	lg(ctx).Info().
		Str("kind", kind).
		Int("n", n).
		Int("of", of).
		Str("source_id", sourceID).
		Str("asset_id", it.AssetID).
		Str("parent_id", it.ParentID).
		Str("user_id", it.Author.UserID).
		Str("user_name", it.Author.Name).
		Str("profile_picture", it.Author.Avatar).
		Float64("commented_at", it.Offset.Seconds()).
		Str("comment", it.Text).
		Msg("dry run: import ready")
}
