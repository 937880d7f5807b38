package service

import (
	"context"
	"time"

	perr "tubeport/internal/platform/errors"
	"tubeport/internal/platform/logger"
	"tubeport/internal/services/ingest/domain"
	"tubeport/internal/services/ingest/guardrails"
	"tubeport/internal/services/ingest/transform"
)

// video is the working state for one entry
type video struct {
	res      domain.VideoProcessingResult
	comments []domain.ThreadedComment // flat, publish order, capped
	chat     []domain.LiveChatMessage // capped
	disabled bool                     // source refused comment extraction
	created  bool                     // asset created, or simulated in a dry run
}

// processVideo drives one entry through the stages. Every outcome, a panic included, lands in the result
func (s *Service) processVideo(ctx context.Context, sess *session, ref domain.SourceRef) (res domain.VideoProcessingResult) {
	ctx = logger.WithVideo(ctx, ref.VideoID)
	ctx, cancel := guardrails.ForVideo(ctx, s.cfg.Timeouts)
	defer cancel()

	v := &video{res: domain.VideoProcessingResult{Ref: ref, Stage: domain.StagePending, Started: s.now()}}
	defer func() {
		if p := recover(); p != nil {
			lg(ctx).Error().Interface("panic", p).Msg("pipeline panic")
			s.fail(ctx, v, perr.PanicErrf("panic: %v", p))
		}
		v.res.Elapsed = s.now().Sub(v.res.Started)
		res = v.res
	}()

	if err := s.stageFetch(ctx, v); err != nil {
		s.fail(ctx, v, err)
		return
	}
	if err := s.stageAnonymize(ctx, v); err != nil {
		s.fail(ctx, v, err)
		return
	}

	if s.cfg.Mode.FetchesVideo() {
		if err := s.stageAsset(ctx, sess, v); err != nil {
			s.fail(ctx, v, err)
			return
		}
	} else {
		v.res.AssetID = s.cfg.Mode.AssetID()
	}

	if s.cfg.Mode.PublishesComments() && !v.disabled {
		s.stagePublish(ctx, sess, v)
		v.res.Stage = domain.StagePublished
	} else {
		v.res.Stage = domain.StageSkipped
	}

	v.res.Status = settle(v)
	v.res.Stage = domain.StageCompleted
	return
}

func (s *Service) fetch(ctx context.Context, call func(context.Context) error) error {
	fctx, cancel := guardrails.ForFetch(ctx, s.cfg.Timeouts)
	defer cancel()
	return call(fctx)
}

// stageFetch loads metadata, comments and live chat, then threads the comments
func (s *Service) stageFetch(ctx context.Context, v *video) error {
	id := v.res.Ref.VideoID
	var bound time.Duration

	if s.cfg.Mode.FetchesVideo() {
		var raw domain.RawVideo
		err := s.fetch(ctx, func(ctx context.Context) (err error) {
			raw, err = s.p.Provider.FetchVideo(ctx, id)
			return err
		})
		if err != nil {
			return err
		}
		v.res.Stage = domain.StageFetched

		nv, err := transform.NormalizeVideo(raw, v.res.Ref.Category)
		if err != nil {
			return err
		}
		v.res.Video = &nv
		v.res.Stage = domain.StageNormalized
		if s.cfg.EnforceDuration {
			bound = nv.Duration
		}
	}
	if !s.cfg.Mode.PublishesComments() {
		return nil
	}

	var raw []domain.RawComment
	err := s.fetch(ctx, func(ctx context.Context) (err error) {
		raw, err = s.p.Provider.FetchComments(ctx, id)
		return err
	})
	switch {
	case perr.IsCode(err, perr.ErrorCodeCommentsDisabled):
		lg(ctx).Info().Msg("comments disabled")
		v.disabled = true
		return nil
	case err != nil:
		return err
	}

	forest, st := transform.BuildThreads(raw, transform.ThreadOptions{Bound: bound})
	c := &v.res.Counts
	c.CommentsTotal = st.Total
	c.WithTimestamp = st.WithTimestamp
	c.WithoutTimestamp = st.WithoutTimestamp
	c.Promoted = st.Promoted
	c.WithReplies = st.WithReplies
	v.comments = transform.Cap(transform.Flatten(forest), s.cfg.MaxComments)

	if s.cfg.LiveChat {
		var chat []domain.RawChat
		err := s.fetch(ctx, func(ctx context.Context) (err error) {
			chat, err = s.p.Provider.FetchLiveChat(ctx, id)
			return err
		})
		if err != nil {
			// optional, most videos have none
			lg(ctx).Warn().Err(err).Msg("live chat unavailable")
		}
		msgs := transform.BuildChat(chat)
		c.LiveChatTotal = len(msgs)
		v.chat = transform.Cap(msgs, s.cfg.MaxComments)
	}
	v.res.Stage = domain.StageFetched
	if v.res.Video != nil {
		v.res.Stage = domain.StageNormalized
	}
	return nil
}

// stageAnonymize resolves identities in publish order. An author the anonymizer
// rejects drops that one item
func (s *Service) stageAnonymize(ctx context.Context, v *video) error {
	keep := v.comments[:0]
	for _, c := range v.comments {
		id, err := s.p.Anonymizer.Anonymize(ctx, c.From)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lg(ctx).Warn().Err(err).Str("comment", c.SourceID).Msg("anonymize failed, comment dropped")
			v.res.Counts.CommentsFailed++
			continue
		}
		c.Author = id
		keep = append(keep, c)
	}
	v.comments = keep

	chat := v.chat[:0]
	for _, m := range v.chat {
		id, err := s.p.Anonymizer.Anonymize(ctx, m.From)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lg(ctx).Warn().Err(err).Str("chat", m.SourceID).Msg("anonymize failed, message dropped")
			v.res.Counts.LiveChatFailed++
			continue
		}
		m.Author = id
		chat = append(chat, m)
	}
	v.chat = chat
	v.res.Stage = domain.StageThreaded
	return nil
}

// stageAsset downloads the media and creates the asset, or logs what would be created in a dry run
func (s *Service) stageAsset(ctx context.Context, sess *session, v *video) error {
	nv := *v.res.Video
	if s.cfg.Mode.DryRun() {
		lg(ctx).Info().
			Str("title", nv.Title).
			Str("category", nv.Category).
			Strs("keywords", nv.Keywords).
			Int("description_len", len(nv.Description)).
			Msg("dry run: would create asset")
		v.created = true
		v.res.Stage = domain.StageAssetDryRun
		return nil
	}

	uctx, cancel := guardrails.ForUpload(ctx, s.cfg.Timeouts)
	defer cancel()

	path, discard, err := s.p.Provider.FetchMedia(uctx, nv.ID)
	if err != nil {
		return err
	}
	defer discard()

	var assetID string
	err = s.withAuth(uctx, sess, func(tok domain.BearerToken) (err error) {
		assetID, err = s.p.Assets.CreateAsset(uctx, tok, nv, path)
		return err
	})
	if err != nil {
		return err
	}
	v.res.AssetID = assetID
	v.created = true
	v.res.Stage = domain.StageAssetCreated
	lg(ctx).Info().Str("asset", assetID).Msg("asset created")
	return nil
}

// settle picks the terminal status from what happened
func settle(v *video) domain.Status {
	c := v.res.Counts
	failures := c.CommentsFailed + c.LiveChatFailed
	published := c.CommentsPublished + c.LiveChatPublished + c.AlreadyPublished
	switch {
	case v.disabled && !v.created:
		v.res.Error = "comments disabled"
		return domain.StatusSkipped
	case v.disabled:
		v.res.Error = "comments disabled"
		return domain.StatusPartialFailure
	case failures == 0:
		return domain.StatusSuccess
	case published > 0 || v.created:
		return domain.StatusPartialFailure
	}
	return domain.StatusFailed
}

// fail records err as the outcome. Missing sources are skipped rather than failed,
// and a failure after some comments went out is partial
func (s *Service) fail(ctx context.Context, v *video, err error) {
	v.res.Error = err.Error()
	c := v.res.Counts
	switch {
	case perr.IsCode(err, perr.ErrorCodeNotFound), perr.IsCode(err, perr.ErrorCodeCommentsDisabled):
		v.res.Status = domain.StatusSkipped
	case c.CommentsPublished+c.LiveChatPublished > 0:
		v.res.Status = domain.StatusPartialFailure
	default:
		v.res.Status = domain.StatusFailed
	}
	v.res.Stage = domain.StageFailed
	evt := lg(ctx).Warn().Err(err).Str("status", v.res.Status.String())
	if e, ok := perr.As(err); ok && e.Op() != "" {
		evt = evt.Str("op", e.Op())
	}
	evt.Msg("video not completed")
}
