package service

import (
	"context"
	"time"

	"tubeport/internal/modkit/repokit"
	perr "tubeport/internal/platform/errors"
	"tubeport/internal/platform/logger"
	"tubeport/internal/services/ingest/domain"
	"tubeport/internal/services/ingest/guardrails"
	"tubeport/internal/services/ingest/transform"
)

// Run processes the entries in order and returns the summary.
// The only errors are an authentication failure before the first entry, and a
// re-authentication failure mid run; in the second case the summary is still complete
func (s *Service) Run(ctx context.Context, in domain.RunInput) (domain.BatchSummary, error) {
	runID := s.newID()
	ctx = logger.WithRun(ctx, runID)
	sum := domain.BatchSummary{
		RunID:         runID,
		Mode:          s.cfg.Mode.String(),
		ParseFailures: in.ParseFailures,
		Started:       s.now(),
	}

	sess := &session{cred: in.Credential}
	if s.cfg.Mode.NeedsAuth() {
		tok, err := s.p.Auth.Authenticate(ctx, in.Credential)
		if err != nil {
			sum.Finish(s.now())
			return sum, perr.WrapIf(err, perr.ErrorCodeUnauthorized, "authenticate")
		}
		sess.tok = tok
	}

	if s.p.Housekeep != nil {
		s.p.Housekeep(ctx)
	}

	entries := transform.Cap(in.Entries, s.cfg.MaxVideos)
	lg(ctx).Info().
		Str("mode", sum.Mode).
		Int("entries", len(entries)).
		Int("listed", len(in.Entries)).
		Int("parse_failures", in.ParseFailures).
		Msg("run started")
	s.ledger(ctx, func(ctx context.Context, l domain.RunLedger) error {
		return l.StartRun(ctx, runID, sum.Mode, sum.Started)
	})

	for i, ref := range entries {
		var r domain.VideoProcessingResult
		switch {
		case sess.lost != nil:
			r = notProcessed(ref, s.now(), "not processed: authentication lost")
		case ctx.Err() != nil:
			r = notProcessed(ref, s.now(), "not processed: run interrupted")
		default:
			r = s.processVideo(ctx, sess, ref)
		}
		sum.Record(r)
		s.ledger(ctx, func(ctx context.Context, l domain.RunLedger) error {
			return l.RecordResult(ctx, runID, i, r)
		})
		s.sink(ctx, runID, r)

		lg(ctx).Info().
			Int("n", i+1).
			Int("of", len(entries)).
			Str("video", ref.VideoID).
			Str("status", r.Status.String()).
			Str("asset", r.AssetID).
			Int("comments", r.Counts.CommentsPublished).
			Int("live_chat", r.Counts.LiveChatPublished).
			Dur("took", r.Elapsed).
			Msg("video done")
	}

	sum.Finish(s.now())
	s.ledger(ctx, func(ctx context.Context, l domain.RunLedger) error { return l.FinishRun(ctx, sum) })

	t := sum.Totals
	lg(ctx).Info().
		Int("videos", t.Videos).
		Int("succeeded", t.Succeeded).
		Int("partial", t.Partial).
		Int("failed", t.Failed).
		Int("skipped", t.Skipped).
		Int("comments", t.CommentsPublished).
		Int("live_chat", t.LiveChatPublished).
		Int("publish_failures", t.PublishFailures).
		Msg("run finished")

	if sess.lost != nil {
		return sum, sess.lost
	}
	return sum, nil
}

func notProcessed(ref domain.SourceRef, at time.Time, msg string) domain.VideoProcessingResult {
	return domain.VideoProcessingResult{Ref: ref, Status: domain.StatusSkipped, Stage: domain.StagePending, Error: msg, Started: at}
}

// ledger runs fn against the run ledger in its own transaction. Failures are logged, never returned.
// Writes outlive a cancelled run so interrupted runs still leave their results behind
func (s *Service) ledger(ctx context.Context, fn func(context.Context, domain.RunLedger) error) {
	if s.p.DB == nil {
		return
	}
	dbCtx, cancel := guardrails.ForDB(context.WithoutCancel(ctx), s.cfg.Timeouts)
	defer cancel()
	err := s.p.DB.Tx(dbCtx, func(q repokit.Queryer) error {
		return fn(dbCtx, s.p.Ledger.Bind(q))
	})
	if err != nil {
		lg(ctx).Warn().Err(err).Msg("run ledger write failed")
	}
}

func (s *Service) sink(ctx context.Context, runID string, r domain.VideoProcessingResult) {
	if s.p.Sink == nil {
		return
	}
	dbCtx, cancel := guardrails.ForDB(context.WithoutCancel(ctx), s.cfg.Timeouts)
	defer cancel()
	if err := s.p.Sink.WriteResults(dbCtx, runID, []domain.VideoProcessingResult{r}); err != nil {
		lg(ctx).Warn().Err(err).Msg("analytics write failed")
	}
}
