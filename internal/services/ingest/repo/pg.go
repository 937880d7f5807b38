// Package repo persists ingest runs: the run ledger in postgres, per video rows in
// clickhouse and the publish ledger in redis
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tubeport/internal/modkit/repokit"
	"tubeport/internal/services/ingest/domain"
)

// Schema creates the run ledger tables
const Schema = `
CREATE TABLE IF NOT EXISTS ingest_runs (
	run_id              uuid PRIMARY KEY,
	mode                text NOT NULL,
	status              text NOT NULL DEFAULT 'running',
	started_at          timestamptz NOT NULL,
	finished_at         timestamptz,
	parse_failures      int NOT NULL DEFAULT 0,
	videos              int NOT NULL DEFAULT 0,
	succeeded           int NOT NULL DEFAULT 0,
	partial             int NOT NULL DEFAULT 0,
	failed              int NOT NULL DEFAULT 0,
	skipped             int NOT NULL DEFAULT 0,
	comments_published  int NOT NULL DEFAULT 0,
	live_chat_published int NOT NULL DEFAULT 0,
	publish_failures    int NOT NULL DEFAULT 0,
	totals              jsonb
);

CREATE TABLE IF NOT EXISTS ingest_results (
	run_id      uuid NOT NULL REFERENCES ingest_runs(run_id) ON DELETE CASCADE,
	seq         int NOT NULL,
	line        int NOT NULL,
	ref         text NOT NULL,
	video_id    text NOT NULL,
	category    text NOT NULL,
	title       text,
	asset_id    text,
	status      text NOT NULL,
	stage       text NOT NULL,
	error       text,
	counts      jsonb NOT NULL,
	started_at  timestamptz NOT NULL,
	elapsed_ms  bigint NOT NULL,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS ingest_runs_started_idx ON ingest_runs (started_at DESC);
`

// run statuses as stored
const (
	RunRunning  = "running"
	RunFinished = "finished"
)

type (
	// PG is a Postgres binder for domain.RunLedger
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

var _ domain.RunLedger = (*queries)(nil)

// NewPG returns a Postgres binder for the run ledger
func NewPG() repokit.Binder[domain.RunLedger] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.RunLedger { return &queries{q: q} }

// EnsureSchema applies Schema
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	if _, err := q.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ingest schema: %w", err)
	}
	return nil
}

func (r *queries) StartRun(ctx context.Context, runID, mode string, started time.Time) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ingest_runs (run_id, mode, status, started_at)
		VALUES ($1::uuid, $2, 'running', $3)
		ON CONFLICT (run_id) DO NOTHING`,
		runID, mode, started.UTC())
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}
	return nil
}

func (r *queries) RecordResult(ctx context.Context, runID string, seq int, res domain.VideoProcessingResult) error {
	counts, err := json.Marshal(res.Counts)
	if err != nil {
		return fmt.Errorf("record result: counts: %w", err)
	}
	var title string
	if res.Video != nil {
		title = res.Video.Title
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO ingest_results (
			run_id, seq, line, ref, video_id, category, title, asset_id,
			status, stage, error, counts, started_at, elapsed_ms
		) VALUES (
			$1::uuid, $2, $3, $4, $5, $6, NULLIF($7,''), NULLIF($8,''),
			$9, $10, NULLIF($11,''), $12::jsonb, $13, $14
		)
		ON CONFLICT (run_id, seq) DO UPDATE SET
			asset_id = EXCLUDED.asset_id,
			status = EXCLUDED.status,
			stage = EXCLUDED.stage,
			error = EXCLUDED.error,
			counts = EXCLUDED.counts,
			elapsed_ms = EXCLUDED.elapsed_ms`,
		runID, seq, res.Ref.Line, res.Ref.Ref, res.Ref.VideoID, res.Ref.Category, title, res.AssetID,
		res.Status.String(), string(res.Stage), res.Error, string(counts), res.Started.UTC(), res.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record result %d: %w", seq, err)
	}
	return nil
}

func (r *queries) FinishRun(ctx context.Context, s domain.BatchSummary) error {
	totals, err := json.Marshal(s.Totals)
	if err != nil {
		return fmt.Errorf("finish run: totals: %w", err)
	}
	t := s.Totals
	_, err = r.q.Exec(ctx, `
		UPDATE ingest_runs SET
			status = 'finished',
			finished_at = $2,
			parse_failures = $3,
			videos = $4,
			succeeded = $5,
			partial = $6,
			failed = $7,
			skipped = $8,
			comments_published = $9,
			live_chat_published = $10,
			publish_failures = $11,
			totals = $12::jsonb
		WHERE run_id = $1::uuid`,
		s.RunID, s.Finished.UTC(), s.ParseFailures, t.Videos, t.Succeeded, t.Partial, t.Failed, t.Skipped,
		t.CommentsPublished, t.LiveChatPublished, t.PublishFailures, string(totals),
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}
