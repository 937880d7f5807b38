package repo

import (
	"context"
	"fmt"

	"tubeport/internal/platform/store"
	"tubeport/internal/services/ingest/domain"
)

// ResultsTable is the clickhouse table fed by the sink
const ResultsTable = "ingest_video_results"

// CHSchema creates ResultsTable
const CHSchema = `
CREATE TABLE IF NOT EXISTS ingest_video_results (
	run_id              String,
	video_id            LowCardinality(String),
	asset_id            String,
	category            LowCardinality(String),
	status              LowCardinality(String),
	stage               LowCardinality(String),
	comments_total      UInt32,
	with_timestamp      UInt32,
	promoted            UInt32,
	comments_published  UInt32,
	comments_failed     UInt32,
	already_published   UInt32,
	live_chat_total     UInt32,
	live_chat_published UInt32,
	live_chat_failed    UInt32,
	elapsed_ms          UInt64,
	started_at          DateTime64(3, 'UTC')
) ENGINE = MergeTree
ORDER BY (started_at, run_id, video_id)
`

// Sink writes one analytics row per video result
type Sink struct {
	ch store.Clickhouse
}

var _ domain.ResultSink = (*Sink)(nil)

// NewSink wraps ch
func NewSink(ch store.Clickhouse) *Sink { return &Sink{ch: ch} }

// EnsureCHSchema applies CHSchema
func EnsureCHSchema(ctx context.Context, ch store.Clickhouse) error {
	if err := ch.Exec(ctx, CHSchema); err != nil {
		return fmt.Errorf("ingest ch schema: %w", err)
	}
	return nil
}

func (s *Sink) WriteResults(ctx context.Context, runID string, rs []domain.VideoProcessingResult) error {
	if len(rs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, resultRow(runID, r))
	}
	if err := s.ch.Insert(ctx, ResultsTable, rows); err != nil {
		return fmt.Errorf("insert %s: %w", ResultsTable, err)
	}
	return nil
}

// resultRow orders values as CHSchema columns
func resultRow(runID string, r domain.VideoProcessingResult) []any {
	c := r.Counts
	return []any{
		runID,
		r.Ref.VideoID,
		r.AssetID,
		r.Ref.Category,
		r.Status.String(),
		string(r.Stage),
		uint32(c.CommentsTotal),
		uint32(c.WithTimestamp),
		uint32(c.Promoted),
		uint32(c.CommentsPublished),
		uint32(c.CommentsFailed),
		uint32(c.AlreadyPublished),
		uint32(c.LiveChatTotal),
		uint32(c.LiveChatPublished),
		uint32(c.LiveChatFailed),
		uint64(r.Elapsed.Milliseconds()),
		r.Started.UTC(),
	}
}
