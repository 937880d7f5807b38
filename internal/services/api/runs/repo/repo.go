// Package repo provides postgres reads over the ingest run ledger
package repo

import (
	"context"
	"encoding/json"
	"time"

	"tubeport/internal/modkit/repokit"
	"tubeport/internal/platform/store"
	ingestdom "tubeport/internal/services/ingest/domain"
)

// Repo defines the repository contract for runs
type Repo interface {
	Recent(ctx context.Context, limit int) ([]RowRun, error)
	Run(ctx context.Context, runID string) (RowRun, error)
	Results(ctx context.Context, runID string) ([]RowResult, error)
}

// RowRun is an ingest_runs row
type RowRun struct {
	RunID             string
	Mode              string
	Status            string
	StartedAt         time.Time
	FinishedAt        *time.Time
	ParseFailures     int
	Videos            int
	Succeeded         int
	Partial           int
	Failed            int
	Skipped           int
	CommentsPublished int
	LiveChatPublished int
	PublishFailures   int
}

// RowResult is an ingest_results row
type RowResult struct {
	Seq       int
	Line      int
	Ref       string
	VideoID   string
	Category  string
	Title     string
	AssetID   string
	Status    string
	Stage     string
	Error     string
	Counts    ingestdom.Counts
	StartedAt time.Time
	ElapsedMS int64
}

type (
	// PG implements Repo using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const runColumns = `run_id::text, mode, status, started_at, finished_at, parse_failures,
videos, succeeded, partial, failed, skipped, comments_published, live_chat_published, publish_failures`

func scanRun(r store.Row) (RowRun, error) {
	var rr RowRun
	err := r.Scan(
		&rr.RunID, &rr.Mode, &rr.Status, &rr.StartedAt, &rr.FinishedAt, &rr.ParseFailures,
		&rr.Videos, &rr.Succeeded, &rr.Partial, &rr.Failed, &rr.Skipped,
		&rr.CommentsPublished, &rr.LiveChatPublished, &rr.PublishFailures,
	)
	return rr, err
}

func (r *queries) Recent(ctx context.Context, limit int) ([]RowRun, error) {
	return store.Many(ctx, r.q, scanRun, `
select `+runColumns+`
from ingest_runs
order by started_at desc
limit $1`, limit)
}

// Run returns perr.ErrNotFound for an unknown id
func (r *queries) Run(ctx context.Context, runID string) (RowRun, error) {
	return store.One(ctx, r.q, scanRun, `
select `+runColumns+`
from ingest_runs
where run_id = $1::uuid`, runID)
}

func (r *queries) Results(ctx context.Context, runID string) ([]RowResult, error) {
	return store.Many(ctx, r.q, scanResult, `
select seq, line, ref, video_id, category, coalesce(title, ''), coalesce(asset_id, ''),
status, stage, coalesce(error, ''), counts::text, started_at, elapsed_ms
from ingest_results
where run_id = $1::uuid
order by seq`, runID)
}

func scanResult(r store.Row) (RowResult, error) {
	var (
		rr     RowResult
		counts string
	)
	if err := r.Scan(
		&rr.Seq, &rr.Line, &rr.Ref, &rr.VideoID, &rr.Category, &rr.Title, &rr.AssetID,
		&rr.Status, &rr.Stage, &rr.Error, &counts, &rr.StartedAt, &rr.ElapsedMS,
	); err != nil {
		return RowResult{}, err
	}
	if err := json.Unmarshal([]byte(counts), &rr.Counts); err != nil {
		return RowResult{}, err
	}
	return rr, nil
}
