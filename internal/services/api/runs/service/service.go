// Package service contains runs workflows
package service

import (
	"context"

	"github.com/google/uuid"

	"tubeport/internal/modkit/repokit"
	perr "tubeport/internal/platform/errors"
	"tubeport/internal/platform/validate"
	"tubeport/internal/services/api/runs/domain"
	"tubeport/internal/services/api/runs/repo"
)

// Service defines the service contract for runs
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo repo.Repo
}

// New creates a new runs service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("runs.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("runs.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db)}
}

// List returns the most recent runs, newest first
func (s *Svc) List(ctx context.Context, in domain.ListInput) ([]domain.Run, error) {
	if in.Limit == 0 {
		in.Limit = domain.DefaultLimit
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	rows, err := s.Repo.Recent(ctx, in.Limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list runs")
	}
	out := make([]domain.Run, 0, len(rows))
	for _, r := range rows {
		out = append(out, toRun(r))
	}
	return out, nil
}

// Get returns one run and its results
func (s *Svc) Get(ctx context.Context, runID string) (domain.RunDetail, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return domain.RunDetail{}, perr.WithField(perr.InvalidArgf("run id must be a uuid"), "id")
	}
	row, err := s.Repo.Run(ctx, runID)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return domain.RunDetail{}, perr.NotFoundf("run %s not found", runID)
	}
	if err != nil {
		return domain.RunDetail{}, perr.FromPostgres(err, "get run")
	}
	results, err := s.Repo.Results(ctx, runID)
	if err != nil {
		return domain.RunDetail{}, perr.FromPostgres(err, "get run results")
	}
	d := domain.RunDetail{Run: toRun(row), Results: make([]domain.Result, 0, len(results))}
	for _, r := range results {
		d.Results = append(d.Results, domain.Result{
			Seq:       r.Seq,
			Line:      r.Line,
			Ref:       r.Ref,
			VideoID:   r.VideoID,
			Category:  r.Category,
			Title:     r.Title,
			AssetID:   r.AssetID,
			Status:    r.Status,
			Stage:     r.Stage,
			Error:     r.Error,
			Counts:    r.Counts,
			StartedAt: r.StartedAt,
			ElapsedMS: r.ElapsedMS,
		})
	}
	return d, nil
}

func toRun(r repo.RowRun) domain.Run {
	return domain.Run{
		RunID:             r.RunID,
		Mode:              r.Mode,
		Status:            r.Status,
		StartedAt:         r.StartedAt,
		FinishedAt:        r.FinishedAt,
		ParseFailures:     r.ParseFailures,
		Videos:            r.Videos,
		Succeeded:         r.Succeeded,
		Partial:           r.Partial,
		Failed:            r.Failed,
		Skipped:           r.Skipped,
		CommentsPublished: r.CommentsPublished,
		LiveChatPublished: r.LiveChatPublished,
		PublishFailures:   r.PublishFailures,
	}
}
