// Package domain holds DTOs for the runs http and service contracts
package domain

import (
	"time"

	ingestdom "tubeport/internal/services/ingest/domain"
)

// DefaultLimit is used when the list query omits limit
const DefaultLimit = 20

// ListInput is the query for recent runs
type ListInput struct {
	Limit int `json:"limit" validate:"min=1,max=200" example:"20"`
}

// Run is one batch run with its totals
type Run struct {
	RunID             string     `json:"run_id"`
	Mode              string     `json:"mode"`
	Status            string     `json:"status"`
	StartedAt         time.Time  `json:"started_at"`
	FinishedAt        *time.Time `json:"finished_at,omitempty"`
	ParseFailures     int        `json:"parse_failures"`
	Videos            int        `json:"videos"`
	Succeeded         int        `json:"succeeded"`
	Partial           int        `json:"partial"`
	Failed            int        `json:"failed"`
	Skipped           int        `json:"skipped"`
	CommentsPublished int        `json:"comments_published"`
	LiveChatPublished int        `json:"live_chat_published"`
	PublishFailures   int        `json:"publish_failures"`
}

// Result is one video outcome within a run
type Result struct {
	Seq       int              `json:"seq"`
	Line      int              `json:"line"`
	Ref       string           `json:"ref"`
	VideoID   string           `json:"video_id"`
	Category  string           `json:"category"`
	Title     string           `json:"title,omitempty"`
	AssetID   string           `json:"asset_id,omitempty"`
	Status    string           `json:"status"`
	Stage     string           `json:"stage"`
	Error     string           `json:"error,omitempty"`
	Counts    ingestdom.Counts `json:"counts"`
	StartedAt time.Time        `json:"started_at"`
	ElapsedMS int64            `json:"elapsed_ms"`
}

// RunDetail is a run with its results in input order
type RunDetail struct {
	Run
	Results []Result `json:"results"`
}
