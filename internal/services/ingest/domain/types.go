// Package domain holds the ingest pipeline types and the ports it drives
package domain

import (
	"time"

	identdom "tubeport/internal/services/ident/domain"
)

// Uncategorized is used when neither the list entry nor the source supplies a category
const Uncategorized = "uncategorized"

// SourceRef is one input entry: a video plus the category to file it under
type SourceRef struct {
	Line     int    `json:"line,omitempty"`
	Ref      string `json:"ref"`
	VideoID  string `json:"video_id"`
	Category string `json:"category"`
}

// RawVideo is provider metadata before normalization
type RawVideo struct {
	ID          string
	Title       string
	Description string
	Keywords    []string
	Category    string
	Duration    time.Duration // zero when unknown
}

// RawComment is one provider comment in publish order
type RawComment struct {
	ID       string
	Author   identdom.Author
	Text     string
	ParentID string // empty for top level comments
	Order    int
}

// RawChat is one provider live chat line
type RawChat struct {
	ID     string
	Author identdom.Author
	Text   string
	Offset time.Duration
	Order  int
}

// NormalizedVideo is ready for asset creation
type NormalizedVideo struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Keywords    []string      `json:"keywords"`
	Category    string        `json:"category"`
	Duration    time.Duration `json:"-"`
}

// ThreadedComment is a retained comment with its replies
type ThreadedComment struct {
	SourceID string            `json:"source_id"`
	ParentID string            `json:"parent_id,omitempty"` // source id of the threaded parent
	Author   identdom.Identity `json:"author"`
	Text     string            `json:"text"`
	Offset   time.Duration     `json:"-"`
	Depth    int               `json:"depth"`
	Order    int               `json:"order"`
	Promoted bool              `json:"promoted,omitempty"`
	Replies  []ThreadedComment `json:"replies,omitempty"`

	// source author, never published
	From identdom.Author `json:"-"`
}

// Seconds returns the offset as published
func (c ThreadedComment) Seconds() float64 { return c.Offset.Seconds() }

// LiveChatMessage is one live chat line ready to publish
type LiveChatMessage struct {
	SourceID string            `json:"source_id"`
	Author   identdom.Identity `json:"author"`
	Text     string            `json:"text"`
	Offset   time.Duration     `json:"-"`
	Order    int               `json:"order"`

	From identdom.Author `json:"-"`
}

// ThreadStats counts what BuildThreads saw
type ThreadStats struct {
	Total            int `json:"total"`
	WithTimestamp    int `json:"with_timestamp"`
	WithoutTimestamp int `json:"without_timestamp"`
	Promoted         int `json:"promoted"`
	WithReplies      int `json:"with_replies"`
}

// Counts are the per video tallies
type Counts struct {
	CommentsTotal     int `json:"comments_total"`
	WithTimestamp     int `json:"with_timestamp"`
	WithoutTimestamp  int `json:"without_timestamp"`
	Promoted          int `json:"promoted"`
	WithReplies       int `json:"with_replies"`
	CommentsPublished int `json:"comments_published"`
	CommentsFailed    int `json:"comments_failed"`
	AlreadyPublished  int `json:"already_published"`
	LiveChatTotal     int `json:"live_chat_total"`
	LiveChatPublished int `json:"live_chat_published"`
	LiveChatFailed    int `json:"live_chat_failed"`
}

// Status is the terminal state of one video
type Status uint8

const (
	StatusSuccess Status = iota
	StatusPartialFailure
	StatusFailed
	StatusSkipped
)

var statusNames = [...]string{"success", "partial_failure", "failed", "skipped"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// MarshalText renders the status name
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a status name
func (s *Status) UnmarshalText(b []byte) error {
	for i, n := range statusNames {
		if n == string(b) {
			*s = Status(i)
			return nil
		}
	}
	*s = StatusFailed
	return nil
}

// Stage names the last pipeline step a video reached
type Stage string

const (
	StagePending      Stage = "pending"
	StageFetched      Stage = "fetched"
	StageNormalized   Stage = "normalized"
	StageAnonymized   Stage = "anonymized"
	StageThreaded     Stage = "threaded"
	StageAssetCreated Stage = "asset_created"
	StageAssetDryRun  Stage = "asset_skipped_dry_run"
	StagePublished    Stage = "comments_published"
	StageSkipped      Stage = "comments_skipped"
	StageCompleted    Stage = "completed"
	StageFailed       Stage = "failed"
)

// VideoProcessingResult is the outcome for one SourceRef
type VideoProcessingResult struct {
	Ref     SourceRef        `json:"ref"`
	Video   *NormalizedVideo `json:"video,omitempty"`
	AssetID string           `json:"asset_id,omitempty"`
	Counts  Counts           `json:"counts"`
	Status  Status           `json:"status"`
	Stage   Stage            `json:"stage"`
	Error   string           `json:"error,omitempty"`
	Started time.Time        `json:"started"`
	Elapsed time.Duration    `json:"elapsed_ns"`
}

// Totals are sums over recorded results
type Totals struct {
	Videos            int `json:"videos"`
	Succeeded         int `json:"succeeded"`
	Partial           int `json:"partial"`
	Failed            int `json:"failed"`
	Skipped           int `json:"skipped"`
	CommentsTotal     int `json:"comments_total"`
	WithTimestamp     int `json:"with_timestamp"`
	WithoutTimestamp  int `json:"without_timestamp"`
	WithReplies       int `json:"with_replies"`
	Promoted          int `json:"promoted"`
	CommentsPublished int `json:"comments_published"`
	AlreadyPublished  int `json:"already_published"`
	LiveChatTotal     int `json:"live_chat_total"`
	LiveChatPublished int `json:"live_chat_published"`
	PublishFailures   int `json:"publish_failures"`
}

// Add folds one result into the totals
func (t *Totals) Add(r VideoProcessingResult) {
	t.Videos++
	switch r.Status {
	case StatusSuccess:
		t.Succeeded++
	case StatusPartialFailure:
		t.Partial++
	case StatusFailed:
		t.Failed++
	case StatusSkipped:
		t.Skipped++
	}
	c := r.Counts
	t.CommentsTotal += c.CommentsTotal
	t.WithTimestamp += c.WithTimestamp
	t.WithoutTimestamp += c.WithoutTimestamp
	t.WithReplies += c.WithReplies
	t.Promoted += c.Promoted
	t.CommentsPublished += c.CommentsPublished
	t.AlreadyPublished += c.AlreadyPublished
	t.LiveChatTotal += c.LiveChatTotal
	t.LiveChatPublished += c.LiveChatPublished
	t.PublishFailures += c.CommentsFailed + c.LiveChatFailed
}

// BatchSummary is the run report
type BatchSummary struct {
	RunID         string                  `json:"run_id"`
	Mode          string                  `json:"mode"`
	Results       []VideoProcessingResult `json:"results"`
	ParseFailures int                     `json:"parse_failures"`
	Totals        Totals                  `json:"totals"`
	Started       time.Time               `json:"started"`
	Finished      time.Time               `json:"finished"`
}

// Record appends a result
func (b *BatchSummary) Record(r VideoProcessingResult) {
	b.Results = append(b.Results, r)
}

// Finish computes the totals from the recorded results and stamps the end time
func (b *BatchSummary) Finish(at time.Time) {
	var t Totals
	for _, r := range b.Results {
		t.Add(r)
	}
	b.Totals = t
	b.Finished = at
}

// Failed reports whether any video ended in StatusFailed
func (b BatchSummary) Failed() bool { return b.Totals.Failed > 0 }
