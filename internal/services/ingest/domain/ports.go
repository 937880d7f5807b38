package domain

import (
	"context"
	"time"

	identdom "tubeport/internal/services/ident/domain"
)

// Credential is what the operator supplies at start
type Credential struct {
	Email    string
	Password string
}

// BearerToken is the destination session, passed by value through every remote call
type BearerToken struct {
	JWT     string
	Refresh string
}

// RunInput is everything one batch needs
type RunInput struct {
	Entries       []SourceRef
	ParseFailures int
	Credential    Credential
}

// RunnerPort is the public port of the ingest module
type RunnerPort interface {
	Run(ctx context.Context, in RunInput) (BatchSummary, error)
}

// Provider fetches source data for one video
type Provider interface {
	FetchVideo(ctx context.Context, videoID string) (RawVideo, error)
	FetchComments(ctx context.Context, videoID string) ([]RawComment, error)
	FetchLiveChat(ctx context.Context, videoID string) ([]RawChat, error)
	// FetchMedia returns a local media file and a func that discards it
	FetchMedia(ctx context.Context, videoID string) (path string, discard func(), err error)
}

// Authenticator exchanges the operator credential for a bearer token
type Authenticator interface {
	Authenticate(ctx context.Context, cred Credential) (BearerToken, error)
}

// AssetCreator creates the destination asset for a video
type AssetCreator interface {
	CreateAsset(ctx context.Context, tok BearerToken, v NormalizedVideo, mediaPath string) (string, error)
}

// PublishItem is one comment or live chat line bound for an asset
type PublishItem struct {
	AssetID  string
	ParentID string // remote id of the parent, empty for top level
	Author   identdom.Identity
	Text     string
	Offset   time.Duration
}

// Publisher sends one item and returns its remote id
type Publisher interface {
	Publish(ctx context.Context, tok BearerToken, it PublishItem) (string, error)
}

// Anonymizer is the ident port the pipeline uses
type Anonymizer = identdom.AnonymizerPort

// RunLedger persists runs and their results
type RunLedger interface {
	StartRun(ctx context.Context, runID, mode string, started time.Time) error
	RecordResult(ctx context.Context, runID string, seq int, r VideoProcessingResult) error
	FinishRun(ctx context.Context, s BatchSummary) error
}

// ResultSink receives one analytics row per result
type ResultSink interface {
	WriteResults(ctx context.Context, runID string, rs []VideoProcessingResult) error
}

// PublishLedger remembers which source comments were already published to an asset
type PublishLedger interface {
	Published(ctx context.Context, assetID string) (map[string]string, error)
	Remember(ctx context.Context, assetID, sourceID, remoteID string) error
}
