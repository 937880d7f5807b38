// Package service runs the ingest batch: one sequential pass over the list, one result per entry
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tubeport/internal/modkit/repokit"
	"tubeport/internal/platform/logger"
	"tubeport/internal/services/ingest/domain"
	"tubeport/internal/services/ingest/guardrails"
)

// All lifts a cap
const All = -1

// Config holds the run policy
type Config struct {
	Mode domain.Mode

	// MaxVideos caps list entries, All for no cap
	MaxVideos int
	// MaxComments caps comments and live chat separately, in publish order, All for no cap
	MaxComments int

	// EnforceDuration rejects timestamps past a known video duration
	EnforceDuration bool
	// LiveChat enables the live chat stage
	LiveChat bool

	Timeouts guardrails.Timeouts
}

// Ports are the collaborators the service drives
type Ports struct {
	Provider   domain.Provider
	Anonymizer domain.Anonymizer
	Auth       domain.Authenticator
	Assets     domain.AssetCreator
	Publisher  domain.Publisher

	// optional
	DB        repokit.TxRunner
	Ledger    repokit.Binder[domain.RunLedger]
	Sink      domain.ResultSink
	Published domain.PublishLedger
	// Housekeep runs once before the first entry, e.g. cache cleanup
	Housekeep func(ctx context.Context)
}

// Service implements domain.RunnerPort
type Service struct {
	p   Ports
	cfg Config

	now   func() time.Time
	newID func() string
}

var _ domain.RunnerPort = (*Service)(nil)

// New constructs the service. Provider and Anonymizer are always required;
// the destination ports are required unless the mode is a dry run
func New(p Ports, cfg Config) *Service {
	if p.Provider == nil {
		panic("ingest.Service requires a non nil Provider")
	}
	if p.Anonymizer == nil {
		panic("ingest.Service requires a non nil Anonymizer")
	}
	if !cfg.Mode.DryRun() && (p.Auth == nil || p.Assets == nil || p.Publisher == nil) {
		panic("ingest.Service requires destination ports outside dry run")
	}
	if (p.DB == nil) != (p.Ledger == nil) {
		panic("ingest.Service needs both DB and Ledger or neither")
	}
	return &Service{
		p:     p,
		cfg:   cfg,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Config returns the run policy
func (s *Service) Config() Config { return s.cfg }

func lg(ctx context.Context) *logger.Logger {
	l := logger.C(ctx).With().Str("component", "ingest").Logger()
	return &l
}
