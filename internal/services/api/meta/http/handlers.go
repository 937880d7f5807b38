// Package http provides the health and version endpoints
package http

import (
	"context"
	"net/http"
	"time"

	"tubeport/internal/core/version"
	"tubeport/internal/modkit/httpkit"
	perr "tubeport/internal/platform/errors"
)

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	// Guard pings the wired stores; nil reports healthy
	Guard func(context.Context) error
	// GuardTimeout bounds one Guard call, default 2s
	GuardTimeout time.Duration
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.GuardTimeout <= 0 {
		d.GuardTimeout = 2 * time.Second
	}
	h := &handlers{deps: d, now: time.Now}
	httpkit.Get(r, "/healthz", h.health)
	httpkit.Get(r, "/version", h.version)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime_s"`
}

// GET /healthz: 200 when every store answers, 503 otherwise
func (h *handlers) health(r *http.Request) (any, error) {
	if h.deps.Guard != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.deps.GuardTimeout)
		defer cancel()
		if err := h.deps.Guard(ctx); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "store guard failed")
		}
	}
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}

// GET /version
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}
