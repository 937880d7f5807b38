// Package http provides http transport for runs
package http

import (
	stdhttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tubeport/internal/modkit/httpkit"
	perr "tubeport/internal/platform/errors"
	"tubeport/internal/services/api/runs/domain"
	svc "tubeport/internal/services/api/runs/service"
)

// Register mounts runs endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{id}", h.get)
}

type handlers struct{ svc svc.Service }

// GET /runs?limit=N
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	var in domain.ListInput
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, perr.WithField(perr.InvalidArgf("limit must be a number"), "limit")
		}
		in.Limit = n
	}
	return h.svc.List(r.Context(), in)
}

// GET /runs/{id}
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), chi.URLParam(r, "id"))
}
