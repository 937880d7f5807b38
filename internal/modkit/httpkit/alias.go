// Package httpkit is the handler and routing kit modules use instead of
// importing internal/platform/net/http directly
package httpkit

import (
	"net/http"
	"strings"

	phttp "tubeport/internal/platform/net/http"
)

type (
	// Router re-exports the platform router seam
	Router = phttp.Router

	// Envelope is the response body type
	Envelope = phttp.Envelope
)

// Call adapts a handler that returns data or an error to the envelope writer
func Call(fn func(*http.Request) (any, error)) phttp.Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}

// Get mounts fn under GET path
func Get(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Get(path, Call(fn))
}

// Version mounts fn under /api/<v>, behind mw
func Version(r Router, v string, fn func(Router), mw ...func(http.Handler) http.Handler) {
	r.Route("/api/"+strings.Trim(v, "/"), func(api Router) {
		api.Use(mw...)
		fn(api)
	})
}
