package httpkit

import (
	"net/http"
	"time"

	"tubeport/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack; zero values take defaults
type StackOptions struct {
	Origins []string      // CORS allow list, empty allows any origin
	Slow    time.Duration // access log warn threshold, default 500ms
	Timeout time.Duration // per request deadline, default 30s
}

// CommonStack returns the root middleware slice for the API
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Slow <= 0 {
		o.Slow = 500 * time.Millisecond
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		// correlation
		middleware.RequestID(),
		middleware.RealIP(),

		middleware.RecoverJSON,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow}),

		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: o.Origins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		}),
		middleware.NoCache(),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}
