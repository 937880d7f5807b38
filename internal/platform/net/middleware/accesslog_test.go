package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tubeport/internal/platform/net/middleware"
)

func TestAccessLogZerolog_PassesThrough(t *testing.T) {
	cases := []struct {
		name   string
		opt    middleware.AccessLogOptions
		path   string
		status int
		body   string
	}{
		{"plain", middleware.AccessLogOptions{}, "/api/v1/runs", http.StatusCreated, "ok"},
		{"slow", middleware.AccessLogOptions{Slow: time.Nanosecond}, "/api/v1/runs", http.StatusOK, "slow"},
		{"quiet", middleware.AccessLogOptions{Quiet: []string{"/healthz"}}, "/healthz", http.StatusOK, "up"},
		{"server error", middleware.AccessLogOptions{}, "/x", http.StatusBadGateway, "bad"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.status)
				_, _ = io.WriteString(w, c.body[:1])
				_, _ = io.WriteString(w, c.body[1:])
			})
			rr := httptest.NewRecorder()
			middleware.AccessLogZerolog(c.opt)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, c.path, nil))
			if rr.Code != c.status || rr.Body.String() != c.body {
				t.Fatalf("got %d %q", rr.Code, rr.Body.String())
			}
		})
	}
}
