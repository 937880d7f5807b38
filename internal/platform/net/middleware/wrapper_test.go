package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pnet "tubeport/internal/platform/net"
	"tubeport/internal/platform/net/middleware"
)

func TestRequestID_SetsContext(t *testing.T) {
	var got string
	h := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = pnet.RequestID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got != "abc" || rec.Header().Get("X-Request-Id") != "abc" {
		t.Fatalf("request id = %q, echoed %q", got, rec.Header().Get("X-Request-Id"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got == "" || rec.Header().Get("X-Request-Id") != got {
		t.Fatalf("minted id %q not echoed (%q)", got, rec.Header().Get("X-Request-Id"))
	}
}

func TestTimeout_CancelsContext(t *testing.T) {
	var deadline bool
	h := middleware.Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, deadline = r.Context().Deadline()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background()))
	if !deadline {
		t.Fatalf("expected a deadline on the request context")
	}
}

func TestNoCache(t *testing.T) {
	rr := httptest.NewRecorder()
	middleware.NoCache()(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Header().Get("Cache-Control") == "" {
		t.Fatalf("Cache-Control missing")
	}
}

func TestCORS(t *testing.T) {
	cases := []struct {
		name   string
		origin string
		method string
		allow  string
	}{
		{"allowed get", "https://ui.example", http.MethodGet, "https://ui.example"},
		{"other origin", "https://evil.example", http.MethodGet, ""},
		{"post not allowed", "https://ui.example", http.MethodPost, ""},
	}
	mw := middleware.CORS(middleware.CORSOptions{AllowedOrigins: []string{"https://ui.example"}})
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/runs", nil)
			req.Header.Set("Origin", c.origin)
			req.Header.Set("Access-Control-Request-Method", c.method)
			rr := httptest.NewRecorder()
			mw(http.NotFoundHandler()).ServeHTTP(rr, req)
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != c.allow {
				t.Fatalf("allow origin = %q, want %q", got, c.allow)
			}
		})
	}
}
