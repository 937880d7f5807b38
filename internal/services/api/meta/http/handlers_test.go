package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	phttp "tubeport/internal/platform/net/http"
)

func serve(t *testing.T, d Deps, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), d)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, target, nil))
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	down := errors.New("pg: connection refused")
	cases := []struct {
		name   string
		guard  func(context.Context) error
		status int
	}{
		{"no guard", nil, stdhttp.StatusOK},
		{"stores up", func(context.Context) error { return nil }, stdhttp.StatusOK},
		{"store down", func(context.Context) error { return down }, stdhttp.StatusServiceUnavailable},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := Deps{ServiceName: "tubeport-api", StartedAt: time.Now().Add(-time.Minute), Guard: c.guard}
			rec, _ := serve(t, d, "/healthz")
			if rec.Code != c.status {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, c.status, rec.Body.String())
			}
		})
	}
}

func TestHealth_GuardGetsDeadline(t *testing.T) {
	var had bool
	d := Deps{ServiceName: "x", Guard: func(ctx context.Context) error {
		_, had = ctx.Deadline()
		return nil
	}}
	serve(t, d, "/healthz")
	if !had {
		t.Fatalf("guard context carries no deadline")
	}
}

func TestVersion(t *testing.T) {
	rec, body := serve(t, Deps{ServiceName: "tubeport-api"}, "/version")
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data, _ := body["data"].(map[string]any)
	if data["service"] != "tubeport-api" {
		t.Fatalf("body = %v", body)
	}
}
