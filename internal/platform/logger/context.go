package logger

import "context"

type ctxKey string

// ctxFields lists the context keys C copies onto a child logger, in order
var ctxFields = []ctxKey{"request_id", "run_id", "video"}

// WithRequest stores the http request id on ctx
func WithRequest(ctx context.Context, id string) context.Context {
	return with(ctx, "request_id", id)
}

// WithRun stores the ingest run id on ctx
func WithRun(ctx context.Context, id string) context.Context { return with(ctx, "run_id", id) }

// WithVideo stores the source video id being processed on ctx
func WithVideo(ctx context.Context, id string) context.Context { return with(ctx, "video", id) }

func with(ctx context.Context, k ctxKey, v string) context.Context {
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, k, v)
}

// C returns a child of the root logger carrying whichever ids ctx holds
func C(ctx context.Context) *Logger {
	zc := Get().With()
	for _, k := range ctxFields {
		if v, _ := ctx.Value(k).(string); v != "" {
			zc = zc.Str(string(k), v)
		}
	}
	l := zc.Logger()
	return &l
}
