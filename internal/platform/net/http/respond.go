package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "tubeport/internal/platform/errors"
	"tubeport/internal/platform/logger"
	pnet "tubeport/internal/platform/net"
)

// Envelope is the response body for every endpoint
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Named("http").Debug().Err(err).Msg("write body")
	}
}

// Response is what return-style handlers produce. A Body that is an error
// renders as an error envelope whose status follows the error code
type Response struct {
	Status int
	Body   any
}

// OK returns a 200 response carrying data
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Error returns an error response
func Error(err error) Response { return Response{Body: err} }

// Handle adapts a Response-returning func to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		env := h(r).envelope(r)
		JSON(w, env.StatusCode, env)
	}
}

func (resp Response) envelope(r *stdhttp.Request) Envelope {
	env := Envelope{StatusCode: resp.Status, RequestID: pnet.RequestID(r.Context())}
	err, isErr := resp.Body.(error)
	switch {
	case isErr && err != nil:
		wire := perr.WireFrom(err)
		env.StatusCode = perr.HTTPStatus(err)
		env.Code, env.Error, env.Field = wire.Code, wire.Message, wire.Field
		if env.StatusCode == stdhttp.StatusInternalServerError {
			evt := logger.C(r.Context()).Error().Err(err)
			if e, ok := perr.As(err); ok && e.Op() != "" {
				evt = evt.Str("op", e.Op())
			}
			evt.Msg("request failed")
			env.Error = "internal error"
		}
	case env.StatusCode == 0:
		env.StatusCode = stdhttp.StatusOK
		fallthrough
	default:
		env.Data = resp.Body
	}
	env.Status = stdhttp.StatusText(env.StatusCode)
	return env
}
