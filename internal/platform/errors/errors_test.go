package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrorCodeNotFound:         http.StatusNotFound,
		ErrorCodeInvalidArgument:  http.StatusUnprocessableEntity,
		ErrorCodeValidation:       http.StatusBadRequest,
		ErrorCodeParse:            http.StatusBadRequest,
		ErrorCodeCommentsDisabled: http.StatusConflict,
		ErrorCodeUnauthorized:     http.StatusUnauthorized,
		ErrorCodeTooManyRequests:  http.StatusTooManyRequests,
		ErrorCodeUnavailable:      http.StatusServiceUnavailable,
		ErrorCodeDB:               http.StatusInternalServerError,
		ErrorCodePanic:            http.StatusInternalServerError,
		ErrorCode(999):            http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := HTTPStatusCode(code); got != want {
			t.Fatalf("HTTPStatusCode(%d) = %d, want %d", code, got, want)
		}
	}
}

func TestWrapChain(t *testing.T) {
	cause := stderrs.New("exit status 1")
	err := fmt.Errorf("video abc: %w", WithOp(Wrap(cause, ErrorCodeUnavailable, "yt-dlp"), "fetch"))

	if got := err.Error(); got != "video abc: yt-dlp: exit status 1" {
		t.Fatalf("Error() = %q", got)
	}
	e, ok := As(err)
	if !ok || e.Code() != ErrorCodeUnavailable || e.Op() != "fetch" {
		t.Fatalf("As = %+v %v", e, ok)
	}
	if Root(err) != cause || !stderrs.Is(err, cause) {
		t.Fatalf("cause lost")
	}
	if HTTPStatus(err) != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", HTTPStatus(err))
	}
	if w := WireFrom(err); w.Message != "yt-dlp" || w.Code != ErrorCodeUnavailable {
		t.Fatalf("wire = %+v", w)
	}
}

func TestForeignErrors(t *testing.T) {
	plain := stderrs.New("boom")
	if CodeOf(plain) != ErrorCodeUnknown || IsCode(plain, ErrorCodeDB) {
		t.Fatalf("foreign error should be Unknown")
	}
	if WithField(plain, "x") != plain || WithOp(plain, "x") != plain {
		t.Fatalf("mutators must not touch foreign errors")
	}
	if w := WireFrom(plain); w.Code != ErrorCodeUnknown || w.Message != "boom" {
		t.Fatalf("wire = %+v", w)
	}
	if WireFrom(nil) != (Wire{}) {
		t.Fatalf("nil wire should be zero")
	}
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil *Error text")
	}
}

func TestWithFieldCopies(t *testing.T) {
	base := Validationf("limit must be at most 200")
	withField := WithField(base, "limit")
	if e, _ := As(base); e.Field() != "" {
		t.Fatalf("original mutated")
	}
	if e, _ := As(withField); e.Field() != "limit" {
		t.Fatalf("field = %q", e.Field())
	}
}

func TestWrapIf(t *testing.T) {
	if WrapIf(nil, ErrorCodeUnauthorized, "authenticate") != nil {
		t.Fatalf("nil should pass through")
	}
	if !IsCode(WrapIf(stderrs.New("401"), ErrorCodeUnauthorized, "authenticate"), ErrorCodeUnauthorized) {
		t.Fatalf("code not applied")
	}
}

func TestSugarCodes(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
	}{
		{NotFoundf("video %s", "x"), ErrorCodeNotFound},
		{InvalidArgf("bad"), ErrorCodeInvalidArgument},
		{Validationf("bad"), ErrorCodeValidation},
		{Parsef("line %d", 3), ErrorCodeParse},
		{Unauthorizedf("expired"), ErrorCodeUnauthorized},
		{Unavailablef("503"), ErrorCodeUnavailable},
		{TooManyRequestsf("429"), ErrorCodeTooManyRequests},
		{PanicErrf("p"), ErrorCodePanic},
		{ErrNotFound, ErrorCodeNotFound},
	}
	for _, c := range cases {
		if CodeOf(c.err) != c.code {
			t.Fatalf("%v: code = %d, want %d", c.err, CodeOf(c.err), c.code)
		}
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unavailable", Unavailablef("503"), true},
		{"rate limited", TooManyRequestsf("429"), true},
		{"wrapped unavailable", fmt.Errorf("fetch: %w", Unavailablef("x")), true},
		{"not found", NotFoundf("gone"), false},
		{"auth", Unauthorizedf("no"), false},
		{"plain", stderrs.New("x"), false},
	}
	for _, c := range cases {
		if got := Retryable(c.err); got != c.want {
			t.Fatalf("%s: Retryable = %v", c.name, got)
		}
	}
}
