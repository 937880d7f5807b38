package ytdlp

import (
	"context"
	"errors"
	"strings"
	"testing"

	perr "tubeport/internal/platform/errors"
)

func TestVideoID(t *testing.T) {
	cases := []struct {
		in, want string
		ok       bool
	}{
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10s", "dQw4w9WgXcQ", true},
		{"youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://vimeo.com/123", "", false},
		{"https://www.youtube.com/watch?v=short", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, err := VideoID(c.in)
		if c.ok != (err == nil) || got != c.want {
			t.Fatalf("VideoID(%q) = %q, %v", c.in, got, err)
		}
		if err != nil && !perr.IsCode(err, perr.ErrorCodeParse) {
			t.Fatalf("VideoID(%q) error code %v", c.in, perr.CodeOf(err))
		}
	}
}

func TestClassify(t *testing.T) {
	base := errors.New("exit status 1")
	cases := []struct {
		stderr string
		want   perr.ErrorCode
	}{
		{"ERROR: [youtube] x: Video unavailable", perr.ErrorCodeNotFound},
		{"ERROR: [youtube] x: Private video. Sign in", perr.ErrorCodeNotFound},
		{"ERROR: This video has been removed by the uploader", perr.ErrorCodeNotFound},
		{"ERROR: comments are disabled", perr.ErrorCodeCommentsDisabled},
		{"ERROR: HTTP Error 429: Too Many Requests", perr.ErrorCodeTooManyRequests},
		{"ERROR: HTTP Error 503: Service Unavailable", perr.ErrorCodeUnavailable},
		{"ERROR: read timed out", perr.ErrorCodeUnavailable},
		{"ERROR: something odd", perr.ErrorCodeUnknown},
	}
	for _, c := range cases {
		err := classify("video", base, c.stderr)
		if perr.CodeOf(err) != c.want {
			t.Fatalf("%q: code %v want %v", c.stderr, perr.CodeOf(err), c.want)
		}
		if !errors.Is(err, base) {
			t.Fatalf("%q: cause lost", c.stderr)
		}
	}
	if classify("video", nil, "x") != nil {
		t.Fatalf("nil error should stay nil")
	}
	if err := classify("video", context.Canceled, "Video unavailable"); !errors.Is(err, context.Canceled) || perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("cancel should pass through, got %v", err)
	}
	if !perr.Retryable(classify("x", base, "HTTP Error 429")) {
		t.Fatalf("429 should be retryable")
	}
}

func TestParseLiveChatVTT(t *testing.T) {
	in := strings.Join([]string{
		"WEBVTT",
		"Kind: captions",
		"",
		"1",
		"00:00:01.000 --> 00:00:02.000",
		"bob:",
		"first",
		"second line",
		"",
		"00:00:03.000 --> 00:00:04.000",
		"",
		"01:00:00.250 --> 01:00:01.000\r",
		"carol:",
		"",
		"01:00:10.000 --> 01:00:11.000",
		"plain: text with colon",
		"",
	}, "\n")
	got, err := ParseLiveChatVTT(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("lines = %+v", got)
	}
	if got[0].ID != "livechat_0" || got[0].Author != "bob" || got[0].Message != "first\nsecond line" || got[0].Offset != 1 {
		t.Fatalf("first = %+v", got[0])
	}
	if got[1].ID != "livechat_1" || got[1].Author != "" || got[1].Message != "plain: text with colon" || got[1].Offset != 3610 {
		t.Fatalf("second = %+v", got[1])
	}
}
