package ytdlp

import (
	"context"
	"errors"
	"strings"

	perr "tubeport/internal/platform/errors"
)

// stderr fragments mapped to error codes, checked in order
var stderrCodes = []struct {
	needle string
	code   perr.ErrorCode
}{
	{"comments are turned off", perr.ErrorCodeCommentsDisabled},
	{"comments are disabled", perr.ErrorCodeCommentsDisabled},
	{"http error 429", perr.ErrorCodeTooManyRequests},
	{"too many requests", perr.ErrorCodeTooManyRequests},
	{"sign in to confirm", perr.ErrorCodeTooManyRequests},
	{"video unavailable", perr.ErrorCodeNotFound},
	{"private video", perr.ErrorCodeNotFound},
	{"has been removed", perr.ErrorCodeNotFound},
	{"does not exist", perr.ErrorCodeNotFound},
	{"http error 404", perr.ErrorCodeNotFound},
	{"unable to download", perr.ErrorCodeUnavailable},
	{"timed out", perr.ErrorCodeUnavailable},
	{"connection reset", perr.ErrorCodeUnavailable},
	{"http error 5", perr.ErrorCodeUnavailable},
}

// classify turns a failed run into a coded error using stderr as the signal
func classify(op string, err error, stderr string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	msg := lastLine(stderr)
	low := strings.ToLower(stderr)
	for _, sc := range stderrCodes {
		if strings.Contains(low, sc.needle) {
			return perr.WithOp(perr.Wrapf(err, sc.code, "yt-dlp: %s", msg), op)
		}
	}
	return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeUnknown, "yt-dlp failed: %s", msg), op)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	if s == "" {
		return "no output"
	}
	return s
}
