// Package destination talks to the publishing platform: sign in, asset creation and comment publishing
package destination

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	perr "tubeport/internal/platform/errors"
	"tubeport/internal/platform/logger"

	"golang.org/x/time/rate"
)

const (
	identityURLDefault = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"
	defaultTimeout     = 60 * time.Second
	uploadTimeout      = 10 * time.Minute
	defaultMaxRetry    = 3
	defaultRetryBase   = time.Second
	defaultMaxBackoff  = 60 * time.Second
	defaultUA          = "tubeport"
)

// Options configures the Client
type Options struct {
	// BackendURL is the API root; GraphQL lives at BackendURL + "/graphql/"
	BackendURL  string
	PublishURL  string
	IdentityURL string
	APIKey      string
	UserAgent   string
	Timeout     time.Duration

	MaxRetries int
	RetryBase  time.Duration
	MaxBackoff time.Duration

	// RateLimit is the minimum spacing between publish calls, zero disables pacing
	RateLimit time.Duration
}

// Client is the destination HTTP client with retry and pacing
type Client struct {
	http    *http.Client
	upload  *http.Client
	opts    Options
	limiter *rate.Limiter
	log     logger.Logger
	now     func() time.Time
	sleep   func(time.Duration)
}

// NewClient creates a Client with defaults filled in
func NewClient(o Options) *Client {
	o.BackendURL = strings.TrimRight(o.BackendURL, "/")
	if o.PublishURL == "" && o.BackendURL != "" {
		o.PublishURL = o.BackendURL + "/publish-comment"
	}
	if o.IdentityURL == "" {
		o.IdentityURL = identityURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = defaultMaxBackoff
	}
	lim := rate.NewLimiter(rate.Inf, 1)
	if o.RateLimit > 0 {
		lim = rate.NewLimiter(rate.Every(o.RateLimit), 1)
	}
	return &Client{
		http:    &http.Client{Timeout: o.Timeout},
		upload:  &http.Client{Timeout: uploadTimeout},
		opts:    o,
		limiter: lim,
		log:     *logger.Named("destination"),
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

func (c *Client) graphqlURL() string { return c.opts.BackendURL + "/graphql/" }

// do sends the request built by build, retrying transport errors, 429 and 5xx.
// build runs once per attempt so bodies can be replayed
func (c *Client) do(ctx context.Context, hc *http.Client, op string, build func(context.Context) (*http.Request, error)) (*http.Response, error) {
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		req, err := build(ctx)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "%s: new request", op)
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)

		start := c.now()
		resp, err := hc.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !c.shouldRetry(attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s: transport", op)
			}
			back := c.backoff(attempts)
			c.log.Warn().Str("op", op).Dur("retry_in", back).Int("attempt", attempts).Err(err).Msg("transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Str("op", op).
			Str("method", req.Method).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("destination http response")

		switch code := resp.StatusCode; {
		case code >= 200 && code < 300:
			return resp, nil
		case code == http.StatusTooManyRequests:
			wait := retryAfter(resp.Header, c.now())
			if wait <= 0 {
				wait = c.backoff(attempts)
			}
			if wait > c.opts.MaxBackoff {
				wait = c.opts.MaxBackoff
			}
			_ = drainAndClose(resp.Body)
			if !c.shouldRetry(attempts) {
				return nil, perr.TooManyRequestsf("%s: rate limited", op)
			}
			c.log.Warn().Str("op", op).Dur("sleep", wait).Msg("rate limited backing off")
			c.sleep(wait)
			attempts++
			continue
		case code == http.StatusInternalServerError, code == http.StatusBadGateway,
			code == http.StatusServiceUnavailable, code == http.StatusGatewayTimeout:
			tail := readTail(resp.Body)
			if !c.shouldRetry(attempts) {
				return nil, perr.Unavailablef("%s: status %d %s", op, code, tail)
			}
			back := c.backoff(attempts)
			c.log.Warn().Str("op", op).Int("status", code).Dur("retry_in", back).Int("attempt", attempts).Msg("server error retrying")
			c.sleep(back)
			attempts++
			continue
		default:
			return nil, statusError(op, code, readTail(resp.Body))
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase << uint(attempt)
	if d <= 0 || d > c.opts.MaxBackoff {
		d = c.opts.MaxBackoff
	}
	return d
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}

// statusError maps a non retryable status to a coded error
func statusError(op string, status int, body string) error {
	var code perr.ErrorCode
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		code = perr.ErrorCodeUnauthorized
	case http.StatusNotFound:
		code = perr.ErrorCodeNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = perr.ErrorCodeValidation
	case http.StatusConflict:
		code = perr.ErrorCodeConflict
	default:
		code = perr.ErrorCodeUnknown
	}
	return perr.Newf(code, "%s: status %d %s", op, status, body)
}

func readTail(rc io.ReadCloser) string {
	b, _ := io.ReadAll(io.LimitReader(rc, 512))
	_ = rc.Close()
	return strings.TrimSpace(string(b))
}
