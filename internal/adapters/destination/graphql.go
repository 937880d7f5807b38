package destination

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	perr "tubeport/internal/platform/errors"
)

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// graphql posts one operation and decodes data into out. jwt may be empty.
// The raw response is returned for callers that need its cookies
func (c *Client) graphql(ctx context.Context, op, jwt, query string, vars map[string]any, out any) (*http.Response, error) {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "%s: encode", op)
	}
	resp, err := c.do(ctx, c.http, op, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL(), bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if jwt != "" {
			req.AddCookie(&http.Cookie{Name: cookieJWT, Value: jwt})
		}
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var gr gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "%s: decode", op)
	}
	if len(gr.Errors) > 0 {
		msg := gr.Errors[0].Message
		if msg == "" {
			msg = "unknown error"
		}
		return nil, perr.Newf(perr.ErrorCodeValidation, "%s: %s", op, msg)
	}
	if out != nil && len(gr.Data) > 0 {
		if err := json.Unmarshal(gr.Data, out); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "%s: decode data", op)
		}
	}
	return resp, nil
}
