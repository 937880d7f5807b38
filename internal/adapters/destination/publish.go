package destination

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	perr "tubeport/internal/platform/errors"
)

// Comment is the publish payload for a comment or live chat message
type Comment struct {
	Comment        string  `json:"comment"`
	CreatedByID    string  `json:"created_by_id"`
	UserName       string  `json:"user_name"`
	ProfilePicture string  `json:"profile_picture"`
	PubnubChannel  string  `json:"pubnub_channel"`
	CommentedAt    float64 `json:"commented_at"`
	AssetID        string  `json:"asset_id"`
	ParentID       string  `json:"parent_id,omitempty"`
}

// Channel returns the realtime channel name for an asset
func Channel(assetID string) string { return "comments_" + assetID }

type publishReply struct {
	Comment struct {
		ID string `json:"id"`
	} `json:"comment"`
}

// Publish sends one comment and returns its remote id. Calls are paced by the client limiter
func (c *Client) Publish(ctx context.Context, tok Token, cm Comment) (string, error) {
	if tok.Empty() {
		return "", perr.Unauthorizedf("publish: no session")
	}
	if cm.PubnubChannel == "" {
		cm.PubnubChannel = Channel(cm.AssetID)
	}
	body, err := json.Marshal(cm)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeJSON, "publish: encode")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	resp, err := c.do(ctx, c.http, "publish", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.PublishURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: cookieJWT, Value: tok.JWT})
		return req, nil
	})
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := readBody(resp)
	if err != nil {
		return "", err
	}
	var r publishReply
	if err := json.Unmarshal(raw, &r); err != nil {
		// some deployments return the JSON document as a JSON string
		var s string
		if json.Unmarshal(raw, &s) != nil || json.Unmarshal([]byte(s), &r) != nil {
			return "", perr.Wrap(err, perr.ErrorCodeJSON, "publish: decode")
		}
	}
	if r.Comment.ID == "" {
		return "", perr.Newf(perr.ErrorCodeUnknown, "publish: no comment id in response")
	}
	return r.Comment.ID, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "read body")
	}
	return buf.Bytes(), nil
}
