package destination

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	perr "tubeport/internal/platform/errors"
)

const (
	cookieJWT     = "JWT"
	cookieRefresh = "JWT-refresh-token"
)

const loginMutation = `mutation LoginMutation($idToken: String!) {
  loginMutation(idToken: $idToken) {
    payload
  }
}`

// Credential is what the operator supplies to sign in
type Credential struct {
	Email    string
	Password string
}

// Token is the bearer credential for every later call
type Token struct {
	JWT     string
	Refresh string
}

// Empty reports whether no JWT is held
func (t Token) Empty() bool { return t.JWT == "" }

type signInReply struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
}

type loginReply struct {
	LoginMutation *struct {
		Payload      json.RawMessage `json:"payload"`
		Token        string          `json:"token"`
		RefreshToken string          `json:"refreshToken"`
	} `json:"loginMutation"`
}

// Authenticate exchanges email and password for a backend session.
// Any failure is an Unauthorized error
func (c *Client) Authenticate(ctx context.Context, cred Credential) (Token, error) {
	if strings.TrimSpace(cred.Email) == "" || cred.Password == "" {
		return Token{}, perr.Unauthorizedf("email and password are required")
	}
	if c.opts.APIKey == "" {
		return Token{}, perr.Unauthorizedf("identity api key is not configured")
	}
	idToken, err := c.signIn(ctx, cred)
	if err != nil {
		return Token{}, asAuth(err, "sign in")
	}
	tok, err := c.login(ctx, idToken)
	if err != nil {
		return Token{}, asAuth(err, "backend login")
	}
	c.log.Info().Msg("authenticated")
	return tok, nil
}

func (c *Client) signIn(ctx context.Context, cred Credential) (string, error) {
	body, err := json.Marshal(map[string]any{
		"email":             cred.Email,
		"password":          cred.Password,
		"returnSecureToken": true,
	})
	if err != nil {
		return "", err
	}
	target := c.opts.IdentityURL + "?key=" + url.QueryEscape(c.opts.APIKey)
	resp, err := c.do(ctx, c.http, "sign_in", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	var r signInReply
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeJSON, "sign in: decode")
	}
	if r.IDToken == "" {
		return "", perr.Unauthorizedf("sign in returned no id token")
	}
	return r.IDToken, nil
}

func (c *Client) login(ctx context.Context, idToken string) (Token, error) {
	var r loginReply
	resp, err := c.graphql(ctx, "login", "", loginMutation, map[string]any{"idToken": idToken}, &r)
	if err != nil {
		return Token{}, err
	}
	if r.LoginMutation == nil {
		return Token{}, perr.Unauthorizedf("backend login returned no data")
	}

	var tok Token
	for _, ck := range resp.Cookies() {
		switch ck.Name {
		case cookieJWT:
			tok.JWT = ck.Value
		case cookieRefresh:
			tok.Refresh = ck.Value
		}
	}
	// fall back to the mutation payload when cookies are absent
	if tok.JWT == "" || tok.Refresh == "" {
		var p struct {
			Token        string `json:"token"`
			RefreshToken string `json:"refreshToken"`
		}
		_ = json.Unmarshal(r.LoginMutation.Payload, &p)
		tok.JWT = firstNonEmpty(tok.JWT, r.LoginMutation.Token, p.Token)
		tok.Refresh = firstNonEmpty(tok.Refresh, r.LoginMutation.RefreshToken, p.RefreshToken)
	}
	if tok.JWT == "" || tok.Refresh == "" {
		return Token{}, perr.Unauthorizedf("backend login returned no session tokens")
	}
	return tok, nil
}

func asAuth(err error, what string) error {
	if perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		return err
	}
	return perr.Wrapf(err, perr.ErrorCodeUnauthorized, "%s failed", what)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
