package service

import (
	"context"

	perr "tubeport/internal/platform/errors"
	"tubeport/internal/services/ingest/domain"
)

// session carries the bearer token for a run. The token is replaced only by a re-authentication
type session struct {
	tok  domain.BearerToken
	cred domain.Credential
	// lost is set when a re-authentication failed; the run stops after the current entry
	lost error
}

// withAuth runs call with the current token. An Unauthorized failure triggers one
// re-authentication and one retry of the same call
func (s *Service) withAuth(ctx context.Context, sess *session, call func(domain.BearerToken) error) error {
	err := call(sess.tok)
	if err == nil || !perr.IsCode(err, perr.ErrorCodeUnauthorized) || sess.lost != nil {
		return err
	}
	lg(ctx).Warn().Err(err).Msg("token rejected, re-authenticating")
	tok, aerr := s.p.Auth.Authenticate(ctx, sess.cred)
	if aerr != nil {
		sess.lost = perr.Wrap(aerr, perr.ErrorCodeUnauthorized, "re-authentication failed")
		return sess.lost
	}
	sess.tok = tok
	return call(sess.tok)
}
