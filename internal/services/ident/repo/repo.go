// Package repo provides Postgres bindings for domain.Repo
package repo

import (
	"context"
	"errors"
	"fmt"

	"tubeport/internal/modkit/repokit"
	"tubeport/internal/platform/store"
	"tubeport/internal/services/ident/domain"
)

// Schema creates the pseudonym table. Only the token hash is stored
const Schema = `
CREATE TABLE IF NOT EXISTS ident_pseudonyms (
	token_hash  bytea PRIMARY KEY CHECK (octet_length(token_hash) = 32),
	user_id     uuid NOT NULL UNIQUE,
	user_name   text NOT NULL,
	avatar_url  text NOT NULL,
	created_at  timestamptz NOT NULL DEFAULT now()
);
`

type (
	// PG is a Postgres binder for domain.Repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

var _ domain.Repo = (*queries)(nil)

// NewPG returns a Postgres binder for Repo
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

// EnsureSchema applies Schema
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	if _, err := q.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ident schema: %w", err)
	}
	return nil
}

func scanIdentity(r store.Row) (domain.Identity, error) {
	var id domain.Identity
	err := r.Scan(&id.UserID, &id.Name, &id.Avatar)
	return id, err
}

func (r *queries) Get(ctx context.Context, key domain.HID32) (domain.Identity, bool, error) {
	id, err := scanIdentity(r.q.QueryRow(ctx, `
		SELECT user_id::text, user_name, avatar_url
		FROM ident_pseudonyms WHERE token_hash = $1`, key.Bytes()))
	if errors.Is(err, store.ErrNoRows) {
		return domain.Identity{}, false, nil
	}
	if err != nil {
		return domain.Identity{}, false, fmt.Errorf("ident get: %w", err)
	}
	return id, true, nil
}

// Claim inserts cand; on a concurrent insert for the same key the stored row wins
func (r *queries) Claim(ctx context.Context, key domain.HID32, cand domain.Identity) (domain.Identity, error) {
	if _, err := r.q.Exec(ctx, `
		INSERT INTO ident_pseudonyms (token_hash, user_id, user_name, avatar_url)
		VALUES ($1, $2::uuid, $3, $4)
		ON CONFLICT (token_hash) DO NOTHING`,
		key.Bytes(), cand.UserID, cand.Name, cand.Avatar,
	); err != nil {
		return domain.Identity{}, fmt.Errorf("ident claim: %w", err)
	}
	id, ok, err := r.Get(ctx, key)
	if err != nil {
		return domain.Identity{}, err
	}
	if !ok {
		return domain.Identity{}, fmt.Errorf("ident claim: row for %s vanished", key.Hex())
	}
	return id, nil
}
