// Package domain defines the types and ports of the ident service
package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// HID32 is the sha256 of a source identity token; the token itself is never stored
type HID32 [32]byte

// Author is a real participant as reported by the source platform
type Author struct {
	Token  string // stable opaque id, the channel id when the platform has one
	Name   string // display name
	Avatar string // profile image url
}

// Key returns the token used for pseudonym lookups, falling back to the display name
func (a Author) Key() string {
	if a.Token != "" {
		return a.Token
	}
	return a.Name
}

// Identity is the pseudonymous stand-in published in place of an Author
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"user_name"`
	Avatar string `json:"profile_picture"`
}

// IsZero reports whether no identity was assigned
func (i Identity) IsZero() bool { return i.UserID == "" }

// AnonymizerPort maps authors to identities; repeated calls for one author return the same identity
type AnonymizerPort interface {
	Anonymize(ctx context.Context, a Author) (Identity, error)
}

// Repo persists identities so re-runs reuse them
type Repo interface {
	// Get returns the identity stored for key, ok=false when none exists
	Get(ctx context.Context, key HID32) (Identity, bool, error)
	// Claim stores cand for key unless another writer got there first, and returns the stored identity
	Claim(ctx context.Context, key HID32, cand Identity) (Identity, error)
}

// KeyOf hashes a source identity token
func KeyOf(token string) HID32 {
	return sha256.Sum256([]byte("author:" + token))
}

// Hex returns the lowercase hex encoding of the HID32
func (h HID32) Hex() string { return hex.EncodeToString(h[:]) }

// Bytes returns the slice form of the HID32
func (h HID32) Bytes() []byte { return h[:] }
