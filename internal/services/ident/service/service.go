// Package service implements the run scoped anonymizer
package service

import (
	"context"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"tubeport/internal/modkit/repokit"
	perr "tubeport/internal/platform/errors"
	"tubeport/internal/platform/logger"
	"tubeport/internal/services/ident/domain"

	"github.com/google/uuid"
)

// Config holds anonymizer settings
type Config struct {
	AvatarBase  string // e.g. https://api.dicebear.com/7.x/personas/svg
	AvatarQuery string // extra query appended after the seed
	MaxSuffix   int    // names end in _1.._MaxSuffix
	Seed        uint64 // 0 means random
}

// minLeak is the shortest real name fragment checked against generated output
const minLeak = 3

// maxDraws bounds name redraws when a draw happens to contain the real name
const maxDraws = 32

// Anonymizer owns the token to identity mapping of one run.
// It is safe for concurrent use, though the pipeline calls it from one goroutine
type Anonymizer struct {
	cfg Config

	// optional persistence; nil db keeps the mapping in memory only
	db     repokit.TxRunner
	binder repokit.Binder[domain.Repo]

	mu      sync.Mutex
	byToken map[string]domain.Identity
	used    map[string]struct{} // user ids handed out this run
	rng     *rand.Rand
	newID   func() string
}

var _ domain.AnonymizerPort = (*Anonymizer)(nil)

// New builds an in-memory anonymizer
func New(cfg Config) *Anonymizer {
	if cfg.AvatarBase == "" {
		cfg.AvatarBase = "https://api.dicebear.com/7.x/personas/svg"
	}
	if cfg.MaxSuffix <= 0 {
		cfg.MaxSuffix = 999
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Anonymizer{
		cfg:     cfg,
		byToken: make(map[string]domain.Identity),
		used:    make(map[string]struct{}),
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		newID:   func() string { return uuid.NewString() },
	}
}

// WithStore persists identities through binder so later runs reuse them
func (a *Anonymizer) WithStore(db repokit.TxRunner, binder repokit.Binder[domain.Repo]) *Anonymizer {
	if db == nil || binder == nil {
		return a
	}
	a.db, a.binder = db, binder
	return a
}

// Anonymize returns the identity for author, minting one on first sight
func (a *Anonymizer) Anonymize(ctx context.Context, au domain.Author) (domain.Identity, error) {
	token := au.Key()
	if strings.TrimSpace(token) == "" {
		return domain.Identity{}, perr.Validationf("anonymize: empty author token")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if id, ok := a.byToken[token]; ok {
		return id, nil
	}

	if a.db != nil {
		id, err := a.persisted(ctx, au)
		if err != nil {
			// store errors fall back to a run local identity
			logger.C(ctx).Warn().Err(err).Msg("pseudonym store unavailable, using run local identity")
		} else {
			a.remember(token, id)
			return id, nil
		}
	}

	id := a.mint(au)
	a.remember(token, id)
	return id, nil
}

// Len returns how many authors were anonymized this run
func (a *Anonymizer) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.byToken)
}

func (a *Anonymizer) remember(token string, id domain.Identity) {
	a.byToken[token] = id
	a.used[id.UserID] = struct{}{}
}

// persisted loads or claims the stored identity for au.
// A stored identity that is empty or whose user id another token already holds
// this run is replaced
func (a *Anonymizer) persisted(ctx context.Context, au domain.Author) (domain.Identity, error) {
	key := domain.KeyOf(au.Key())
	var out domain.Identity
	err := a.db.Tx(ctx, func(q repokit.Queryer) error {
		r := a.binder.Bind(q)
		id, ok, err := r.Get(ctx, key)
		if err != nil {
			return err
		}
		if ok {
			out = id
			return nil
		}
		out, err = r.Claim(ctx, key, a.mint(au))
		return err
	})
	if err != nil {
		return domain.Identity{}, err
	}
	if _, dup := a.used[out.UserID]; dup || out.IsZero() || leaks(out, au) {
		return a.mint(au), nil
	}
	return out, nil
}

// mint draws a fresh identity that shares no text with au and an unused user id
func (a *Anonymizer) mint(au domain.Author) domain.Identity {
	uid := a.newID()
	for {
		if _, dup := a.used[uid]; !dup {
			break
		}
		uid = a.newID()
	}
	id := domain.Identity{UserID: uid, Avatar: a.avatarURL(uid)}
	for i := 0; i < maxDraws; i++ {
		id.Name = a.drawName()
		if !leaks(id, au) {
			return id
		}
	}
	id.Name = "User_" + strconv.Itoa(1+a.rng.IntN(a.cfg.MaxSuffix))
	return id
}

func (a *Anonymizer) drawName() string {
	return labels[a.rng.IntN(len(labels))] + "_" + strconv.Itoa(1+a.rng.IntN(a.cfg.MaxSuffix))
}

// avatarURL derives the avatar from the user id only
func (a *Anonymizer) avatarURL(uid string) string {
	u := a.cfg.AvatarBase + "?seed=" + url.QueryEscape(uid)
	if a.cfg.AvatarQuery != "" {
		u += "&" + a.cfg.AvatarQuery
	}
	return u
}

// leaks reports whether any real field of au shows up in id
func leaks(id domain.Identity, au domain.Author) bool {
	fields := strings.ToLower(id.Name + "\x00" + id.Avatar)
	for _, real := range []string{au.Token, au.Name, au.Avatar} {
		real = strings.ToLower(strings.TrimSpace(real))
		if len(real) >= minLeak && strings.Contains(fields, real) {
			return true
		}
	}
	return false
}
