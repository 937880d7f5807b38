package repo

import (
	"context"
	"fmt"
	"time"

	"tubeport/internal/platform/store"
	"tubeport/internal/services/ingest/domain"
)

// PublishedKeyPrefix namespaces publish ledger hashes, one per asset
const PublishedKeyPrefix = "tubeport:published:"

// DefaultPublishedTTL keeps a ledger long enough to resume a run days later
const DefaultPublishedTTL = 30 * 24 * time.Hour

// Published is the redis backed publish ledger: a hash of source key to remote comment id per asset
type Published struct {
	kv  store.KV
	ttl time.Duration
}

var _ domain.PublishLedger = (*Published)(nil)

// NewPublished wraps kv; ttl <= 0 keeps ledgers forever
func NewPublished(kv store.KV, ttl time.Duration) *Published {
	return &Published{kv: kv, ttl: ttl}
}

func publishedKey(asset string) string { return PublishedKeyPrefix + asset }

func (p *Published) Published(ctx context.Context, asset string) (map[string]string, error) {
	m, err := p.kv.HGetAll(ctx, publishedKey(asset))
	if err != nil {
		return nil, fmt.Errorf("publish ledger %s: %w", asset, err)
	}
	return m, nil
}

func (p *Published) Remember(ctx context.Context, asset, key, remoteID string) error {
	k := publishedKey(asset)
	if err := p.kv.HSet(ctx, k, map[string]string{key: remoteID}); err != nil {
		return fmt.Errorf("publish ledger %s: %w", asset, err)
	}
	if p.ttl > 0 {
		if err := p.kv.Expire(ctx, k, p.ttl); err != nil {
			return fmt.Errorf("publish ledger ttl %s: %w", asset, err)
		}
	}
	return nil
}
