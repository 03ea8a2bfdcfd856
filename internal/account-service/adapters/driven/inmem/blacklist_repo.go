package inmem

import (
	"context"
	"sync"
	"time"

	"ride-hail-accounts/internal/account-service/core/ports/driven"
)

// BlacklistRepo is the in-memory revocation ledger. Expiry is lazy on read
// plus an explicit PurgeExpired for the sweep.
type BlacklistRepo struct {
	mu      sync.RWMutex
	entries map[string]time.Time // token -> expires_at

	// Now is the clock; tests override it to exercise ledger amnesia.
	Now func() time.Time
}

func NewBlacklistRepo() *BlacklistRepo {
	return &BlacklistRepo{
		entries: make(map[string]time.Time),
		Now:     time.Now,
	}
}

var _ driven.IBlacklistRepo = (*BlacklistRepo)(nil)

func (r *BlacklistRepo) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Idempotent for a still-live entry: keep the original expiry. An
	// expired leftover must not mask a fresh revocation.
	expiresAt := r.Now().Add(ttl)
	if existing, exists := r.entries[token]; exists && existing.After(expiresAt) {
		return nil
	}
	r.entries[token] = expiresAt
	return nil
}

func (r *BlacklistRepo) IsRevoked(ctx context.Context, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	expiresAt, exists := r.entries[token]
	return exists && r.Now().Before(expiresAt), nil
}

func (r *BlacklistRepo) PurgeExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var purged int64
	now := r.Now()
	for token, expiresAt := range r.entries {
		if !now.Before(expiresAt) {
			delete(r.entries, token)
			purged++
		}
	}
	return purged, nil
}

// Len reports how many entries are on the ledger, expired ones included.
func (r *BlacklistRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
