package db

import (
	"context"
	"fmt"
	"time"

	"ride-hail-accounts/internal/account-service/core/ports/driven"
)

// BlacklistRepo is the Postgres revocation ledger. Expiry is lazy: IsRevoked
// only counts unexpired rows, and PurgeExpired drops the rest when the
// background sweep runs.
type BlacklistRepo struct {
	db *DB
}

func NewBlacklistRepo(db *DB) *BlacklistRepo {
	return &BlacklistRepo{
		db: db,
	}
}

var _ driven.IBlacklistRepo = (*BlacklistRepo)(nil)

func (br *BlacklistRepo) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	// Re-revoking never shortens a live entry, but a stale row from an
	// earlier revocation must not mask a fresh one.
	q := `
		INSERT INTO token_blacklist (token, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token) DO UPDATE
		SET expires_at = GREATEST(token_blacklist.expires_at, EXCLUDED.expires_at)
	`
	if _, err := br.db.Pool().Exec(ctx, q, token, time.Now().Add(ttl)); err != nil {
		return fmt.Errorf("failed to insert blacklist entry: %w", err)
	}
	return nil
}

func (br *BlacklistRepo) IsRevoked(ctx context.Context, token string) (bool, error) {
	q := `SELECT EXISTS (SELECT 1 FROM token_blacklist WHERE token = $1 AND expires_at > now())`

	var revoked bool
	if err := br.db.Pool().QueryRow(ctx, q, token).Scan(&revoked); err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return revoked, nil
}

func (br *BlacklistRepo) PurgeExpired(ctx context.Context) (int64, error) {
	q := `DELETE FROM token_blacklist WHERE expires_at <= now()`

	ct, err := br.db.Pool().Exec(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("failed to purge blacklist: %w", err)
	}
	return ct.RowsAffected(), nil
}
