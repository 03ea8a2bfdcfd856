package driven

import (
	"context"
	"time"
)

// IBlacklistRepo is the token revocation ledger. A token present on the
// ledger is rejected regardless of its own validity, for ttl after the
// insert. Entries self-expire: once past ttl they must never again answer
// IsRevoked = true.
type IBlacklistRepo interface {
	// Revoke is idempotent; revoking an already-revoked token is not an error.
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	// PurgeExpired removes entries past their ttl and reports how many.
	PurgeExpired(ctx context.Context) (int64, error)
}
