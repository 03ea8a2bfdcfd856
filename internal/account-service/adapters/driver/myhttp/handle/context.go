package handle

import (
	"context"

	"ride-hail-accounts/internal/account-service/core/domain/models"
)

type contextKey struct{}

var accountKey = contextKey{}

// ContextWithAccount attaches the gate-resolved account to the request context.
func ContextWithAccount(ctx context.Context, acc models.Account) context.Context {
	return context.WithValue(ctx, accountKey, acc)
}

// AccountFromContext returns the account the gate attached to the request.
func AccountFromContext(ctx context.Context) (models.Account, bool) {
	acc, ok := ctx.Value(accountKey).(models.Account)
	return acc, ok
}
