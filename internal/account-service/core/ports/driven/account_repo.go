package driven

import (
	"context"

	"ride-hail-accounts/internal/account-service/core/domain/models"
)

type IAccountRepo interface {
	// Create persists the account and returns it with the store-assigned id.
	// Uniqueness of (kind, email) is enforced by the store itself, closing
	// the race between the duplicate pre-check and the insert.
	Create(ctx context.Context, acc models.Account) (models.Account, error)
	GetByEmail(ctx context.Context, kind, email string) (models.Account, error)
	GetByID(ctx context.Context, id string) (models.Account, error)

	SetDriverStatus(ctx context.Context, id, status string) error
	SetDriverLocation(ctx context.Context, id string, loc models.Location) error
	// SetDriverSocket stores the realtime channel id; nil clears it.
	SetDriverSocket(ctx context.Context, id string, socketID *string) error
}
