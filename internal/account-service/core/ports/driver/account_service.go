package driver

import (
	"context"

	"ride-hail-accounts/internal/account-service/core/domain/dto"
	"ride-hail-accounts/internal/account-service/core/domain/models"
)

type IAccountService interface {
	// Register creates an account of the given kind and returns it together
	// with a freshly issued session token.
	Register(ctx context.Context, kind string, req dto.RegistrationRequest) (models.Account, string, error)
	Login(ctx context.Context, kind string, req dto.LoginRequest) (models.Account, string, error)
	// Logout blacklists the token. Safe to call repeatedly and with tokens
	// that are already invalid; an empty token is a no-op.
	Logout(ctx context.Context, token string) error
	// ResolveToken runs the authentication gate: blacklist check, signature
	// and expiry check, then account lookup.
	ResolveToken(ctx context.Context, token string) (models.Account, error)

	SetDriverStatus(ctx context.Context, driverID, status string) error
	SetDriverLocation(ctx context.Context, driverID string, loc models.Location) error
	SetDriverSocket(ctx context.Context, driverID string, socketID *string) error
}
