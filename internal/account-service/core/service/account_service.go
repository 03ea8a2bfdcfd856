package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ride-hail-accounts/internal/account-service/core/domain/dto"
	"ride-hail-accounts/internal/account-service/core/domain/models"
	"ride-hail-accounts/internal/account-service/core/ports/driven"
	"ride-hail-accounts/internal/account-service/core/ports/driver"
	"ride-hail-accounts/internal/config"
	"ride-hail-accounts/internal/mylogger"
)

type AccountService struct {
	ctx    context.Context
	cfg    *config.Config
	repo   driven.IAccountRepo
	ledger driven.IBlacklistRepo
	events driven.IEventPublisher
	mylog  mylogger.Logger
}

var _ driver.IAccountService = (*AccountService)(nil)

func NewAccountService(
	ctx context.Context,
	cfg *config.Config,
	repo driven.IAccountRepo,
	ledger driven.IBlacklistRepo,
	events driven.IEventPublisher,
	mylog mylogger.Logger,
) *AccountService {
	return &AccountService{
		ctx:    ctx,
		cfg:    cfg,
		repo:   repo,
		ledger: ledger,
		events: events,
		mylog:  mylog,
	}
}

// ======================= Register =======================
func (as *AccountService) Register(ctx context.Context, kind string, regReq dto.RegistrationRequest) (models.Account, string, error) {
	mylog := as.mylog.Action("Register").With("kind", kind)

	if kind == models.KindDriver && regReq.Vehicle == nil {
		mylog.Warn("Failed to register, vehicle is missing")
		return models.Account{}, "", ErrMissingFields
	}

	if errs := validateRegistration(kind, regReq); len(errs) > 0 {
		mylog.Warn("Failed to register, validation failed", "fields", len(errs))
		return models.Account{}, "", errs
	}

	// Pre-check before the expensive hash; the store enforces uniqueness
	// again atomically on insert.
	if _, err := as.repo.GetByEmail(ctx, kind, regReq.Email); err == nil {
		mylog.Warn("Failed to register, email already registered")
		return models.Account{}, "", ErrEmailRegistered
	} else if !errors.Is(err, driven.ErrAccountNotFound) {
		mylog.Error("Failed to check email in store", err)
		return models.Account{}, "", fmt.Errorf("cannot check email in store: %w", err)
	}

	hashedPassword, err := hashPassword(regReq.Password)
	if err != nil {
		mylog.Error("Failed to hash password", err)
		return models.Account{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	acc := models.Account{
		Kind: kind,
		FullName: models.FullName{
			FirstName: regReq.FullName.FirstName,
			LastName:  regReq.FullName.LastName,
		},
		Email:        regReq.Email,
		PasswordHash: hashedPassword,
	}
	if kind == models.KindDriver {
		acc.Vehicle = &models.Vehicle{
			Color:       regReq.Vehicle.Color,
			PlateNo:     regReq.Vehicle.PlateNo,
			Capacity:    regReq.Vehicle.Capacity,
			VehicleType: regReq.Vehicle.VehicleType,
		}
	}

	created, err := as.repo.Create(ctx, acc)
	if err != nil {
		if errors.Is(err, driven.ErrEmailTaken) {
			mylog.Warn("Failed to register, email already registered")
			return models.Account{}, "", ErrEmailRegistered
		}
		mylog.Error("Failed to save account in store", err)
		return models.Account{}, "", fmt.Errorf("cannot save account in store: %w", err)
	}

	tokenString, err := IssueToken(created.ID, []byte(as.cfg.App.JwtSecret), as.cfg.App.TokenTTL)
	if err != nil {
		mylog.Error("Failed to create session token", err)
		return models.Account{}, "", err
	}

	as.publish(kind+".registered", dto.AccountRegisteredEvent{
		AccountID: created.ID,
		Kind:      created.Kind,
		Email:     created.Email,
		CreatedAt: created.CreatedAt,
	})

	mylog.Info("Account registered successfully")
	return created, tokenString, nil
}

// ======================= Login =======================
func (as *AccountService) Login(ctx context.Context, kind string, authReq dto.LoginRequest) (models.Account, string, error) {
	mylog := as.mylog.Action("Login").With("kind", kind)

	if errs := validateLogin(authReq); len(errs) > 0 {
		mylog.Warn("Failed to login, validation failed", "fields", len(errs))
		return models.Account{}, "", errs
	}

	acc, err := as.repo.GetByEmail(ctx, kind, authReq.Email)
	if err != nil {
		if errors.Is(err, driven.ErrAccountNotFound) {
			mylog.Warn("Failed to login, unknown email")
			return models.Account{}, "", ErrInvalidCredentials
		}
		mylog.Error("Failed to look up account in store", err)
		return models.Account{}, "", fmt.Errorf("cannot look up account in store: %w", err)
	}

	// Compare password hashes
	if !checkPassword(acc.PasswordHash, authReq.Password) {
		mylog.Debug("Failed to login, wrong password")
		return models.Account{}, "", ErrInvalidCredentials
	}

	tokenString, err := IssueToken(acc.ID, []byte(as.cfg.App.JwtSecret), as.cfg.App.TokenTTL)
	if err != nil {
		mylog.Error("Failed to create session token", err)
		return models.Account{}, "", err
	}

	mylog.Info("Account login successfully")
	return acc, tokenString, nil
}

// ======================= Logout =======================
func (as *AccountService) Logout(ctx context.Context, token string) error {
	mylog := as.mylog.Action("Logout")

	// Logout only needs a token to blacklist. An absent token is still a
	// successful logout, and revoking twice is fine.
	if token == "" {
		return nil
	}

	if err := as.ledger.Revoke(ctx, token, as.cfg.App.BlacklistTTL); err != nil {
		mylog.Error("Failed to blacklist token", err)
		return fmt.Errorf("cannot blacklist token: %w", err)
	}

	mylog.Info("Token blacklisted")
	return nil
}

// ======================= ResolveToken =======================
// ResolveToken is the authentication gate core: blacklist first, signature
// and expiry second, account lookup last. All rejections come back as
// ErrTokenRejected; the specific cause stays in the logs.
func (as *AccountService) ResolveToken(ctx context.Context, token string) (models.Account, error) {
	mylog := as.mylog.Action("ResolveToken")

	revoked, err := as.ledger.IsRevoked(ctx, token)
	if err != nil {
		mylog.Error("Failed to check blacklist", err)
		return models.Account{}, fmt.Errorf("cannot check blacklist: %w", err)
	}
	if revoked {
		mylog.Debug("Rejected blacklisted token")
		return models.Account{}, ErrTokenRejected
	}

	accountID, err := VerifyToken(token, []byte(as.cfg.App.JwtSecret))
	if err != nil {
		mylog.Debug("Rejected token", "reason", err.Error())
		return models.Account{}, ErrTokenRejected
	}

	acc, err := as.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, driven.ErrAccountNotFound) {
			// Account deleted after the token was issued.
			mylog.Debug("Rejected token for unknown account")
			return models.Account{}, ErrTokenRejected
		}
		mylog.Error("Failed to look up account in store", err)
		return models.Account{}, fmt.Errorf("cannot look up account in store: %w", err)
	}

	return acc, nil
}

// ======================= Driver state =======================
func (as *AccountService) SetDriverStatus(ctx context.Context, driverID, status string) error {
	mylog := as.mylog.Action("SetDriverStatus")

	switch status {
	case models.StatusAvailable, models.StatusUnavailable, models.StatusOnTrip:
	default:
		return ValidationErrors{{Field: "status", Message: "Status must be one of available, unavailable, on-trip"}}
	}

	if err := as.repo.SetDriverStatus(ctx, driverID, status); err != nil {
		mylog.Error("Failed to update driver status", err)
		return fmt.Errorf("cannot update driver status: %w", err)
	}

	as.publish("driver.status_changed", dto.DriverStatusChangedEvent{
		DriverID: driverID,
		Status:   status,
		At:       time.Now(),
	})
	return nil
}

func (as *AccountService) SetDriverLocation(ctx context.Context, driverID string, loc models.Location) error {
	mylog := as.mylog.Action("SetDriverLocation")

	if err := as.repo.SetDriverLocation(ctx, driverID, loc); err != nil {
		mylog.Error("Failed to update driver location", err)
		return fmt.Errorf("cannot update driver location: %w", err)
	}

	as.publish("driver.location_updated", dto.DriverLocationUpdatedEvent{
		DriverID: driverID,
		Location: loc,
		At:       time.Now(),
	})
	return nil
}

func (as *AccountService) SetDriverSocket(ctx context.Context, driverID string, socketID *string) error {
	return as.repo.SetDriverSocket(ctx, driverID, socketID)
}

// publish is fire-and-forget; a dead broker must not fail the request.
func (as *AccountService) publish(routingKey string, msg any) {
	if as.events == nil {
		return
	}
	if err := as.events.Publish(routingKey, msg); err != nil {
		as.mylog.Action("publish").Warn("Failed to publish event", "routing_key", routingKey)
	}
}
