package service

import (
	"context"
	"testing"
	"time"

	"ride-hail-accounts/internal/account-service/adapters/driven/inmem"
	"ride-hail-accounts/internal/account-service/core/domain/dto"
	"ride-hail-accounts/internal/account-service/core/domain/models"
	"ride-hail-accounts/internal/config"
	"ride-hail-accounts/internal/mylogger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*AccountService, *inmem.AccountRepo, *inmem.BlacklistRepo) {
	t.Helper()

	cfg := &config.Config{
		App: &config.Appconfig{
			JwtSecret:    "test-secret",
			TokenTTL:     7 * 24 * time.Hour,
			BlacklistTTL: 24 * time.Hour,
		},
	}

	mylog, err := mylogger.New(mylogger.LevelError)
	require.NoError(t, err)

	repo := inmem.NewAccountRepo()
	ledger := inmem.NewBlacklistRepo()

	svc := NewAccountService(context.Background(), cfg, repo, ledger, nil, mylog)
	return svc, repo, ledger
}

func TestRegister_TokenResolvesToNewAccount(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	acc, token, err := svc.Register(ctx, models.KindRider, validRiderRequest())
	require.NoError(t, err)
	require.NotEmpty(t, acc.ID)
	require.NotEmpty(t, token)

	gotID, err := VerifyToken(token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, acc.ID, gotID)

	resolved, err := svc.ResolveToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, resolved.ID)
	assert.Equal(t, "a@x.com", resolved.Email)
}

func TestRegister_DriverStoresVehicle(t *testing.T) {
	svc, _, _ := newTestService(t)

	acc, _, err := svc.Register(context.Background(), models.KindDriver, validDriverRequest())
	require.NoError(t, err)
	require.NotNil(t, acc.Vehicle)
	assert.Equal(t, "car", acc.Vehicle.VehicleType)
	assert.Equal(t, 4, acc.Vehicle.Capacity)
}

func TestRegister_DriverWithoutVehicle(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, _, err := svc.Register(context.Background(), models.KindDriver, validRiderRequest())
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Equal(t, 0, repo.Len())
}

func TestRegister_ValidationAggregates(t *testing.T) {
	svc, repo, _ := newTestService(t)

	req := validRiderRequest()
	req.FullName.FirstName = "An"
	req.Email = "nope"

	_, _, err := svc.Register(context.Background(), models.KindRider, req)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
	assert.Equal(t, 0, repo.Len(), "validation must run before any store mutation")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, models.KindRider, validRiderRequest())
	require.NoError(t, err)

	req := validRiderRequest()
	req.FullName.FirstName = "Someone"
	_, _, err = svc.Register(ctx, models.KindRider, req)
	assert.ErrorIs(t, err, ErrEmailRegistered)
	assert.Equal(t, 1, repo.Len(), "duplicate registration must not mutate the store")
}

func TestRegister_SameEmailDifferentKind(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, models.KindRider, validRiderRequest())
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, models.KindDriver, validDriverRequest())
	require.NoError(t, err, "email uniqueness is per account kind")
	assert.Equal(t, 2, repo.Len())
}

func TestLogin(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()

	acc, _, err := svc.Register(ctx, models.KindRider, validRiderRequest())
	require.NoError(t, err)

	got, token, err := svc.Login(ctx, models.KindRider, dto.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)

	gotID, err := VerifyToken(token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, acc.ID, gotID)

	assert.Equal(t, 0, ledger.Len())
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, models.KindRider, validRiderRequest())
	require.NoError(t, err)

	_, token, err := svc.Login(ctx, models.KindRider, dto.LoginRequest{Email: "a@x.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, token)
	assert.Equal(t, 0, ledger.Len(), "failed login must not touch the ledger")
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), models.KindRider, dto.LoginRequest{Email: "b@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()

	_, token, err := svc.Register(ctx, models.KindRider, validRiderRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))

	revoked, err := ledger.IsRevoked(ctx, token)
	require.NoError(t, err)
	assert.True(t, revoked)

	// The token itself is still structurally valid; only the ledger kills it.
	_, err = VerifyToken(token, []byte("test-secret"))
	assert.NoError(t, err)

	_, err = svc.ResolveToken(ctx, token)
	assert.ErrorIs(t, err, ErrTokenRejected)
}

func TestLogout_Idempotent(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()

	_, token, err := svc.Register(ctx, models.KindRider, validRiderRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))
	require.NoError(t, svc.Logout(ctx, token))
	assert.Equal(t, 1, ledger.Len())

	// Logging out without a token is still a success.
	require.NoError(t, svc.Logout(ctx, ""))
	assert.Equal(t, 1, ledger.Len())
}

func TestLedgerAmnesia(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()

	acc, token, err := svc.Register(ctx, models.KindRider, validRiderRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))
	_, err = svc.ResolveToken(ctx, token)
	require.ErrorIs(t, err, ErrTokenRejected)

	// 25 hours later the ledger entry has expired while the token itself
	// still has most of its 7 days left; it authenticates again.
	ledger.Now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	resolved, err := svc.ResolveToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, resolved.ID)

	// Logging out again revokes it immediately despite the stale entry.
	require.NoError(t, svc.Logout(ctx, token))
	_, err = svc.ResolveToken(ctx, token)
	require.ErrorIs(t, err, ErrTokenRejected)
}

func TestSetDriverStatus(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	acc, _, err := svc.Register(ctx, models.KindDriver, validDriverRequest())
	require.NoError(t, err)

	require.NoError(t, svc.SetDriverStatus(ctx, acc.ID, models.StatusAvailable))

	got, err := repo.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Status)
	assert.Equal(t, models.StatusAvailable, *got.Status)

	var verrs ValidationErrors
	err = svc.SetDriverStatus(ctx, acc.ID, "parked")
	assert.ErrorAs(t, err, &verrs)
}

func TestSetDriverLocation(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	acc, _, err := svc.Register(ctx, models.KindDriver, validDriverRequest())
	require.NoError(t, err)

	require.NoError(t, svc.SetDriverLocation(ctx, acc.ID, models.Location{Lat: 43.238949, Lng: 76.889709}))

	got, err := repo.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Location)
	assert.InDelta(t, 43.238949, got.Location.Lat, 1e-9)
}
