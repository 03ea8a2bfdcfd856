package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ride-hail-accounts/internal/account-service/core/domain/models"
	"ride-hail-accounts/internal/account-service/core/ports/driven"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

type AccountRepo struct {
	db *DB
}

func NewAccountRepo(db *DB) *AccountRepo {
	return &AccountRepo{
		db: db,
	}
}

var _ driven.IAccountRepo = (*AccountRepo)(nil)

func (ar *AccountRepo) Create(ctx context.Context, acc models.Account) (models.Account, error) {
	var vehicle []byte
	if acc.Vehicle != nil {
		var err error
		vehicle, err = json.Marshal(acc.Vehicle)
		if err != nil {
			return models.Account{}, fmt.Errorf("marshal vehicle: %w", err)
		}
	}

	q := `
		INSERT INTO accounts (kind, first_name, last_name, email, password_hash, vehicle)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
		RETURNING account_id, created_at, updated_at
	`

	err := ar.db.Pool().QueryRow(ctx, q,
		acc.Kind,
		acc.FullName.FirstName,
		acc.FullName.LastName,
		acc.Email,
		acc.PasswordHash,
		vehicle,
	).Scan(&acc.ID, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return models.Account{}, driven.ErrEmailTaken
		}
		return models.Account{}, fmt.Errorf("failed to insert account: %w", err)
	}

	return acc, nil
}

func (ar *AccountRepo) GetByEmail(ctx context.Context, kind, email string) (models.Account, error) {
	q := selectAccount + ` WHERE a.kind = $1 AND a.email = $2`
	return ar.scanAccount(ar.db.Pool().QueryRow(ctx, q, kind, email))
}

func (ar *AccountRepo) GetByID(ctx context.Context, id string) (models.Account, error) {
	q := selectAccount + ` WHERE a.account_id = $1`
	return ar.scanAccount(ar.db.Pool().QueryRow(ctx, q, id))
}

func (ar *AccountRepo) SetDriverStatus(ctx context.Context, id, status string) error {
	q := `UPDATE accounts SET status = $2, updated_at = now() WHERE account_id = $1 AND kind = 'driver'`
	ct, err := ar.db.Pool().Exec(ctx, q, id, status)
	if err != nil {
		return fmt.Errorf("failed to update driver status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return driven.ErrAccountNotFound
	}
	return nil
}

func (ar *AccountRepo) SetDriverLocation(ctx context.Context, id string, loc models.Location) error {
	q := `UPDATE accounts SET lat = $2, lng = $3, updated_at = now() WHERE account_id = $1 AND kind = 'driver'`
	ct, err := ar.db.Pool().Exec(ctx, q, id, loc.Lat, loc.Lng)
	if err != nil {
		return fmt.Errorf("failed to update driver location: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return driven.ErrAccountNotFound
	}
	return nil
}

func (ar *AccountRepo) SetDriverSocket(ctx context.Context, id string, socketID *string) error {
	q := `UPDATE accounts SET socket_id = $2, updated_at = now() WHERE account_id = $1 AND kind = 'driver'`
	ct, err := ar.db.Pool().Exec(ctx, q, id, socketID)
	if err != nil {
		return fmt.Errorf("failed to update driver socket: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return driven.ErrAccountNotFound
	}
	return nil
}

const selectAccount = `
	SELECT
		a.account_id,
		a.kind,
		a.first_name,
		a.last_name,
		a.email,
		a.password_hash,
		a.vehicle,
		a.status,
		a.lat,
		a.lng,
		a.socket_id,
		a.created_at,
		a.updated_at
	FROM
		accounts a
`

func (ar *AccountRepo) scanAccount(row pgx.Row) (models.Account, error) {
	var acc models.Account
	var lastName *string
	var vehicle []byte
	var lat, lng *float64

	err := row.Scan(
		&acc.ID,
		&acc.Kind,
		&acc.FullName.FirstName,
		&lastName,
		&acc.Email,
		&acc.PasswordHash,
		&vehicle,
		&acc.Status,
		&lat,
		&lng,
		&acc.SocketID,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, driven.ErrAccountNotFound
		}
		return models.Account{}, fmt.Errorf("failed to scan account: %w", err)
	}

	if lastName != nil {
		acc.FullName.LastName = *lastName
	}
	if vehicle != nil {
		acc.Vehicle = &models.Vehicle{}
		if err := json.Unmarshal(vehicle, acc.Vehicle); err != nil {
			return models.Account{}, fmt.Errorf("unmarshal vehicle: %w", err)
		}
	}
	if lat != nil && lng != nil {
		acc.Location = &models.Location{Lat: *lat, Lng: *lng}
	}

	return acc, nil
}
