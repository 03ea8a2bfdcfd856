package inmem

import (
	"context"
	"sync"
	"time"

	"ride-hail-accounts/internal/account-service/core/domain/models"
	"ride-hail-accounts/internal/account-service/core/ports/driven"

	"github.com/google/uuid"
)

// AccountRepo keeps accounts in process memory. Used by tests and local runs
// without Postgres.
type AccountRepo struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
	byEmail  map[string]string // kind+"|"+email -> id
}

func NewAccountRepo() *AccountRepo {
	return &AccountRepo{
		accounts: make(map[string]models.Account),
		byEmail:  make(map[string]string),
	}
}

var _ driven.IAccountRepo = (*AccountRepo)(nil)

func emailKey(kind, email string) string {
	return kind + "|" + email
}

func (r *AccountRepo) Create(ctx context.Context, acc models.Account) (models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[emailKey(acc.Kind, acc.Email)]; taken {
		return models.Account{}, driven.ErrEmailTaken
	}

	now := time.Now()
	acc.ID = uuid.NewString()
	acc.CreatedAt = now
	acc.UpdatedAt = now

	r.accounts[acc.ID] = acc
	r.byEmail[emailKey(acc.Kind, acc.Email)] = acc.ID
	return acc, nil
}

func (r *AccountRepo) GetByEmail(ctx context.Context, kind, email string) (models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[emailKey(kind, email)]
	if !ok {
		return models.Account{}, driven.ErrAccountNotFound
	}
	return r.accounts[id], nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[id]
	if !ok {
		return models.Account{}, driven.ErrAccountNotFound
	}
	return acc, nil
}

func (r *AccountRepo) SetDriverStatus(ctx context.Context, id, status string) error {
	return r.updateDriver(id, func(acc *models.Account) {
		acc.Status = &status
	})
}

func (r *AccountRepo) SetDriverLocation(ctx context.Context, id string, loc models.Location) error {
	return r.updateDriver(id, func(acc *models.Account) {
		acc.Location = &loc
	})
}

func (r *AccountRepo) SetDriverSocket(ctx context.Context, id string, socketID *string) error {
	return r.updateDriver(id, func(acc *models.Account) {
		acc.SocketID = socketID
	})
}

// Len reports how many accounts are stored.
func (r *AccountRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

func (r *AccountRepo) updateDriver(id string, apply func(*models.Account)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[id]
	if !ok || !acc.IsDriver() {
		return driven.ErrAccountNotFound
	}

	apply(&acc)
	acc.UpdatedAt = time.Now()
	r.accounts[id] = acc
	return nil
}
