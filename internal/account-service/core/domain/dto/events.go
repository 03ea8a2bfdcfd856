package dto

import (
	"time"

	"ride-hail-accounts/internal/account-service/core/domain/models"
)

// Messages published to the account_topic exchange.

type AccountRegisteredEvent struct {
	AccountID string    `json:"account_id"`
	Kind      string    `json:"kind"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type DriverStatusChangedEvent struct {
	DriverID string    `json:"driver_id"`
	Status   string    `json:"status"`
	At       time.Time `json:"at"`
}

type DriverLocationUpdatedEvent struct {
	DriverID string          `json:"driver_id"`
	Location models.Location `json:"location"`
	At       time.Time       `json:"at"`
}
