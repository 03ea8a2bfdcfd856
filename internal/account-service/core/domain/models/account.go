package models

import "time"

const (
	KindRider  = "rider"
	KindDriver = "driver"
)

const (
	StatusAvailable   = "available"
	StatusUnavailable = "unavailable"
	StatusOnTrip      = "on-trip"
)

// VehicleTypes lists the accepted vehicle_type values.
var VehicleTypes = map[string]bool{
	"auto":   true,
	"bike":   true,
	"activa": true,
	"car":    true,
}

type FullName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
}

type Vehicle struct {
	Color       string `json:"color"`
	PlateNo     string `json:"plateNo"`
	Capacity    int    `json:"capacity"`
	VehicleType string `json:"vehicleType"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Account is one registered rider or driver. The password hash never
// leaves the service, only a re-verification against it does.
type Account struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	FullName     FullName  `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Driver-only fields. Nil for riders.
	Vehicle  *Vehicle  `json:"vehicle,omitempty"`
	Status   *string   `json:"status,omitempty"`
	Location *Location `json:"location,omitempty"`
	SocketID *string   `json:"-"`
}

func (a *Account) IsDriver() bool {
	return a.Kind == KindDriver
}
