package dto

import "ride-hail-accounts/internal/account-service/core/domain/models"

type FullName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Vehicle struct {
	Color       string `json:"color"`
	PlateNo     string `json:"plateNo"`
	Capacity    int    `json:"capacity"`
	VehicleType string `json:"vehicleType"`
}

type RegistrationRequest struct {
	FullName FullName `json:"fullName"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	// Vehicle is required for drivers, ignored for riders.
	Vehicle *Vehicle `json:"vehicle,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Account models.Account `json:"account"`
	Token   string         `json:"token"`
}

type ProfileResponse struct {
	Account models.Account `json:"account"`
}
