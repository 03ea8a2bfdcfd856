package service

import (
	"regexp"

	"ride-hail-accounts/internal/account-service/core/domain/dto"
	"ride-hail-accounts/internal/account-service/core/domain/models"
)

const (
	MinFirstNameLen = 3
	MinLastNameLen  = 3
	MinPasswordLen  = 6
	MinPlateNoLen   = 3
	MinCapacity     = 1
)

var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

func validateRegistration(kind string, req dto.RegistrationRequest) ValidationErrors {
	var errs ValidationErrors

	if len(req.FullName.FirstName) < MinFirstNameLen {
		errs = append(errs, FieldError{
			Field:   "fullName.firstName",
			Message: "First name must be at least 3 characters long",
		})
	}
	if req.FullName.LastName != "" && len(req.FullName.LastName) < MinLastNameLen {
		errs = append(errs, FieldError{
			Field:   "fullName.lastName",
			Message: "Last name must be at least 3 characters long",
		})
	}

	errs = append(errs, validateCredentials(req.Email, req.Password)...)

	if kind == models.KindDriver && req.Vehicle != nil {
		errs = append(errs, validateVehicle(*req.Vehicle)...)
	}

	return errs
}

func validateLogin(req dto.LoginRequest) ValidationErrors {
	return validateCredentials(req.Email, req.Password)
}

func validateCredentials(email, password string) ValidationErrors {
	var errs ValidationErrors

	if !emailPattern.MatchString(email) {
		errs = append(errs, FieldError{
			Field:   "email",
			Message: "Please provide a valid email address",
		})
	}
	if len(password) < MinPasswordLen {
		errs = append(errs, FieldError{
			Field:   "password",
			Message: "Password must be at least 6 characters long",
		})
	}

	return errs
}

func validateVehicle(v dto.Vehicle) ValidationErrors {
	var errs ValidationErrors

	if v.Color == "" {
		errs = append(errs, FieldError{
			Field:   "vehicle.color",
			Message: "Vehicle color is required",
		})
	}
	if len(v.PlateNo) < MinPlateNoLen {
		errs = append(errs, FieldError{
			Field:   "vehicle.plateNo",
			Message: "Plate number must be at least 3 characters long",
		})
	}
	if v.Capacity < MinCapacity {
		errs = append(errs, FieldError{
			Field:   "vehicle.capacity",
			Message: "Capacity must be at least 1",
		})
	}
	if !models.VehicleTypes[v.VehicleType] {
		errs = append(errs, FieldError{
			Field:   "vehicle.vehicleType",
			Message: "Vehicle type must be one of auto, bike, activa, car",
		})
	}

	return errs
}
