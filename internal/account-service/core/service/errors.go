package service

import (
	"errors"
	"strings"
)

var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrTokenRejected covers every gate rejection: missing, revoked, forged,
	// expired and unknown-account tokens all collapse into it so the caller
	// cannot tell them apart. Internal logs keep the real cause.
	ErrTokenRejected = errors.New("invalid or expired token")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates every failed field rule instead of stopping
// at the first one.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return strings.Join(msgs, "; ")
}
