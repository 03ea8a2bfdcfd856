package driven

import "errors"

// Sentinel errors every IAccountRepo implementation maps its store-specific
// failures onto.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already registered")
)
