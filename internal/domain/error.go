package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidExecContext = errors.New("invalid execution context")

	// Subscription / billing
	ErrMissingEmail     = errors.New("no user email on file")
	ErrConfiguration    = errors.New("configuration error")
	ErrBillingProvider  = errors.New("billing provider error")
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// Storage
	ErrPersistence = errors.New("persistence error")
)
