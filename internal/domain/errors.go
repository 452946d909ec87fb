package domain

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrInsufficientTickets = errors.New("not enough tickets available")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrUserIDRequired      = errors.New("userId is required")
	ErrEventIDRequired     = errors.New("eventId is required")
	ErrOrderNotFound       = errors.New("order not found")
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrCredentialsRequired = errors.New("userId and password are required")
	ErrInvalidCredentials  = errors.New("invalid userId or password")
	ErrUnauthorized        = errors.New("unauthorized")
)
