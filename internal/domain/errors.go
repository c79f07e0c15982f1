package domain

import "errors"

// Auth errors
var (
	ErrUnauthenticated    = errors.New("unauthorized, please log in")
	ErrInvalidCredentials = errors.New("password is invalid")
	ErrEmailExists        = errors.New("user already exists")
)

// Lookup and validation errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrValidation       = errors.New("invalid data")
	ErrMalformedPayload = errors.New("invalid json format, send valid body data")
)
