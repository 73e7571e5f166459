package models

import "errors"

// Domain specific errors for the reward engine.
var (
	ErrInvalidCoordinate  = errors.New("coordinate outside valid range")
	ErrScoringUnavailable = errors.New("reward scoring source unavailable")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)
