package util

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailRegistered = errors.New("email already registered")
	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidLogin    = errors.New("invalid email or password")
	ErrUserDisabled    = errors.New("user is disabled")
	ErrProfileNotFound = errors.New("learning profile not found")
	ErrInvalidProfile  = errors.New("invalid learning profile")
	ErrNoActivePath    = errors.New("no active learning path")
	ErrPathNotFound    = errors.New("learning path not found")
	ErrGoalNotFound    = errors.New("daily goal not found")
	ErrStorageDisabled = errors.New("storage backend not configured")
)
