package service

import "errors"

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoToken            = errors.New("no session token")
	ErrInvalidToken       = errors.New("invalid or expired session token")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("admin role required")
	ErrNotOwner           = errors.New("resource belongs to another user")
	ErrInvalidInput       = errors.New("invalid input")
	ErrHashingFailed      = errors.New("failed to hash password")
	ErrTokenGeneration    = errors.New("failed to generate session token")
	ErrUpstream           = errors.New("plan generation service failed")
	ErrUpstreamFormat     = errors.New("plan generation returned no usable JSON object")
	ErrStorageDisabled    = errors.New("profile image storage is not configured")
)
