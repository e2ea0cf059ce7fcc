package service

import "errors"

var (
	ErrInvalidDataProvided   = errors.New("invalid data provided")
	ErrMissingCredentials    = errors.New("missing credentials")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailInUse            = errors.New("email is already in use")
	ErrDeletionFailed        = errors.New("account deletion failed")
	ErrInvalidImageReference = errors.New("invalid image reference")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
