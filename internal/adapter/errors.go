package adapter

import "errors"

var (
	// ErrRateLimited is returned when the provider answers 429; callers may
	// serve a cached snapshot instead of failing the request.
	ErrRateLimited = errors.New("market provider rate limit exceeded")

	// ErrProviderUnavailable is returned for any other non-2xx provider
	// response or transport-level failure.
	ErrProviderUnavailable = errors.New("market provider unavailable")
)
