package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotRegistered means the user has no stored API key. It is an
	// expected branch, not a failure: the bot answers with registration
	// guidance and performs no upstream call.
	ErrNotRegistered = errors.New("no api key registered")

	// ErrInputTooShort marks dialog input below the minimum length; the
	// dialog stays open and the user is re-prompted.
	ErrInputTooShort = errors.New("input below minimum length")

	ErrUpstreamFailure = errors.New("upstream call failed")
	ErrStorageFailure  = errors.New("credential storage failure")
)
