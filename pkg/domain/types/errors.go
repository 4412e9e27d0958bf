package types

import "errors"

var (
	// ErrInvalidConfig indicates the run configuration can not be used
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrTagNotResolved indicates no release tag was given and none could be looked up
	ErrTagNotResolved = errors.New("release tag could not be resolved")

	// ErrReleaseNotFound indicates the requested release does not exist
	ErrReleaseNotFound = errors.New("release not found")

	// ErrReadOnlyGateway is returned by gateways that can not modify releases
	ErrReadOnlyGateway = errors.New("release gateway is read-only")
)
