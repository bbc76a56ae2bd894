package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid after merging all sources.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty coordination database DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates invalid HTTP server settings
	// (for example, missing listen address or non-positive timeout).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidSyncConfigs indicates invalid sync loop settings
	// (non-positive interval, or a lease TTL shorter than the interval).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// required by the client shell (for example, missing token file path).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
)
