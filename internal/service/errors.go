package service

import "errors"

var (
	ErrDatabaseNotFound = errors.New("database not found")
	ErrInvalidName      = errors.New("invalid database name")
	ErrDatabaseExists   = errors.New("database already exists")
	ErrTableNotFound    = errors.New("table not found")
	ErrTableExists      = errors.New("table already exists")
	ErrSchemaMismatch   = errors.New("table schemas do not match")
	ErrBadSnapshot      = errors.New("malformed database snapshot")
	ErrLastDatabase     = errors.New("cannot delete the last remaining database")

	ErrAlreadyEnrolled = errors.New("database already enrolled for sync")
	ErrNotEnrolled     = errors.New("database not enrolled for sync")
	ErrNameConflict    = errors.New("target database name already in use")

	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAuthorizationDenied    = errors.New("authorization denied by user")
	ErrAuthorizationExpired   = errors.New("authorization request expired")
	ErrInvalidCallbackState   = errors.New("unknown or already used callback state")
)
