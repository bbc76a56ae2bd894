package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")

	// ErrObjectNotFound is returned when the remote object store holds no
	// object with the requested name or identifier.
	ErrObjectNotFound = errors.New("remote object not found")
)

// Provider authorization grant outcomes signalled by the token endpoint
// while a device or loopback flow is still in progress or has failed.
var (
	ErrAuthorizationPending = errors.New("authorization pending")
	ErrSlowDown             = errors.New("polling too fast")
	ErrAccessDenied         = errors.New("access denied by user")
	ErrTokenExpired         = errors.New("authorization request expired")
)
