package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-table-keeper/internal/service"
	"github.com/MKhiriev/go-table-keeper/internal/store"
	"github.com/MKhiriev/go-table-keeper/internal/validators"
)

var errorStatusMap = map[error]int{
	service.ErrDatabaseNotFound:       http.StatusNotFound,
	service.ErrInvalidName:            http.StatusBadRequest,
	service.ErrBadSnapshot:            http.StatusBadRequest,
	service.ErrDatabaseExists:         http.StatusConflict,
	service.ErrTableNotFound:          http.StatusNotFound,
	service.ErrTableExists:            http.StatusConflict,
	service.ErrSchemaMismatch:         http.StatusBadRequest,
	service.ErrLastDatabase:           http.StatusConflict,
	service.ErrAlreadyEnrolled:        http.StatusConflict,
	service.ErrNotEnrolled:            http.StatusNotFound,
	service.ErrNameConflict:           http.StatusConflict,
	service.ErrAuthenticationRequired: http.StatusUnauthorized,
	service.ErrAuthorizationDenied:    http.StatusForbidden,
	service.ErrAuthorizationExpired:   http.StatusGone,
	service.ErrInvalidCallbackState:   http.StatusBadRequest,

	validators.ErrUnsupportedType:     http.StatusBadRequest,
	validators.ErrDuplicateColumn:     http.StatusBadRequest,
	validators.ErrMissingColumn:       http.StatusBadRequest,
	validators.ErrUnexpectedColumns:   http.StatusBadRequest,
	validators.ErrInvalidInteger:      http.StatusBadRequest,
	validators.ErrInvalidReal:         http.StatusBadRequest,
	validators.ErrInvalidChar:         http.StatusBadRequest,
	validators.ErrInvalidString:       http.StatusBadRequest,
	validators.ErrInvalidDate:         http.StatusBadRequest,
	validators.ErrInvalidDateInterval: http.StatusBadRequest,
	validators.ErrIntervalOrder:       http.StatusBadRequest,

	store.ErrKeyNotFound:         http.StatusNotFound,
	store.ErrLockHeld:            http.StatusConflict,
	store.ErrPendingAuthNotFound: http.StatusNotFound,
	store.ErrSnapshotNotFound:    http.StatusNotFound,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
