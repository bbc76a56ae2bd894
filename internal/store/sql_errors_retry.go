// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// ErrorClassifier decides whether a failed statement may succeed on a
// second attempt. Coordination writes consult it before retrying, so a
// dropped connection or a deadlock rollback does not cost a sync tick.
type ErrorClassifier interface {
	Retryable(err error) bool
}

type postgresErrorClassifier struct{}

func newPostgresErrorClassifier() ErrorClassifier { return postgresErrorClassifier{} }

// Retryable implements [ErrorClassifier] for the pgx driver. Connection
// exceptions (class 08), transaction rollbacks (class 40) and "cannot
// connect now" (57P03) are transient; everything else — constraint
// violations, data exceptions, syntax errors — is permanent.
func (postgresErrorClassifier) Retryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure,
		pgerrcode.TransactionRollback,
		pgerrcode.SerializationFailure,
		pgerrcode.DeadlockDetected,
		pgerrcode.CannotConnectNow:
		return true
	}

	return false
}

type sqliteErrorClassifier struct{}

func newSQLiteErrorClassifier() ErrorClassifier { return sqliteErrorClassifier{} }

// Retryable implements [ErrorClassifier] for the sqlite3 driver. SQLITE_BUSY
// and SQLITE_LOCKED mean another connection holds the file; the write
// succeeds once it lets go.
func (sqliteErrorClassifier) Retryable(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}
