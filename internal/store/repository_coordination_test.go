package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MKhiriev/go-table-keeper/internal/logger"
)

func newTestCoordinationRepo(t *testing.T) (*coordinationRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &coordinationRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
		now:    func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
	return repo, mock, db
}

func TestCoordinationGet_Success(t *testing.T) {
	repo, mock, db := newTestCoordinationRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"value"}).AddRow("token-value")
	mock.ExpectQuery("SELECT value").
		WithArgs("sync:token:accounting", repo.now()).
		WillReturnRows(rows)

	value, err := repo.Get(context.Background(), "sync:token:accounting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "token-value" {
		t.Errorf("expected token-value, got %s", value)
	}
}

func TestCoordinationGet_NotFound(t *testing.T) {
	repo, mock, db := newTestCoordinationRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT value").
		WithArgs("sync:token:missing", repo.now()).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "sync:token:missing")
	if !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestCoordinationSet_Success(t *testing.T) {
	repo, mock, db := newTestCoordinationRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO coordination_kv").
		WithArgs("auth:access_token", "ya29.abc", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Set(context.Background(), "auth:access_token", "ya29.abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCoordinationSetWithTTL_Success(t *testing.T) {
	repo, mock, db := newTestCoordinationRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO coordination_kv").
		WithArgs("auth:access_token", "ya29.abc", repo.now().Add(time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetWithTTL(context.Background(), "auth:access_token", "ya29.abc", time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCoordinationDelete_MultipleKeys(t *testing.T) {
	repo, mock, db := newTestCoordinationRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM coordination_kv").
		WithArgs("auth:access_token", "auth:access_token_expiry").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.Delete(context.Background(), "auth:access_token", "auth:access_token_expiry")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCoordinationDelete_NoKeysIsNoop(t *testing.T) {
	repo, mock, db := newTestCoordinationRepo(t)
	defer db.Close()

	if err := repo.Delete(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database access: %v", err)
	}
}

func TestCoordinationListPrefix(t *testing.T) {
	repo, mock, db := newTestCoordinationRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("sync:token:accounting", "t1").
		AddRow("sync:token:inventory", "t2")

	mock.ExpectQuery("SELECT key, value FROM coordination_kv").
		WillReturnRows(rows)

	entries, err := repo.ListPrefix(context.Background(), "sync:token:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries["sync:token:inventory"] != "t2" {
		t.Errorf("expected t2, got %s", entries["sync:token:inventory"])
	}
}

func TestCoordinationRename_SingleTransaction(t *testing.T) {
	repo, mock, db := newTestCoordinationRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE coordination_kv").
		WithArgs("sync:token:renamed", "sync:token:old").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Rename(context.Background(), map[string]string{
		"sync:token:old": "sync:token:renamed",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCoordinationRename_RollsBackOnFailure(t *testing.T) {
	repo, mock, db := newTestCoordinationRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE coordination_kv").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Rename(context.Background(), map[string]string{
		"sync:token:old": "sync:token:renamed",
	})
	if !errors.Is(err, ErrExecutingStatement) {
		t.Fatalf("expected ErrExecutingStatement, got %v", err)
	}
}

func TestCoordinationAcquireLock_Acquired(t *testing.T) {
	repo, mock, db := newTestCoordinationRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO coordination_kv").
		WithArgs("sync:lock:accounting", "owner-1", repo.now().Add(10*time.Second), repo.now()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AcquireLock(context.Background(), "sync:lock:accounting", "owner-1", 10*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCoordinationAcquireLock_Held(t *testing.T) {
	repo, mock, db := newTestCoordinationRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO coordination_kv").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AcquireLock(context.Background(), "sync:lock:accounting", "owner-2", 10*time.Second)
	if !errors.Is(err, ErrLockHeld) {
		t.Fatalf("expected ErrLockHeld, got %v", err)
	}
}

func TestCoordinationReleaseLock(t *testing.T) {
	repo, mock, db := newTestCoordinationRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM coordination_kv").
		WithArgs("sync:lock:accounting", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ReleaseLock(context.Background(), "sync:lock:accounting", "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCoordinationSet_RetriesTransientFailure(t *testing.T) {
	repo, mock, db := newTestCoordinationRepo(t)
	defer db.Close()
	repo.db.classifier = newPostgresErrorClassifier()

	mock.ExpectExec("INSERT INTO coordination_kv").
		WithArgs("sync:last_sync:crm", "2026-03-01T12:00:00Z", nil).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.DeadlockDetected})
	mock.ExpectExec("INSERT INTO coordination_kv").
		WithArgs("sync:last_sync:crm", "2026-03-01T12:00:00Z", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Set(context.Background(), "sync:last_sync:crm", "2026-03-01T12:00:00Z"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expected a single retry: %v", err)
	}
}

func TestCoordinationSet_PermanentFailureNotRetried(t *testing.T) {
	repo, mock, db := newTestCoordinationRepo(t)
	defer db.Close()
	repo.db.classifier = newPostgresErrorClassifier()

	mock.ExpectExec("INSERT INTO coordination_kv").
		WithArgs("sync:token:crm", "token-value", nil).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	err := repo.Set(context.Background(), "sync:token:crm", "token-value")
	if !errors.Is(err, ErrExecutingStatement) {
		t.Fatalf("expected ErrExecutingStatement, got: %v", err)
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("permanent failure must not be retried: %v", err)
	}
}
