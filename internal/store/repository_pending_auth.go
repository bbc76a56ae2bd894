// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/models"
)

// pendingAuthRepository is the SQL-backed implementation of
// [PendingAuthRepository]. Each loopback authorization attempt is one row in
// "pending_authorizations", keyed by its opaque state value.
type pendingAuthRepository struct {
	logger *logger.Logger
	db     *DB
	now    func() time.Time
}

// NewPendingAuthRepository constructs a [PendingAuthRepository] backed by the
// provided database connection and logger.
func NewPendingAuthRepository(db *DB, logger *logger.Logger) PendingAuthRepository {
	logger.Debug().Msg("creating pending auth repository")
	return &pendingAuthRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Create registers a new pending authorization attempt for state.
func (r *pendingAuthRepository) Create(ctx context.Context, state string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, createPendingAuth, state, r.now().UTC()); err != nil {
		log.Err(err).Str("func", "*pendingAuthRepository.Create").Msg("error creating pending authorization")
		return errors.Join(ErrExecutingStatement, err)
	}

	return nil
}

// Get returns the pending authorization for state without consuming it.
func (r *pendingAuthRepository) Get(ctx context.Context, state string) (models.PendingAuthorization, error) {
	log := logger.FromContext(ctx)

	var pending models.PendingAuthorization
	var code sql.NullString
	row := r.db.QueryRowContext(ctx, getPendingAuth, state)
	if err := row.Scan(&pending.State, &code, &pending.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PendingAuthorization{}, ErrPendingAuthNotFound
		}
		log.Err(err).Str("func", "*pendingAuthRepository.Get").Msg("error: scanning error")
		return models.PendingAuthorization{}, errors.Join(ErrScanningRow, err)
	}
	pending.Code = code.String

	return pending, nil
}

// AttachCode records the authorization code delivered to the callback
// endpoint. The WHERE guard on an empty code column makes the attach
// single-shot: a second delivery for the same state is rejected.
func (r *pendingAuthRepository) AttachCode(ctx context.Context, state string, code string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, attachAuthCode, code, state)
	if err != nil {
		log.Err(err).Str("func", "*pendingAuthRepository.AttachCode").Msg("error attaching authorization code")
		return errors.Join(ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Join(ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrPendingAuthNotFound
	}

	return nil
}

// Take returns the pending authorization for state and removes it, so each
// state is consumable exactly once. Select and delete share one transaction.
func (r *pendingAuthRepository) Take(ctx context.Context, state string) (models.PendingAuthorization, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*pendingAuthRepository.Take").Msg("error beginning transaction")
		return models.PendingAuthorization{}, errors.Join(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var pending models.PendingAuthorization
	var code sql.NullString
	row := tx.QueryRowContext(ctx, getPendingAuth, state)
	if err = row.Scan(&pending.State, &code, &pending.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PendingAuthorization{}, ErrPendingAuthNotFound
		}
		log.Err(err).Str("func", "*pendingAuthRepository.Take").Msg("error: scanning error")
		return models.PendingAuthorization{}, errors.Join(ErrScanningRow, err)
	}
	pending.Code = code.String

	if _, err = tx.ExecContext(ctx, deletePendingAuth, state); err != nil {
		log.Err(err).Str("func", "*pendingAuthRepository.Take").Msg("error deleting pending authorization")
		return models.PendingAuthorization{}, errors.Join(ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*pendingAuthRepository.Take").Msg("error committing transaction")
		return models.PendingAuthorization{}, errors.Join(ErrCommitingTransaction, err)
	}

	return pending, nil
}

// Delete removes the pending authorization for state. A missing state is
// not an error.
func (r *pendingAuthRepository) Delete(ctx context.Context, state string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deletePendingAuth, state); err != nil {
		log.Err(err).Str("func", "*pendingAuthRepository.Delete").Msg("error deleting pending authorization")
		return errors.Join(ErrExecutingStatement, err)
	}

	return nil
}

// DeleteExpired removes attempts created before cutoff. Used to reap
// abandoned loopback flows after the authorization window closes.
func (r *pendingAuthRepository) DeleteExpired(ctx context.Context, cutoff time.Time) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteExpiredPendingAuth, cutoff.UTC()); err != nil {
		log.Err(err).Str("func", "*pendingAuthRepository.DeleteExpired").Msg("error deleting expired authorizations")
		return errors.Join(ErrExecutingStatement, err)
	}

	return nil
}
