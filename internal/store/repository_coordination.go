// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-table-keeper/internal/logger"

	sq "github.com/Masterminds/squirrel"
)

// coordinationRepository is the SQL-backed implementation of
// [CoordinationRepository]. All entries live in the "coordination_kv" table;
// expiry is enforced at read and acquire time against a caller-supplied
// clock instead of database-side time functions, so the same statements run
// unchanged on PostgreSQL and SQLite.
type coordinationRepository struct {
	logger *logger.Logger
	db     *DB
	now    func() time.Time
}

// NewCoordinationRepository constructs a [CoordinationRepository] backed by
// the provided database connection and logger.
func NewCoordinationRepository(db *DB, logger *logger.Logger) CoordinationRepository {
	logger.Debug().Msg("creating coordination repository")
	return &coordinationRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// coordinationRetryDelay spaces the single retry of a transiently failed
// coordination write.
const coordinationRetryDelay = 50 * time.Millisecond

// execOnceRetried runs exec and, when the driver reports a transient
// failure, attempts it one more time. Sync loops tolerate a lost write by
// waiting a full interval; the retry spares them that wait for failures
// that clear immediately, like a deadlock rollback or a busy SQLite file.
func (r *coordinationRepository) execOnceRetried(ctx context.Context, exec func() error) error {
	err := exec()
	if err == nil || !r.db.RetryableError(err) {
		return err
	}

	select {
	case <-ctx.Done():
		return err
	case <-time.After(coordinationRetryDelay):
	}

	return exec()
}

// Get returns the value stored under key. Rows whose expiry has passed are
// treated as absent.
func (r *coordinationRepository) Get(ctx context.Context, key string) (string, error) {
	log := logger.FromContext(ctx)

	var value string
	row := r.db.QueryRowContext(ctx, getCoordinationValue, key, r.now().UTC())
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrKeyNotFound
		}
		log.Err(err).Str("func", "*coordinationRepository.Get").Msg("error: scanning error")
		return "", errors.Join(ErrScanningRow, err)
	}

	return value, nil
}

// Set stores value under key without an expiry, replacing any previous entry.
func (r *coordinationRepository) Set(ctx context.Context, key string, value string) error {
	log := logger.FromContext(ctx)

	err := r.execOnceRetried(ctx, func() error {
		_, execErr := r.db.ExecContext(ctx, upsertCoordinationValue, key, value, nil)
		return execErr
	})
	if err != nil {
		log.Err(err).Str("func", "*coordinationRepository.Set").Msg("error upserting coordination value")
		return errors.Join(ErrExecutingStatement, err)
	}

	return nil
}

// SetWithTTL stores value under key with an expiry of now+ttl.
func (r *coordinationRepository) SetWithTTL(ctx context.Context, key string, value string, ttl time.Duration) error {
	log := logger.FromContext(ctx)

	expiresAt := r.now().UTC().Add(ttl)
	err := r.execOnceRetried(ctx, func() error {
		_, execErr := r.db.ExecContext(ctx, upsertCoordinationValue, key, value, expiresAt)
		return execErr
	})
	if err != nil {
		log.Err(err).Str("func", "*coordinationRepository.SetWithTTL").Msg("error upserting coordination value")
		return errors.Join(ErrExecutingStatement, err)
	}

	return nil
}

// Delete removes the given keys in a single statement. Missing keys are
// silently ignored.
func (r *coordinationRepository) Delete(ctx context.Context, keys ...string) error {
	log := logger.FromContext(ctx)

	if len(keys) == 0 {
		return nil
	}

	query, args, err := sq.Delete("coordination_kv").
		Where(sq.Eq{"key": keys}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*coordinationRepository.Delete").Msg("error building delete query")
		return errors.Join(ErrBuildingSQLQuery, err)
	}

	err = r.execOnceRetried(ctx, func() error {
		_, execErr := r.db.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).Str("func", "*coordinationRepository.Delete").Msg("error deleting coordination keys")
		return errors.Join(ErrExecutingStatement, err)
	}

	return nil
}

// ListPrefix returns every unexpired entry whose key starts with prefix.
func (r *coordinationRepository) ListPrefix(ctx context.Context, prefix string) (map[string]string, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("key", "value").
		From("coordination_kv").
		Where(sq.Like{"key": prefix + "%"}).
		Where(sq.Or{
			sq.Eq{"expires_at": nil},
			sq.Gt{"expires_at": r.now().UTC()},
		}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*coordinationRepository.ListPrefix").Msg("error building select query")
		return nil, errors.Join(ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*coordinationRepository.ListPrefix").Msg("error querying coordination keys")
		return nil, errors.Join(ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err = rows.Scan(&key, &value); err != nil {
			log.Err(err).Str("func", "*coordinationRepository.ListPrefix").Msg("error: scanning error")
			return nil, errors.Join(ErrScanningRows, err)
		}
		entries[key] = value
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Join(ErrScanningRows, err)
	}

	return entries, nil
}

// Rename re-keys every oldKey in pairs to its new key inside one
// transaction, so a crash can never leave a database half-migrated.
func (r *coordinationRepository) Rename(ctx context.Context, pairs map[string]string) error {
	log := logger.FromContext(ctx)

	if len(pairs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*coordinationRepository.Rename").Msg("error beginning transaction")
		return errors.Join(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for oldKey, newKey := range pairs {
		if _, err = tx.ExecContext(ctx, renameCoordinationKey, newKey, oldKey); err != nil {
			log.Err(err).Str("func", "*coordinationRepository.Rename").Msg("error renaming coordination key")
			return errors.Join(ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*coordinationRepository.Rename").Msg("error committing transaction")
		return errors.Join(ErrCommitingTransaction, err)
	}

	return nil
}

// AcquireLock takes the lease under key for owner. The insert-or-takeover
// statement only overwrites a lease whose expiry has already passed, so a
// zero rows-affected result means someone else still holds it.
func (r *coordinationRepository) AcquireLock(ctx context.Context, key string, owner string, ttl time.Duration) error {
	log := logger.FromContext(ctx)

	now := r.now().UTC()
	result, err := r.db.ExecContext(ctx, acquireLease, key, owner, now.Add(ttl), now)
	if err != nil {
		log.Err(err).Str("func", "*coordinationRepository.AcquireLock").Msg("error acquiring lease")
		return errors.Join(ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if affected == 0 {
		return ErrLockHeld
	}

	return nil
}

// ReleaseLock deletes the lease under key if owner still holds it. Releasing
// a lease that expired and was taken over by someone else is a no-op.
func (r *coordinationRepository) ReleaseLock(ctx context.Context, key string, owner string) error {
	log := logger.FromContext(ctx)

	err := r.execOnceRetried(ctx, func() error {
		_, execErr := r.db.ExecContext(ctx, releaseLease, key, owner)
		return execErr
	})
	if err != nil {
		log.Err(err).Str("func", "*coordinationRepository.ReleaseLock").Msg("error releasing lease")
		return errors.Join(ErrExecutingStatement, err)
	}

	return nil
}
