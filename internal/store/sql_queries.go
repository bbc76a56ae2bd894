// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

// Queries use $N placeholders and ON CONFLICT upserts, which both the pgx
// and the sqlite3 driver understand, so one set of statements serves the
// shared server deployment and the embedded client alike.
const (
	getCoordinationValue = `
		SELECT value
		FROM coordination_kv
		WHERE key = $1
		  AND (expires_at IS NULL OR expires_at > $2);`

	upsertCoordinationValue = `
		INSERT INTO coordination_kv (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value      = excluded.value,
			expires_at = excluded.expires_at;`

	// acquireLease inserts a fresh lease or takes over an expired one.
	// The conditional DO UPDATE leaves unexpired leases untouched, so a
	// zero rows-affected result means the lease is held by someone else.
	acquireLease = `
		INSERT INTO coordination_kv (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value      = excluded.value,
			expires_at = excluded.expires_at
		WHERE coordination_kv.expires_at IS NOT NULL
		  AND coordination_kv.expires_at <= $4;`

	releaseLease = `
		DELETE FROM coordination_kv
		WHERE key = $1 AND value = $2;`

	renameCoordinationKey = `
		UPDATE coordination_kv
		SET key = $1
		WHERE key = $2;`

	createPendingAuth = `
		INSERT INTO pending_authorizations (state, created_at)
		VALUES ($1, $2);`

	attachAuthCode = `
		UPDATE pending_authorizations
		SET code = $1
		WHERE state = $2 AND code IS NULL;`

	getPendingAuth = `
		SELECT state, code, created_at
		FROM pending_authorizations
		WHERE state = $1;`

	deletePendingAuth = `
		DELETE FROM pending_authorizations
		WHERE state = $1;`

	deleteExpiredPendingAuth = `
		DELETE FROM pending_authorizations
		WHERE created_at < $1;`
)
