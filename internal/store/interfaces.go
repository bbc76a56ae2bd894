package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-table-keeper/models"
)

// CoordinationRepository is a small expiring key-value store shared by every
// process that synchronizes databases. Sync enrollment tokens, lease locks
// and last-sync markers all live here under a common key namespace.
type CoordinationRepository interface {
	// Get returns the value stored under key. Expired entries are treated
	// as absent and reported via [ErrKeyNotFound].
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key without an expiry.
	Set(ctx context.Context, key string, value string) error
	// SetWithTTL stores value under key with an expiry of now+ttl.
	SetWithTTL(ctx context.Context, key string, value string, ttl time.Duration) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// ListPrefix returns all unexpired entries whose key starts with prefix.
	ListPrefix(ctx context.Context, prefix string) (map[string]string, error)
	// Rename re-keys entries atomically: every oldKey in pairs becomes its
	// new key in a single transaction. Missing old keys are skipped.
	Rename(ctx context.Context, pairs map[string]string) error

	// AcquireLock attempts to take the lease stored under key for owner.
	// Returns [ErrLockHeld] when another owner holds an unexpired lease.
	AcquireLock(ctx context.Context, key string, owner string, ttl time.Duration) error
	// ReleaseLock releases the lease under key if owner still holds it.
	ReleaseLock(ctx context.Context, key string, owner string) error
}

// PendingAuthRepository persists in-flight loopback authorization attempts
// keyed by their opaque state value.
type PendingAuthRepository interface {
	// Create registers a new pending authorization for state.
	Create(ctx context.Context, state string) error
	// Get returns the pending authorization for state without consuming it.
	Get(ctx context.Context, state string) (models.PendingAuthorization, error)
	// AttachCode records the authorization code delivered to the callback
	// endpoint. Returns [ErrPendingAuthNotFound] for unknown states and
	// for states that already carry a code.
	AttachCode(ctx context.Context, state string, code string) error
	// Take returns the pending authorization for state and consumes it.
	// A state can be taken at most once.
	Take(ctx context.Context, state string) (models.PendingAuthorization, error)
	// Delete removes the pending authorization for state.
	Delete(ctx context.Context, state string) error
	// DeleteExpired removes attempts created before cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time) error
}

// SnapshotStore persists one JSON snapshot file per database under a
// configured directory.
type SnapshotStore interface {
	Save(ctx context.Context, database *models.Database) error
	Load(ctx context.Context, name string) (*models.Database, error)
	LoadAll(ctx context.Context) ([]*models.Database, error)
	Rename(ctx context.Context, oldName string, newName string) error
	Delete(ctx context.Context, name string) error
}
