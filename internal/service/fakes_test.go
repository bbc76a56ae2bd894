package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-table-keeper/internal/store"
	"github.com/MKhiriev/go-table-keeper/models"
)

// fakeCoordination is an in-memory CoordinationRepository with full expiry
// semantics, driven by a controllable clock.
type fakeCoordination struct {
	mu      sync.Mutex
	entries map[string]fakeEntry
	clock   func() time.Time
}

type fakeEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func newFakeCoordination() *fakeCoordination {
	return &fakeCoordination{
		entries: make(map[string]fakeEntry),
		clock:   time.Now,
	}
}

func (f *fakeCoordination) live(entry fakeEntry) bool {
	return entry.expiresAt.IsZero() || entry.expiresAt.After(f.clock())
}

func (f *fakeCoordination) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[key]
	if !ok || !f.live(entry) {
		return "", store.ErrKeyNotFound
	}
	return entry.value, nil
}

func (f *fakeCoordination) Set(ctx context.Context, key string, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = fakeEntry{value: value}
	return nil
}

func (f *fakeCoordination) SetWithTTL(ctx context.Context, key string, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = fakeEntry{value: value, expiresAt: f.clock().Add(ttl)}
	return nil
}

func (f *fakeCoordination) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.entries, key)
	}
	return nil
}

func (f *fakeCoordination) ListPrefix(ctx context.Context, prefix string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make(map[string]string)
	for key, entry := range f.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix && f.live(entry) {
			result[key] = entry.value
		}
	}
	return result, nil
}

func (f *fakeCoordination) Rename(ctx context.Context, pairs map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for oldKey, newKey := range pairs {
		if entry, ok := f.entries[oldKey]; ok {
			f.entries[newKey] = entry
			delete(f.entries, oldKey)
		}
	}
	return nil
}

func (f *fakeCoordination) AcquireLock(ctx context.Context, key string, owner string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if entry, ok := f.entries[key]; ok && f.live(entry) {
		return store.ErrLockHeld
	}
	f.entries[key] = fakeEntry{value: owner, expiresAt: f.clock().Add(ttl)}
	return nil
}

func (f *fakeCoordination) ReleaseLock(ctx context.Context, key string, owner string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if entry, ok := f.entries[key]; ok && entry.value == owner {
		delete(f.entries, key)
	}
	return nil
}

// keys returns all live keys, for asserting on leftover state.
func (f *fakeCoordination) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var keys []string
	for key, entry := range f.entries {
		if f.live(entry) {
			keys = append(keys, key)
		}
	}
	return keys
}

// fakePendingAuth is an in-memory PendingAuthRepository.
type fakePendingAuth struct {
	mu      sync.Mutex
	pending map[string]models.PendingAuthorization
	clock   func() time.Time
}

func newFakePendingAuth() *fakePendingAuth {
	return &fakePendingAuth{
		pending: make(map[string]models.PendingAuthorization),
		clock:   time.Now,
	}
}

func (f *fakePendingAuth) Create(ctx context.Context, state string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[state] = models.PendingAuthorization{State: state, CreatedAt: f.clock().UTC()}
	return nil
}

func (f *fakePendingAuth) Get(ctx context.Context, state string) (models.PendingAuthorization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pending, ok := f.pending[state]
	if !ok {
		return models.PendingAuthorization{}, store.ErrPendingAuthNotFound
	}
	return pending, nil
}

func (f *fakePendingAuth) AttachCode(ctx context.Context, state string, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	pending, ok := f.pending[state]
	if !ok || pending.Code != "" {
		return store.ErrPendingAuthNotFound
	}
	pending.Code = code
	f.pending[state] = pending
	return nil
}

func (f *fakePendingAuth) Take(ctx context.Context, state string) (models.PendingAuthorization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pending, ok := f.pending[state]
	if !ok {
		return models.PendingAuthorization{}, store.ErrPendingAuthNotFound
	}
	delete(f.pending, state)
	return pending, nil
}

func (f *fakePendingAuth) Delete(ctx context.Context, state string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, state)
	return nil
}

func (f *fakePendingAuth) DeleteExpired(ctx context.Context, cutoff time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for state, pending := range f.pending {
		if pending.CreatedAt.Before(cutoff) {
			delete(f.pending, state)
		}
	}
	return nil
}
