package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-table-keeper/internal/config"
	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/mock"
	"github.com/MKhiriev/go-table-keeper/internal/service"
	"github.com/MKhiriev/go-table-keeper/internal/store"
	"github.com/MKhiriev/go-table-keeper/models"
)

// memCoordination is a minimal in-memory CoordinationRepository for handler
// tests. Expiry handling lives in the repository tests; here presence is
// all that matters.
type memCoordination struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemCoordination() *memCoordination {
	return &memCoordination{entries: make(map[string]string)}
}

func (m *memCoordination) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.entries[key]
	if !ok {
		return "", store.ErrKeyNotFound
	}
	return value, nil
}

func (m *memCoordination) Set(ctx context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memCoordination) SetWithTTL(ctx context.Context, key string, value string, ttl time.Duration) error {
	return m.Set(ctx, key, value)
}

func (m *memCoordination) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func (m *memCoordination) ListPrefix(ctx context.Context, prefix string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[string]string)
	for key, value := range m.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			result[key] = value
		}
	}
	return result, nil
}

func (m *memCoordination) Rename(ctx context.Context, pairs map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for oldKey, newKey := range pairs {
		if value, ok := m.entries[oldKey]; ok {
			m.entries[newKey] = value
			delete(m.entries, oldKey)
		}
	}
	return nil
}

func (m *memCoordination) AcquireLock(ctx context.Context, key string, owner string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.entries[key]; held {
		return store.ErrLockHeld
	}
	m.entries[key] = owner
	return nil
}

func (m *memCoordination) ReleaseLock(ctx context.Context, key string, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries[key] == owner {
		delete(m.entries, key)
	}
	return nil
}

// memPendingAuth is a minimal in-memory PendingAuthRepository.
type memPendingAuth struct {
	mu      sync.Mutex
	pending map[string]models.PendingAuthorization
}

func newMemPendingAuth() *memPendingAuth {
	return &memPendingAuth{pending: make(map[string]models.PendingAuthorization)}
}

func (m *memPendingAuth) Create(ctx context.Context, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[state] = models.PendingAuthorization{State: state, CreatedAt: time.Now().UTC()}
	return nil
}

func (m *memPendingAuth) Get(ctx context.Context, state string) (models.PendingAuthorization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pending, ok := m.pending[state]
	if !ok {
		return models.PendingAuthorization{}, store.ErrPendingAuthNotFound
	}
	return pending, nil
}

func (m *memPendingAuth) AttachCode(ctx context.Context, state string, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pending, ok := m.pending[state]
	if !ok || pending.Code != "" {
		return store.ErrPendingAuthNotFound
	}
	pending.Code = code
	m.pending[state] = pending
	return nil
}

func (m *memPendingAuth) Take(ctx context.Context, state string) (models.PendingAuthorization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pending, ok := m.pending[state]
	if !ok {
		return models.PendingAuthorization{}, store.ErrPendingAuthNotFound
	}
	delete(m.pending, state)
	return pending, nil
}

func (m *memPendingAuth) Delete(ctx context.Context, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, state)
	return nil
}

func (m *memPendingAuth) DeleteExpired(ctx context.Context, cutoff time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for state, pending := range m.pending {
		if pending.CreatedAt.Before(cutoff) {
			delete(m.pending, state)
		}
	}
	return nil
}

// testEnv is a fully wired handler over in-memory state and mocked
// provider clients.
type testEnv struct {
	router  *chi.Mux
	oauth   *mock.MockOAuthClient
	objects *mock.MockObjectStoreClient
	pending *memPendingAuth
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.Nop()

	snapshots, err := store.NewSnapshotFileStore(t.TempDir(), log)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	oauth := mock.NewMockOAuthClient(ctrl)
	objects := mock.NewMockObjectStoreClient(ctrl)
	coordination := newMemCoordination()
	pending := newMemPendingAuth()

	registry := service.NewRegistryService(snapshots, log)
	credentials := service.NewCredentialService(coordination, log)
	syncSvc := service.NewSyncService(coordination, registry, credentials, objects,
		config.Sync{Interval: time.Hour, LeaseTTL: 2 * time.Hour}, log)
	t.Cleanup(syncSvc.StopAll)

	services := &service.Services{
		Registry:     registry,
		Credentials:  credentials,
		DeviceAuth:   service.NewDeviceAuthService(oauth, credentials, log),
		LoopbackAuth: service.NewLoopbackAuthService(pending, oauth, credentials, 5*time.Minute, log),
		Sync:         syncSvc,
	}

	handler := NewHandler(services, log)

	return &testEnv{
		router:  handler.Init(),
		oauth:   oauth,
		objects: objects,
		pending: pending,
	}
}

// do executes one request against the router and returns the recorded
// response. A non-nil body is sent as JSON.
func (e *testEnv) do(t *testing.T, method string, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	request := httptest.NewRequest(method, target, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, request)

	return recorder
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()

	var decoded T
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&decoded))
	return decoded
}

func TestHandlerUnknownMethodHidden(t *testing.T) {
	env := newTestEnv(t)

	// PATCH is not registered for the auth status route; the router must
	// answer 404, not 405
	recorder := env.do(t, http.MethodPatch, "/api/auth/status", nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandlerTraceIDPropagated(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodGet, "/api/auth/status", nil)
	require.NotEmpty(t, recorder.Header().Get(traceIDHeader))

	request := httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	request.Header.Set(traceIDHeader, "trace-42")
	recorder = httptest.NewRecorder()
	env.router.ServeHTTP(recorder, request)
	require.Equal(t, "trace-42", recorder.Header().Get(traceIDHeader))
}
