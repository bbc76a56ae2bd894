package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-table-keeper/models"
)

func TestSyncLifecycle(t *testing.T) {
	env := newTestEnv(t)

	createDatabase(t, env, "crm")

	recorder := env.do(t, http.MethodGet, "/api/databases/crm/sync/status", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	status := decodeBody[models.SyncStatus](t, recorder)
	assert.False(t, status.Enrolled)

	recorder = env.do(t, http.MethodPost, "/api/databases/crm/sync/start", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.do(t, http.MethodGet, "/api/databases/crm/sync/status", nil)
	status = decodeBody[models.SyncStatus](t, recorder)
	assert.True(t, status.Enrolled)
	assert.Nil(t, status.LastSyncAt)

	recorder = env.do(t, http.MethodPost, "/api/databases/crm/sync/stop", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.do(t, http.MethodGet, "/api/databases/crm/sync/status", nil)
	status = decodeBody[models.SyncStatus](t, recorder)
	assert.False(t, status.Enrolled)
}

func TestSyncStartTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)

	createDatabase(t, env, "crm")

	recorder := env.do(t, http.MethodPost, "/api/databases/crm/sync/start", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.do(t, http.MethodPost, "/api/databases/crm/sync/start", nil)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestSyncStartUnknownDatabase(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodPost, "/api/databases/ghost/sync/start", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestSyncStopNotEnrolled(t *testing.T) {
	env := newTestEnv(t)

	createDatabase(t, env, "crm")

	recorder := env.do(t, http.MethodPost, "/api/databases/crm/sync/stop", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestRenameEnrolledDatabaseKeepsEnrollment(t *testing.T) {
	env := newTestEnv(t)

	createDatabase(t, env, "old")

	recorder := env.do(t, http.MethodPost, "/api/databases/old/sync/start", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.do(t, http.MethodPost, "/api/databases/old/rename/new", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.do(t, http.MethodGet, "/api/databases/new/sync/status", nil)
	status := decodeBody[models.SyncStatus](t, recorder)
	assert.True(t, status.Enrolled)

	recorder = env.do(t, http.MethodGet, "/api/databases/old/sync/status", nil)
	status = decodeBody[models.SyncStatus](t, recorder)
	assert.False(t, status.Enrolled)
}
