package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/models"
)

func newTestCredentials(coordination *fakeCoordination, now time.Time) *credentialService {
	svc := NewCredentialService(coordination, logger.Nop()).(*credentialService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCredentialSaveAndGet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	coordination := newFakeCoordination()
	credentials := newTestCredentials(coordination, now)

	saved, err := credentials.Save(ctx, models.TokenResponse{
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		ExpiresIn:    3600,
	})
	require.NoError(t, err)

	// reported lifetime minus the safety margin
	assert.Equal(t, now.Add(3600*time.Second-30*time.Second), saved.Expiry)

	got, err := credentials.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "at-1", got.AccessToken)
	assert.Equal(t, saved.Expiry, got.Expiry.UTC())
}

func TestCredentialGetAbsent(t *testing.T) {
	credentials := newTestCredentials(newFakeCoordination(), time.Now())

	_, err := credentials.Get(context.Background())
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestCredentialGetExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	coordination := newFakeCoordination()
	credentials := newTestCredentials(coordination, now)

	_, err := credentials.Save(ctx, models.TokenResponse{AccessToken: "at-1", ExpiresIn: 60})
	require.NoError(t, err)

	credentials.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = credentials.Get(ctx)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestCredentialNoLifetimeNeverExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	coordination := newFakeCoordination()
	credentials := newTestCredentials(coordination, now)

	_, err := credentials.Save(ctx, models.TokenResponse{AccessToken: "at-1"})
	require.NoError(t, err)

	credentials.now = func() time.Time { return now.Add(24 * time.Hour) }
	got, err := credentials.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Expiry.IsZero())
}

func TestCredentialPurgeScope(t *testing.T) {
	ctx := context.Background()
	coordination := newFakeCoordination()
	credentials := newTestCredentials(coordination, time.Now())

	// unrelated sync state sharing the store must survive the purge
	require.NoError(t, coordination.Set(ctx, "sync:token:crm", "tok-1"))
	require.NoError(t, coordination.Set(ctx, "sync:last_sync:crm", ""))

	_, err := credentials.Save(ctx, models.TokenResponse{AccessToken: "at-1", ExpiresIn: 3600})
	require.NoError(t, err)

	require.NoError(t, credentials.PurgeAccessToken(ctx))

	_, err = credentials.Get(ctx)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	assert.ElementsMatch(t, []string{"sync:token:crm", "sync:last_sync:crm"}, coordination.keys())
}

func TestCredentialStatus(t *testing.T) {
	ctx := context.Background()
	coordination := newFakeCoordination()
	credentials := newTestCredentials(coordination, time.Now())

	status := credentials.Status(ctx)
	assert.False(t, status.Authenticated)

	_, err := credentials.Save(ctx, models.TokenResponse{AccessToken: "at-1", ExpiresIn: 3600})
	require.NoError(t, err)

	status = credentials.Status(ctx)
	assert.True(t, status.Authenticated)
}

func TestCredentialRefreshTokenOutlivesExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	coordination := newFakeCoordination()
	credentials := newTestCredentials(coordination, now)

	_, err := credentials.Save(ctx, models.TokenResponse{
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		ExpiresIn:    60,
	})
	require.NoError(t, err)

	credentials.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = credentials.Get(ctx)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	// the session's refresh token stays retrievable for vaulting at exit
	assert.Equal(t, "rt-1", credentials.RefreshToken())

	require.NoError(t, credentials.PurgeAccessToken(ctx))
	assert.Empty(t, credentials.RefreshToken())
}
