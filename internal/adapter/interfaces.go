package adapter

import (
	"context"

	"github.com/MKhiriev/go-table-keeper/models"
)

// OAuthClient talks to the identity provider's authorization and token
// endpoints. One implementation serves both credential acquisition flows.
type OAuthClient interface {
	// StartDeviceAuthorization begins a device flow and returns the
	// user-facing code, the verification URL and polling instructions.
	StartDeviceAuthorization(ctx context.Context) (models.DeviceAuthorization, error)

	// PollDeviceToken asks the token endpoint once whether the user has
	// completed the device grant. While the decision is outstanding it
	// returns [ErrAuthorizationPending] or [ErrSlowDown]; terminal refusals
	// map to [ErrAccessDenied] and [ErrTokenExpired].
	PollDeviceToken(ctx context.Context, deviceCode string) (models.TokenResponse, error)

	// AuthorizationURL builds the browser consent URL for a loopback
	// attempt with the given state nonce and S256 PKCE challenge.
	AuthorizationURL(state string, codeChallenge string) string

	// ExchangeCode swaps a loopback authorization code plus its PKCE
	// verifier for tokens.
	ExchangeCode(ctx context.Context, code string, verifier string) (models.TokenResponse, error)

	// Refresh obtains a fresh access token from a refresh token.
	Refresh(ctx context.Context, refreshToken string) (models.TokenResponse, error)
}

// ObjectStoreClient talks to the remote object store holding uploaded
// database snapshots. Every call carries the caller-supplied access token.
type ObjectStoreClient interface {
	// FindByName returns the newest non-trashed object with the given name.
	// Returns [ErrObjectNotFound] when nothing matches.
	FindByName(ctx context.Context, accessToken string, name string) (models.RemoteObject, error)

	// Upload creates the object when absent or overwrites its content when
	// an object with the same name already exists.
	Upload(ctx context.Context, accessToken string, name string, content []byte) (models.RemoteObject, error)

	// Download returns the content of the object with the given id.
	Download(ctx context.Context, accessToken string, id string) ([]byte, error)

	// List returns all non-trashed objects visible to the credential.
	List(ctx context.Context, accessToken string) ([]models.RemoteObject, error)
}
