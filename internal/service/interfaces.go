package service

import (
	"context"

	"github.com/MKhiriev/go-table-keeper/models"
)

// RegistryService owns the in-memory database registry and its snapshot
// files. Rename and delete of enrolled databases must go through
// [SyncService], which migrates sync state under the database lease and
// delegates the registry-level work back here.
type RegistryService interface {
	Create(ctx context.Context, name string) (*models.Database, error)
	Switch(ctx context.Context, name string) (*models.Database, error)
	Get(ctx context.Context, name string) (*models.Database, error)
	Names(ctx context.Context) []string
	Active(ctx context.Context) string
	Rename(ctx context.Context, oldName string, newName string) error
	Remove(ctx context.Context, name string) error

	CreateTable(ctx context.Context, database string, table string, schema []models.Column) (*models.Table, error)
	Tables(ctx context.Context, database string) ([]*models.Table, error)
	GetTable(ctx context.Context, database string, table string) (*models.Table, error)
	DropTable(ctx context.Context, database string, table string) error
	InsertRow(ctx context.Context, database string, table string, values map[string]any) (*models.Table, error)
	Union(ctx context.Context, database string, left string, right string, name string) (*models.Table, error)

	// SerializeSnapshot returns a consistent point-in-time JSON rendition
	// of one database, taken under the registry read lock.
	SerializeSnapshot(ctx context.Context, name string) ([]byte, error)

	// Restore installs a serialized snapshot under the given name,
	// replacing any registry entry with that name, and makes it active.
	Restore(ctx context.Context, name string, data []byte) (*models.Database, error)

	LoadAll(ctx context.Context) error
	SaveAll(ctx context.Context) error
}

// CredentialService stores and serves the single remote-storage credential.
type CredentialService interface {
	// Save persists the access token from a successful grant, trimming a
	// safety margin off the provider-reported lifetime.
	Save(ctx context.Context, token models.TokenResponse) (models.Credential, error)
	// Get returns the stored credential. Absent or expired tokens yield
	// [ErrAuthenticationRequired].
	Get(ctx context.Context) (models.Credential, error)
	// PurgeAccessToken removes the stored access token and its expiry
	// marker, and nothing else.
	PurgeAccessToken(ctx context.Context) error
	// RefreshToken returns the refresh token granted in this session. It
	// lives in memory only, so it outlasts the access token's expiry but
	// not the process.
	RefreshToken() string
	Status(ctx context.Context) models.AuthStatusResponse
}

// DeviceAuthService drives the device authorization grant.
type DeviceAuthService interface {
	Start(ctx context.Context) (models.DeviceAuthorization, error)
	// Poll performs a single poll of the provider and reports one of the
	// device flow outcomes. On a grant the credential is saved before
	// [models.DeviceFlowGranted] is returned.
	Poll(ctx context.Context, deviceCode string) (string, error)
}

// LoopbackAuthService drives the loopback redirect grant.
type LoopbackAuthService interface {
	Start(ctx context.Context) (models.StartLoopbackResponse, error)
	// HandleCallback records the provider-delivered code for state.
	HandleCallback(ctx context.Context, state string, code string) error
	// Poll reports pending, ready (with the single-use code) or expired.
	Poll(ctx context.Context, state string) (models.PollLoopbackResponse, error)
	// Complete exchanges a collected code and verifier for tokens and
	// saves the credential.
	Complete(ctx context.Context, code string, verifier string) (models.Credential, error)
}

// SyncService is the sync coordinator: it owns enrollment state, the
// per-database background loops, and every operation that must hold a
// database's sync lease.
type SyncService interface {
	Enroll(ctx context.Context, database string) error
	Unenroll(ctx context.Context, database string) error
	// RenameDatabase renames a database everywhere: registry, snapshot
	// file and, for enrolled databases, the sync keys under the lease.
	RenameDatabase(ctx context.Context, oldName string, newName string) error
	// DeleteDatabase removes a database and its local state. The remote
	// copy is retained.
	DeleteDatabase(ctx context.Context, database string) error
	Status(ctx context.Context, database string) (models.SyncStatus, error)
	// SaveRemote uploads one database's snapshot right now, outside the
	// background loop schedule, under the database lease.
	SaveRemote(ctx context.Context, database string) (models.RemoteObject, error)
	// LoadRemote downloads a stored object and installs its content as
	// the named database.
	LoadRemote(ctx context.Context, database string, objectID string) error
	// RemoteFiles lists the objects visible to the stored credential.
	RemoteFiles(ctx context.Context) ([]models.RemoteObject, error)
	// ResumeAll restarts a loop for every enrolled database. Called once
	// at startup.
	ResumeAll(ctx context.Context) error
	// StopAll terminates all running loops without touching enrollment.
	StopAll()
}
