package store

import "github.com/MKhiriev/go-table-keeper/internal/logger"

type Storages struct {
	Coordination CoordinationRepository
	PendingAuth  PendingAuthRepository
	Snapshots    SnapshotStore
}

// NewStorages wires every repository to the shared database connection and
// the snapshot directory.
func NewStorages(db *DB, snapshotDir string, log *logger.Logger) (*Storages, error) {
	snapshots, err := NewSnapshotFileStore(snapshotDir, log)
	if err != nil {
		return nil, err
	}

	return &Storages{
		Coordination: NewCoordinationRepository(db, log),
		PendingAuth:  NewPendingAuthRepository(db, log),
		Snapshots:    snapshots,
	}, nil
}
