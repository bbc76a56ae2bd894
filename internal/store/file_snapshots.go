// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/models"
)

// snapshotFileStore is the filesystem implementation of [SnapshotStore].
// Every database is one "<name>.json" file under the configured directory,
// written atomically via a temp file and rename.
type snapshotFileStore struct {
	logger *logger.Logger
	dir    string
}

// NewSnapshotFileStore constructs a [SnapshotStore] rooted at dir, creating
// the directory if it does not exist yet.
func NewSnapshotFileStore(dir string, logger *logger.Logger) (SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Err(err).Str("func", "NewSnapshotFileStore").Msg("error creating snapshot directory")
		return nil, fmt.Errorf("error creating snapshot directory: %w", err)
	}

	logger.Debug().Str("dir", dir).Msg("creating snapshot file store")
	return &snapshotFileStore{
		dir:    dir,
		logger: logger,
	}, nil
}

// Save serializes database and writes it to "<name>.json". The write goes to
// a temp file first so a crash mid-write cannot truncate the old snapshot.
func (s *snapshotFileStore) Save(ctx context.Context, database *models.Database) error {
	log := logger.FromContext(ctx)

	payload, err := json.MarshalIndent(database, "", "  ")
	if err != nil {
		log.Err(err).Str("func", "*snapshotFileStore.Save").Msg("error serializing database")
		return fmt.Errorf("error serializing database %q: %w", database.Name, err)
	}

	target := s.path(database.Name)
	tmp, err := os.CreateTemp(s.dir, database.Name+"-*.tmp")
	if err != nil {
		log.Err(err).Str("func", "*snapshotFileStore.Save").Msg("error creating temp snapshot file")
		return fmt.Errorf("error creating temp snapshot file: %w", err)
	}

	if _, err = tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("error writing snapshot for %q: %w", database.Name, err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("error closing snapshot for %q: %w", database.Name, err)
	}

	if err = os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		log.Err(err).Str("func", "*snapshotFileStore.Save").Msg("error replacing snapshot file")
		return fmt.Errorf("error replacing snapshot for %q: %w", database.Name, err)
	}

	return nil
}

// Load reads and deserializes the snapshot for name.
func (s *snapshotFileStore) Load(ctx context.Context, name string) (*models.Database, error) {
	log := logger.FromContext(ctx)

	payload, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSnapshotNotFound
		}
		log.Err(err).Str("func", "*snapshotFileStore.Load").Msg("error reading snapshot file")
		return nil, fmt.Errorf("error reading snapshot for %q: %w", name, err)
	}

	database := new(models.Database)
	if err = json.Unmarshal(payload, database); err != nil {
		log.Err(err).Str("func", "*snapshotFileStore.Load").Msg("error deserializing snapshot file")
		return nil, fmt.Errorf("error deserializing snapshot for %q: %w", name, err)
	}

	return database, nil
}

// LoadAll reads every "*.json" snapshot under the store directory.
// Unreadable snapshots fail the whole load so startup never silently drops
// a database.
func (s *snapshotFileStore) LoadAll(ctx context.Context) ([]*models.Database, error) {
	log := logger.FromContext(ctx)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Err(err).Str("func", "*snapshotFileStore.LoadAll").Msg("error listing snapshot directory")
		return nil, fmt.Errorf("error listing snapshot directory: %w", err)
	}

	var databases []*models.Database
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		database, err := s.Load(ctx, strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			return nil, err
		}
		databases = append(databases, database)
	}

	return databases, nil
}

// Rename moves the snapshot of oldName to newName.
func (s *snapshotFileStore) Rename(ctx context.Context, oldName string, newName string) error {
	log := logger.FromContext(ctx)

	if err := os.Rename(s.path(oldName), s.path(newName)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrSnapshotNotFound
		}
		log.Err(err).Str("func", "*snapshotFileStore.Rename").Msg("error renaming snapshot file")
		return fmt.Errorf("error renaming snapshot %q to %q: %w", oldName, newName, err)
	}

	return nil
}

// Delete removes the snapshot file for name. A missing file is not an error.
func (s *snapshotFileStore) Delete(ctx context.Context, name string) error {
	log := logger.FromContext(ctx)

	if err := os.Remove(s.path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Err(err).Str("func", "*snapshotFileStore.Delete").Msg("error deleting snapshot file")
		return fmt.Errorf("error deleting snapshot for %q: %w", name, err)
	}

	return nil
}

func (s *snapshotFileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}
