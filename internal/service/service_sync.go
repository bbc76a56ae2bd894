// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-table-keeper/internal/adapter"
	"github.com/MKhiriev/go-table-keeper/internal/config"
	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/store"
	"github.com/MKhiriev/go-table-keeper/internal/utils"
	"github.com/MKhiriev/go-table-keeper/models"
)

// Coordination key prefixes of the per-database sync state.
const (
	syncTokenPrefix  = "sync:token:"
	syncLockPrefix   = "sync:lock:"
	syncMarkerPrefix = "sync:last_sync:"
)

func syncTokenKey(database string) string  { return syncTokenPrefix + database }
func syncLockKey(database string) string   { return syncLockPrefix + database }
func syncMarkerKey(database string) string { return syncMarkerPrefix + database }

type syncService struct {
	logger       *logger.Logger
	coordination store.CoordinationRepository
	registry     RegistryService
	credentials  CredentialService
	objects      adapter.ObjectStoreClient
	uuid         *utils.UUIDGenerator

	interval time.Duration
	leaseTTL time.Duration
	// owner identifies this process as a lease holder.
	owner string
	now   func() time.Time

	mu    sync.Mutex
	loops map[string]*syncLoop
}

// NewSyncService constructs the sync coordinator.
func NewSyncService(
	coordination store.CoordinationRepository,
	registry RegistryService,
	credentials CredentialService,
	objects adapter.ObjectStoreClient,
	cfg config.Sync,
	logger *logger.Logger,
) SyncService {
	logger.Debug().Msg("creating sync service")
	generator := utils.NewUUIDGenerator()
	return &syncService{
		logger:       logger,
		coordination: coordination,
		registry:     registry,
		credentials:  credentials,
		objects:      objects,
		uuid:         generator,
		interval:     cfg.Interval,
		leaseTTL:     cfg.LeaseTTL,
		owner:        generator.Generate(),
		now:          time.Now,
		loops:        make(map[string]*syncLoop),
	}
}

// Enroll implements [SyncService]. Enrollment mints a fresh token; the loop
// it starts stays alive exactly as long as that token value remains stored.
func (s *syncService) Enroll(ctx context.Context, database string) error {
	log := logger.FromContext(ctx)

	if _, err := s.registry.Get(ctx, database); err != nil {
		return err
	}

	if _, err := s.coordination.Get(ctx, syncTokenKey(database)); err == nil {
		return fmt.Errorf("%w: %q", ErrAlreadyEnrolled, database)
	} else if !errors.Is(err, store.ErrKeyNotFound) {
		return err
	}

	token := s.uuid.Generate()
	if err := s.coordination.Set(ctx, syncTokenKey(database), token); err != nil {
		return err
	}
	if err := s.coordination.Set(ctx, syncMarkerKey(database), ""); err != nil {
		return err
	}

	s.startLoop(database, token)
	log.Info().Str("database", database).Msg("database enrolled for sync")

	return nil
}

// Unenroll implements [SyncService]. Removing the stored token is the only
// cancellation signal the loop gets; it terminates itself on its next tick.
func (s *syncService) Unenroll(ctx context.Context, database string) error {
	log := logger.FromContext(ctx)

	if _, err := s.coordination.Get(ctx, syncTokenKey(database)); err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return fmt.Errorf("%w: %q", ErrNotEnrolled, database)
		}
		return err
	}

	if err := s.coordination.Delete(ctx, syncTokenKey(database), syncMarkerKey(database)); err != nil {
		return err
	}

	log.Info().Str("database", database).Msg("database unenrolled from sync")
	return nil
}

// RenameDatabase implements [SyncService]. For an enrolled database the
// whole move happens under the database's sync lease, so no upload can run
// while names and keys are in flight. The token keeps its value: the running
// loop stays bound to the database across the rename.
func (s *syncService) RenameDatabase(ctx context.Context, oldName string, newName string) error {
	log := logger.FromContext(ctx)

	if _, err := s.registry.Get(ctx, oldName); err != nil {
		return err
	}
	if _, err := s.registry.Get(ctx, newName); err == nil {
		return fmt.Errorf("%w: %q", ErrNameConflict, newName)
	}

	_, err := s.coordination.Get(ctx, syncTokenKey(oldName))
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			// not enrolled, registry-level rename suffices
			return s.registry.Rename(ctx, oldName, newName)
		}
		return err
	}

	if err = s.acquireLease(ctx, oldName); err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.coordination.ReleaseLock(ctx, syncLockKey(oldName), s.owner); releaseErr != nil {
			log.Warn().Err(releaseErr).Msg("error releasing lease after rename")
		}
	}()

	if err = s.registry.Rename(ctx, oldName, newName); err != nil {
		return err
	}

	if err = s.coordination.Rename(ctx, map[string]string{
		syncTokenKey(oldName):  syncTokenKey(newName),
		syncMarkerKey(oldName): syncMarkerKey(newName),
	}); err != nil {
		return err
	}

	s.mu.Lock()
	if loop, ok := s.loops[oldName]; ok {
		delete(s.loops, oldName)
		s.loops[newName] = loop
		loop.setName(newName)
	}
	s.mu.Unlock()

	log.Info().Str("old", oldName).Str("new", newName).Msg("database renamed")
	return nil
}

// DeleteDatabase implements [SyncService]. Local snapshot and sync state go
// away; the last uploaded remote copy is intentionally retained.
func (s *syncService) DeleteDatabase(ctx context.Context, database string) error {
	log := logger.FromContext(ctx)

	if _, err := s.registry.Get(ctx, database); err != nil {
		return err
	}

	_, err := s.coordination.Get(ctx, syncTokenKey(database))
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return s.registry.Remove(ctx, database)
		}
		return err
	}

	if err = s.acquireLease(ctx, database); err != nil {
		return err
	}

	if err = s.registry.Remove(ctx, database); err != nil {
		if releaseErr := s.coordination.ReleaseLock(ctx, syncLockKey(database), s.owner); releaseErr != nil {
			log.Warn().Err(releaseErr).Msg("error releasing lease after failed delete")
		}
		return err
	}

	// token, marker and the held lease all disappear. The loop observes the
	// missing token on its next tick and terminates.
	if err = s.coordination.Delete(ctx,
		syncTokenKey(database),
		syncMarkerKey(database),
		syncLockKey(database),
	); err != nil {
		return err
	}

	log.Info().Str("database", database).Msg("database deleted, remote copy retained")
	return nil
}

// Status implements [SyncService].
func (s *syncService) Status(ctx context.Context, database string) (models.SyncStatus, error) {
	status := models.SyncStatus{Database: database}

	_, err := s.coordination.Get(ctx, syncTokenKey(database))
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return status, nil
		}
		return models.SyncStatus{}, err
	}
	status.Enrolled = true

	marker, err := s.coordination.Get(ctx, syncMarkerKey(database))
	if err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		return models.SyncStatus{}, err
	}
	if marker != "" {
		lastSync, parseErr := time.Parse(time.RFC3339, marker)
		if parseErr == nil {
			status.LastSyncAt = &lastSync
		}
	}

	return status, nil
}

// SaveRemote implements [SyncService]. The upload takes the same database
// lease a tick would, so a manual save never races the background loop.
func (s *syncService) SaveRemote(ctx context.Context, database string) (models.RemoteObject, error) {
	log := logger.FromContext(ctx)

	if _, err := s.registry.Get(ctx, database); err != nil {
		return models.RemoteObject{}, err
	}

	credential, err := s.credentials.Get(ctx)
	if err != nil {
		return models.RemoteObject{}, err
	}

	if err = s.acquireLease(ctx, database); err != nil {
		return models.RemoteObject{}, err
	}
	defer func() {
		if releaseErr := s.coordination.ReleaseLock(ctx, syncLockKey(database), s.owner); releaseErr != nil {
			log.Warn().Err(releaseErr).Msg("error releasing lease after manual save")
		}
	}()

	payload, err := s.registry.SerializeSnapshot(ctx, database)
	if err != nil {
		return models.RemoteObject{}, err
	}

	object, err := s.objects.Upload(ctx, credential.AccessToken, database+".json", payload)
	if err != nil {
		return models.RemoteObject{}, err
	}

	log.Info().Str("database", database).Str("object", object.ID).Msg("database saved to remote storage")
	return object, nil
}

// LoadRemote implements [SyncService]. The downloaded content replaces the
// named database wholesale; the loaded copy becomes the active one.
func (s *syncService) LoadRemote(ctx context.Context, database string, objectID string) error {
	log := logger.FromContext(ctx)

	credential, err := s.credentials.Get(ctx)
	if err != nil {
		return err
	}

	data, err := s.objects.Download(ctx, credential.AccessToken, objectID)
	if err != nil {
		return err
	}

	if _, err = s.registry.Restore(ctx, database, data); err != nil {
		return err
	}

	log.Info().Str("database", database).Str("object", objectID).Msg("database loaded from remote storage")
	return nil
}

// RemoteFiles implements [SyncService].
func (s *syncService) RemoteFiles(ctx context.Context) ([]models.RemoteObject, error) {
	credential, err := s.credentials.Get(ctx)
	if err != nil {
		return nil, err
	}

	return s.objects.List(ctx, credential.AccessToken)
}

// ResumeAll implements [SyncService].
func (s *syncService) ResumeAll(ctx context.Context) error {
	log := logger.FromContext(ctx)

	entries, err := s.coordination.ListPrefix(ctx, syncTokenPrefix)
	if err != nil {
		return err
	}

	for key, token := range entries {
		database := strings.TrimPrefix(key, syncTokenPrefix)
		if _, err = s.registry.Get(ctx, database); err != nil {
			log.Warn().Str("database", database).Msg("enrolled database has no local snapshot, skipping resume")
			continue
		}

		s.startLoop(database, token)
		log.Info().Str("database", database).Msg("sync loop resumed")
	}

	return nil
}

// StopAll implements [SyncService]. Loops are stopped without touching the
// stored tokens, so enrollment survives for the next start.
func (s *syncService) StopAll() {
	s.mu.Lock()
	loops := make([]*syncLoop, 0, len(s.loops))
	for _, loop := range s.loops {
		loops = append(loops, loop)
	}
	s.loops = make(map[string]*syncLoop)
	s.mu.Unlock()

	for _, loop := range loops {
		loop.stop()
	}
}

// startLoop registers and launches a loop bound to (database, token).
// An existing loop for the same name is left alone: its token check will
// sort out which one survives.
func (s *syncService) startLoop(database string, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, running := s.loops[database]; running {
		return
	}

	loop := newSyncLoop(s, database, token)
	s.loops[database] = loop
	loop.start()
}

// removeLoop drops a terminated loop from the registry. The loop itself
// calls this on exit; the name is re-read because a rename may have moved
// the entry.
func (s *syncService) removeLoop(loop *syncLoop) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := loop.getName()
	if current, ok := s.loops[name]; ok && current == loop {
		delete(s.loops, name)
	}
}

// acquireLease takes the database lease, retrying until ctx is done. Used
// by rename and delete, which must win the lease rather than skip like a
// tick does.
func (s *syncService) acquireLease(ctx context.Context, database string) error {
	for {
		err := s.coordination.AcquireLock(ctx, syncLockKey(database), s.owner, s.leaseTTL)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrLockHeld) {
			return err
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for sync lease of %q: %w", database, ctx.Err())
		case <-time.After(s.interval / 10):
		}
	}
}
