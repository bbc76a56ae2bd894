// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-table-keeper/internal/store"
)

// syncLoop is one database's background synchronization goroutine. It is
// bound to the token minted at enrollment: every tick re-reads the stored
// token and terminates when the value is gone or different. That comparison
// is the loop's only cancellation path besides process shutdown.
type syncLoop struct {
	svc   *syncService
	token string

	mu   sync.Mutex
	name string

	cancel context.CancelFunc
	done   chan struct{}
}

func newSyncLoop(svc *syncService, name string, token string) *syncLoop {
	return &syncLoop{
		svc:   svc,
		name:  name,
		token: token,
		done:  make(chan struct{}),
	}
}

// setName rebinds the loop after a rename. Called by the coordinator while
// it holds the database lease.
func (l *syncLoop) setName(name string) {
	l.mu.Lock()
	l.name = name
	l.mu.Unlock()
}

func (l *syncLoop) getName() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.name
}

func (l *syncLoop) start() {
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel

	go l.run(ctx)
}

// stop terminates the loop goroutine and waits for it to exit. Enrollment
// state is untouched.
func (l *syncLoop) stop() {
	l.cancel()
	<-l.done
}

func (l *syncLoop) run(ctx context.Context) {
	defer close(l.done)
	defer l.svc.removeLoop(l)

	timer := time.NewTimer(l.svc.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if terminate := l.tick(ctx); terminate {
			return
		}

		// reschedule regardless of the tick's outcome
		timer.Reset(l.svc.interval)
	}
}

// tick performs one synchronization attempt. It reports true when the loop
// must terminate. Every failure short of a token mismatch is survivable:
// the tick logs, skips the rest of its work and lets the loop reschedule.
func (l *syncLoop) tick(ctx context.Context) bool {
	tickCtx, cancel := context.WithTimeout(ctx, l.svc.leaseTTL)
	defer cancel()

	name := l.getName()
	log := l.svc.logger.With().Str("database", name).Logger()

	stored, err := l.svc.coordination.Get(tickCtx, syncTokenKey(name))
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			log.Info().Msg("sync token gone, terminating loop")
			return true
		}
		log.Warn().Err(err).Msg("error reading sync token, will retry")
		return false
	}
	if stored != l.token {
		log.Info().Msg("sync token superseded, terminating loop")
		return true
	}

	err = l.svc.coordination.AcquireLock(tickCtx, syncLockKey(name), l.svc.owner, l.svc.leaseTTL)
	if err != nil {
		if errors.Is(err, store.ErrLockHeld) {
			log.Debug().Msg("sync lease held elsewhere, skipping tick")
		} else {
			log.Warn().Err(err).Msg("error acquiring sync lease, will retry")
		}
		return false
	}
	defer func() {
		if releaseErr := l.svc.coordination.ReleaseLock(tickCtx, syncLockKey(name), l.svc.owner); releaseErr != nil {
			log.Warn().Err(releaseErr).Msg("error releasing sync lease")
		}
	}()

	credential, err := l.svc.credentials.Get(tickCtx)
	if err != nil {
		if errors.Is(err, ErrAuthenticationRequired) {
			log.Debug().Msg("no usable credential, skipping upload")
		} else {
			log.Warn().Err(err).Msg("error reading credential, skipping upload")
		}
		return false
	}

	// the bound name may have moved between the token check and here; the
	// lease guarantees it cannot move now, so re-resolve once more
	name = l.getName()

	payload, err := l.svc.registry.SerializeSnapshot(tickCtx, name)
	if err != nil {
		log.Warn().Err(err).Msg("error serializing snapshot, skipping upload")
		return false
	}

	if _, err = l.svc.objects.Upload(tickCtx, credential.AccessToken, name+".json", payload); err != nil {
		log.Warn().Err(err).Msg("snapshot upload failed, will retry next tick")
		return false
	}

	marker := l.svc.now().UTC().Format(time.RFC3339)
	if err = l.svc.coordination.Set(tickCtx, syncMarkerKey(name), marker); err != nil {
		log.Warn().Err(err).Msg("error updating last sync marker")
		return false
	}

	log.Debug().Msg("snapshot synchronized")
	return false
}
