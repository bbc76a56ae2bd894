// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/store"
)

// pendingAuthReaper periodically deletes loopback authorization attempts
// that outlived the auth window without being collected. The poll endpoint
// reaps stale attempts it is asked about; this worker catches the ones
// nobody polls again.
type pendingAuthReaper struct {
	pending    store.PendingAuthRepository
	authWindow time.Duration
	now        func() time.Time

	logger *logger.Logger
}

func newPendingAuthReaper(pending store.PendingAuthRepository, authWindow time.Duration, logger *logger.Logger) *pendingAuthReaper {
	return &pendingAuthReaper{
		pending:    pending,
		authWindow: authWindow,
		now:        time.Now,
		logger:     logger,
	}
}

func (w *pendingAuthReaper) Run() {
	go w.loop()
}

func (w *pendingAuthReaper) loop() {
	ticker := time.NewTicker(w.authWindow)
	defer ticker.Stop()

	for range ticker.C {
		w.reap()
	}
}

func (w *pendingAuthReaper) reap() {
	cutoff := w.now().UTC().Add(-w.authWindow)
	if err := w.pending.DeleteExpired(context.Background(), cutoff); err != nil {
		w.logger.Error().Err(err).Msg("error reaping expired pending authorizations")
	}
}
