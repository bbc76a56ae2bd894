// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"

	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/service"
)

// syncResumeWorker restarts the sync loops of every enrolled database once
// at startup. Enrollment outlives restarts; running loops do not.
type syncResumeWorker struct {
	sync service.SyncService

	logger *logger.Logger
}

func newSyncResumeWorker(sync service.SyncService, logger *logger.Logger) *syncResumeWorker {
	return &syncResumeWorker{
		sync:   sync,
		logger: logger,
	}
}

func (w *syncResumeWorker) Run() {
	if err := w.sync.ResumeAll(context.Background()); err != nil {
		w.logger.Error().Err(err).Msg("error resuming sync loops")
	}
}
