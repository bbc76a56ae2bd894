package workers

import (
	"time"

	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/service"
	"github.com/MKhiriev/go-table-keeper/internal/store"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles the server's background workers: the one-shot sync
// resume and the periodic pending-authorization reaper.
func NewWorkers(services *service.Services, pending store.PendingAuthRepository, authWindow time.Duration, logger *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			newSyncResumeWorker(services.Sync, logger),
			newPendingAuthReaper(pending, authWindow, logger),
		},
	}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
