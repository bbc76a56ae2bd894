package service

import (
	"github.com/MKhiriev/go-table-keeper/internal/adapter"
	"github.com/MKhiriev/go-table-keeper/internal/config"
	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/store"
)

type Services struct {
	Registry     RegistryService
	Credentials  CredentialService
	DeviceAuth   DeviceAuthService
	LoopbackAuth LoopbackAuthService
	Sync         SyncService
}

func NewServices(storages *store.Storages, cfg *config.StructuredConfig, log *logger.Logger) *Services {
	oauth := adapter.NewOAuthClient(cfg.Provider, log)
	objects := adapter.NewDriveClient(cfg.Provider, log)

	registry := NewRegistryService(storages.Snapshots, log)
	credentials := NewCredentialService(storages.Coordination, log)

	return &Services{
		Registry:     registry,
		Credentials:  credentials,
		DeviceAuth:   NewDeviceAuthService(oauth, credentials, log),
		LoopbackAuth: NewLoopbackAuthService(storages.PendingAuth, oauth, credentials, cfg.Provider.AuthWindow, log),
		Sync:         NewSyncService(storages.Coordination, registry, credentials, objects, cfg.Sync, log),
	}
}
