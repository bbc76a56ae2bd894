// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-table-keeper/internal/adapter"
	"github.com/MKhiriev/go-table-keeper/internal/config"
	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/store"
)

// ClientServices is the service set of the embedded client shell. The
// provider clients are exposed so the client runtime can refresh the access
// token from the locally vaulted refresh token.
type ClientServices struct {
	*Services

	OAuth adapter.OAuthClient
}

// NewClientServices wires the same service graph as [NewServices] on top of
// the client's embedded store.
func NewClientServices(storages *store.Storages, cfg *config.ClientConfig, log *logger.Logger) *ClientServices {
	oauth := adapter.NewOAuthClient(cfg.Provider, log)
	objects := adapter.NewDriveClient(cfg.Provider, log)

	registry := NewRegistryService(storages.Snapshots, log)
	credentials := NewCredentialService(storages.Coordination, log)

	return &ClientServices{
		Services: &Services{
			Registry:     registry,
			Credentials:  credentials,
			DeviceAuth:   NewDeviceAuthService(oauth, credentials, log),
			LoopbackAuth: NewLoopbackAuthService(storages.PendingAuth, oauth, credentials, cfg.Provider.AuthWindow, log),
			Sync:         NewSyncService(storages.Coordination, registry, credentials, objects, cfg.Sync, log),
		},
		OAuth: oauth,
	}
}
