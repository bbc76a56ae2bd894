// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-table-keeper/internal/config"
	"github.com/MKhiriev/go-table-keeper/internal/crypto"
	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/service"
	"github.com/MKhiriev/go-table-keeper/internal/store"
	"github.com/MKhiriev/go-table-keeper/internal/tui"
	"github.com/MKhiriev/go-table-keeper/models"
)

const clientLogFile = "table-keeper-client.log"

type App struct {
	cfg      *config.ClientConfig
	services *service.ClientServices
	vault    crypto.TokenVault
	tui      *tui.TUI
	db       *store.DB
	logger   *logger.Logger
}

func NewApp() (*App, error) {
	cfg, err := config.GetClientConfig()
	if err != nil {
		return nil, fmt.Errorf("error getting configs: %w", err)
	}

	// logs go to a file so they do not corrupt the terminal screen
	log := logger.NewFileLogger("table-keeper-client", clientLogFile)
	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	db, err := store.NewConnectSQLite(ctx, cfg.Storage.DB, log)
	if err != nil {
		return nil, fmt.Errorf("error opening local database: %w", err)
	}
	if err = db.Migrate(); err != nil {
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	storages, err := store.NewStorages(db, cfg.Storage.Snapshots.Dir, log)
	if err != nil {
		return nil, fmt.Errorf("error creating storages: %w", err)
	}

	services := service.NewClientServices(storages, cfg, log)

	ui, err := tui.New(services.Services, log)
	if err != nil {
		return nil, fmt.Errorf("error creating terminal ui: %w", err)
	}

	return &App{
		cfg:      cfg,
		services: services,
		vault:    crypto.NewTokenVault(cfg.App.TokenPassphrase),
		tui:      ui,
		db:       db,
		logger:   log,
	}, nil
}

func (a *App) Run() error {
	ctx := context.Background()

	a.restoreCredential(ctx)

	if err := a.services.Registry.LoadAll(ctx); err != nil {
		return fmt.Errorf("error loading database snapshots: %w", err)
	}
	if err := a.services.Sync.ResumeAll(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("error resuming sync loops")
	}

	runErr := a.tui.Run(ctx)
	if runErr != nil && !errors.Is(runErr, tui.ErrUserQuit) {
		a.shutdown(ctx)
		return runErr
	}

	a.shutdown(ctx)
	return nil
}

// restoreCredential turns the locally vaulted refresh token back into a
// usable access token. Absence of the vault file just means the user logs
// in again.
func (a *App) restoreCredential(ctx context.Context) {
	stored, err := a.vault.Load(a.cfg.App.TokenFile)
	if err != nil {
		if !errors.Is(err, crypto.ErrNoStoredCredential) {
			a.logger.Warn().Err(err).Msg("error reading token vault")
		}
		return
	}
	if stored.RefreshToken == "" {
		return
	}

	token, err := a.services.OAuth.Refresh(ctx, stored.RefreshToken)
	if err != nil {
		a.logger.Warn().Err(err).Msg("error refreshing access token, authorization required")
		return
	}
	// providers may omit the refresh token on the refresh grant
	if token.RefreshToken == "" {
		token.RefreshToken = stored.RefreshToken
	}

	if _, err = a.services.Credentials.Save(ctx, token); err != nil {
		a.logger.Warn().Err(err).Msg("error saving refreshed credential")
	}
}

// shutdown mirrors the server's teardown order: loops, snapshots, token
// purge. The refresh token survives in the vault; the access token does not.
func (a *App) shutdown(ctx context.Context) {
	a.services.Sync.StopAll()

	if err := a.services.Registry.SaveAll(ctx); err != nil {
		a.logger.Error().Err(err).Msg("error saving snapshots on exit")
	}

	// the access token may already be expired by exit time; the in-memory
	// refresh token is still worth vaulting
	credential, err := a.services.Credentials.Get(ctx)
	if err != nil {
		credential = models.Credential{RefreshToken: a.services.Credentials.RefreshToken()}
	}
	if credential.RefreshToken != "" {
		if err = a.vault.Save(a.cfg.App.TokenFile, credential); err != nil {
			a.logger.Error().Err(err).Msg("error writing token vault")
		}
	}

	if err := a.services.Credentials.PurgeAccessToken(ctx); err != nil {
		a.logger.Error().Err(err).Msg("error purging access token on exit")
	}

	if err := a.db.Close(); err != nil {
		a.logger.Error().Err(err).Msg("error closing local database")
	}
}
