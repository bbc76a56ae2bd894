// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-table-keeper/internal/config"
	myHTTP "github.com/MKhiriev/go-table-keeper/internal/handler/http"
	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/server"
	"github.com/MKhiriev/go-table-keeper/internal/service"
	"github.com/MKhiriev/go-table-keeper/internal/store"
	"github.com/MKhiriev/go-table-keeper/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("table-keeper-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	db, err := connectDatabase(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to coordination database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	storages, err := store.NewStorages(db, cfg.Storage.Snapshots.Dir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	services := service.NewServices(storages, cfg, log)

	if err = services.Registry.LoadAll(ctx); err != nil {
		log.Fatal().Err(err).Msg("error loading database snapshots")
	}

	workers.NewWorkers(services, storages.PendingAuth, cfg.Provider.AuthWindow, log).Run()

	srv, err := server.NewServer(myHTTP.NewHandler(services, log), services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func connectDatabase(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*store.DB, error) {
	if cfg.Storage.DB.Driver == "sqlite3" {
		return store.NewConnectSQLite(ctx, cfg.Storage.DB, log)
	}
	return store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
