// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// ClientConfig is the configuration consumed by the embedded client shell.
// It is derived from the merged [StructuredConfig]: the client has no inbound
// HTTP server, keeps its state in an embedded SQLite database, and persists
// the provider refresh token in an encrypted file.
type ClientConfig struct {
	App      App
	Provider Provider
	Storage  Storage
	Sync     Sync
}

// GetClientConfig loads the merged configuration and narrows it to the
// client shell's view. The database driver is forced to SQLite: the client
// never connects to the shared coordination database directly.
func GetClientConfig() (*ClientConfig, error) {
	structured, err := newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
	if err != nil {
		return nil, err
	}

	cfg := &ClientConfig{
		App:      structured.App,
		Provider: structured.Provider,
		Storage:  structured.Storage,
		Sync:     structured.Sync,
	}
	cfg.Storage.DB.Driver = "sqlite3"

	if err = cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
