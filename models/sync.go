// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncStatus reports whether a database is enrolled for periodic background
// sync and when its snapshot last reached the remote store. It stays
// queryable even while sync is failing silently in the background.
type SyncStatus struct {
	Database   string     `json:"database"`
	Enrolled   bool       `json:"enrolled"`
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
}

// RemoteObject describes one stored object in the remote object store.
type RemoteObject struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified_at"`
}
