package tui

import "github.com/MKhiriev/go-table-keeper/models"

// databaseEntry is one row of the database list: registry name plus its
// sync enrollment state.
type databaseEntry struct {
	name   string
	status models.SyncStatus
}

type databasesLoadedMsg struct {
	active  string
	entries []databaseEntry
	err     error
}

type syncToggledMsg struct {
	err error
}

type databaseCreatedMsg struct {
	err error
}

type databaseRenamedMsg struct {
	err error
}

type databaseDeletedMsg struct {
	err error
}

type authStatusMsg struct {
	status models.AuthStatusResponse
	err    error
}

type deviceAuthStartedMsg struct {
	authorization models.DeviceAuthorization
	err           error
}

type devicePollTickMsg struct{}

type devicePollResultMsg struct {
	status string
	err    error
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}
