package tui

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func (m mainLoopModel) cmdLoadDatabases() tea.Cmd {
	return func() tea.Msg {
		names := m.services.Registry.Names(m.ctx)
		sort.Strings(names)

		entries := make([]databaseEntry, 0, len(names))
		for _, name := range names {
			status, err := m.services.Sync.Status(m.ctx, name)
			if err != nil {
				return databasesLoadedMsg{err: err}
			}
			entries = append(entries, databaseEntry{name: name, status: status})
		}

		return databasesLoadedMsg{
			active:  m.services.Registry.Active(m.ctx),
			entries: entries,
		}
	}
}

func (m mainLoopModel) cmdSwitchDatabase(name string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.services.Registry.Switch(m.ctx, name); err != nil {
			return databasesLoadedMsg{err: err}
		}
		return m.cmdLoadDatabases()()
	}
}

func (m mainLoopModel) cmdCreateDatabase(name string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.services.Registry.Create(m.ctx, name)
		return databaseCreatedMsg{err: err}
	}
}

func (m mainLoopModel) cmdRenameDatabase(oldName string, newName string) tea.Cmd {
	return func() tea.Msg {
		return databaseRenamedMsg{err: m.services.Sync.RenameDatabase(m.ctx, oldName, newName)}
	}
}

func (m mainLoopModel) cmdDeleteDatabase(name string) tea.Cmd {
	return func() tea.Msg {
		return databaseDeletedMsg{err: m.services.Sync.DeleteDatabase(m.ctx, name)}
	}
}

func (m mainLoopModel) cmdToggleSync(entry databaseEntry) tea.Cmd {
	return func() tea.Msg {
		if entry.status.Enrolled {
			return syncToggledMsg{err: m.services.Sync.Unenroll(m.ctx, entry.name)}
		}
		return syncToggledMsg{err: m.services.Sync.Enroll(m.ctx, entry.name)}
	}
}

func cmdClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
