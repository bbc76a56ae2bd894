// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-table-keeper/internal/service"
	"github.com/MKhiriev/go-table-keeper/models"
)

type stage int

const (
	stageList stage = iota
	stageCreate
	stageRename
	stageConfirmDelete
	stageAuth
)

type mainLoopModel struct {
	ctx      context.Context
	services *service.Services

	stage   stage
	entries []databaseEntry
	active  string
	idx     int
	loading bool
	status  string
	errMsg  string

	nameInput textinput.Model

	auth authModel

	quitByUser bool
}

func newMainLoopModel(ctx context.Context, services *service.Services) mainLoopModel {
	input := textinput.New()
	input.CharLimit = 60

	return mainLoopModel{
		ctx:       ctx,
		services:  services,
		loading:   true,
		nameInput: input,
		auth:      newAuthModel(),
	}
}

func (m mainLoopModel) Init() tea.Cmd {
	return m.cmdLoadDatabases()
}

func (m mainLoopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case databasesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = describeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.active = msg.active
		m.entries = msg.entries
		if m.idx >= len(m.entries) {
			m.idx = len(m.entries) - 1
		}
		if m.idx < 0 {
			m.idx = 0
		}
		return m, nil

	case syncToggledMsg, databaseCreatedMsg, databaseRenamedMsg, databaseDeletedMsg:
		return m.afterMutation(msg)

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	if m.stage == stageAuth {
		return m.updateAuth(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.stage {
	case stageCreate, stageRename:
		return m.updateNameInput(keyMsg)
	case stageConfirmDelete:
		return m.updateConfirmDelete(keyMsg)
	default:
		return m.updateList(keyMsg)
	}
}

// afterMutation folds the outcome of a mutating command into the status
// line and reloads the list.
func (m mainLoopModel) afterMutation(msg tea.Msg) (tea.Model, tea.Cmd) {
	var err error
	var okStatus string

	switch result := msg.(type) {
	case syncToggledMsg:
		err, okStatus = result.err, "настройки синхронизации обновлены"
	case databaseCreatedMsg:
		err, okStatus = result.err, "база данных создана"
	case databaseRenamedMsg:
		err, okStatus = result.err, "база данных переименована"
	case databaseDeletedMsg:
		err, okStatus = result.err, "база данных удалена"
	}

	if err != nil {
		m.errMsg = describeError(err)
		return m, m.cmdLoadDatabases()
	}

	m.errMsg = ""
	m.status = okStatus
	return m, tea.Batch(m.cmdLoadDatabases(), cmdClearStatusAfter(3*time.Second))
}

func (m mainLoopModel) updateList(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.quit):
		m.quitByUser = true
		return m, tea.Quit

	case key.Matches(keyMsg, keys.up):
		if m.idx > 0 {
			m.idx--
		}

	case key.Matches(keyMsg, keys.down):
		if m.idx < len(m.entries)-1 {
			m.idx++
		}

	case key.Matches(keyMsg, keys.enter):
		if entry, ok := m.selected(); ok {
			return m, m.cmdSwitchDatabase(entry.name)
		}

	case key.Matches(keyMsg, keys.create):
		m.stage = stageCreate
		m.nameInput.SetValue("")
		m.nameInput.Focus()
		return m, textinput.Blink

	case key.Matches(keyMsg, keys.rename):
		if _, ok := m.selected(); ok {
			m.stage = stageRename
			m.nameInput.SetValue("")
			m.nameInput.Focus()
			return m, textinput.Blink
		}

	case key.Matches(keyMsg, keys.delete):
		if _, ok := m.selected(); ok {
			m.stage = stageConfirmDelete
		}

	case key.Matches(keyMsg, keys.sync):
		if entry, ok := m.selected(); ok {
			return m, m.cmdToggleSync(entry)
		}

	case key.Matches(keyMsg, keys.auth):
		m.stage = stageAuth
		m.auth = newAuthModel()
		return m, m.cmdAuthStatus()
	}

	return m, nil
}

func (m mainLoopModel) updateNameInput(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.esc):
		m.stage = stageList
		return m, nil

	case key.Matches(keyMsg, keys.enter):
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			return m, nil
		}
		if m.stage == stageCreate {
			m.stage = stageList
			return m, m.cmdCreateDatabase(name)
		}
		entry, ok := m.selected()
		if !ok {
			m.stage = stageList
			return m, nil
		}
		m.stage = stageList
		return m, m.cmdRenameDatabase(entry.name, name)
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(keyMsg)
	return m, cmd
}

func (m mainLoopModel) updateConfirmDelete(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.yes):
		entry, ok := m.selected()
		m.stage = stageList
		if !ok {
			return m, nil
		}
		return m, m.cmdDeleteDatabase(entry.name)

	case key.Matches(keyMsg, keys.no):
		m.stage = stageList
	}

	return m, nil
}

func (m mainLoopModel) selected() (databaseEntry, bool) {
	if m.idx < 0 || m.idx >= len(m.entries) {
		return databaseEntry{}, false
	}
	return m.entries[m.idx], true
}

func (m mainLoopModel) View() string {
	switch m.stage {
	case stageCreate:
		return appStyle.Render(titleStyle.Render("Новая база данных") + "\n\n" +
			m.nameInput.View() + "\n\n" +
			helpStyle.Render("enter - создать, esc - отмена"))

	case stageRename:
		entry, _ := m.selected()
		return appStyle.Render(titleStyle.Render("Переименование «"+entry.name+"»") + "\n\n" +
			m.nameInput.View() + "\n\n" +
			helpStyle.Render("enter - переименовать, esc - отмена"))

	case stageConfirmDelete:
		entry, _ := m.selected()
		return appStyle.Render(titleStyle.Render("Удалить базу данных «"+entry.name+"»?") + "\n\n" +
			"Локальная копия будет удалена, копия в облаке останется.\n\n" +
			helpStyle.Render("y - удалить, n - отмена"))

	case stageAuth:
		return m.viewAuth()
	}

	return m.viewList()
}

func (m mainLoopModel) viewList() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Базы данных"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString("Загрузка...\n")
	}

	nameWidth := lipgloss.Width("Имя")
	for _, entry := range m.entries {
		if w := lipgloss.Width(entry.name); w > nameWidth {
			nameWidth = w
		}
	}

	for i, entry := range m.entries {
		marker := "  "
		if i == m.idx {
			marker = "> "
		}

		line := fmt.Sprintf("%s%-*s  %s", marker, nameWidth, entry.name, describeSync(entry.status))
		if entry.name == m.active {
			line += "  (активная)"
		}
		if i == m.idx {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render("Ошибка: " + m.errMsg))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter - выбрать, n - новая, r - переименовать, d - удалить, s - синхронизация вкл/выкл, a - авторизация, q - выход"))

	return appStyle.Render(b.String())
}

func describeSync(status models.SyncStatus) string {
	if !status.Enrolled {
		return "синхронизация выключена"
	}
	if status.LastSyncAt == nil {
		return "синхронизация включена, ещё не выполнялась"
	}
	return "синхронизирована " + status.LastSyncAt.Local().Format("02.01.2006 15:04")
}
