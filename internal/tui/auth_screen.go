// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-table-keeper/models"
)

type authStage int

const (
	authStageStatus authStage = iota
	authStageDeviceWaiting
	authStageDone
)

// authModel is the device-authorization sub-screen: it shows the current
// credential status, starts the flow and polls the provider at the cadence
// it prescribed.
type authModel struct {
	stage         authStage
	status        models.AuthStatusResponse
	authorization models.DeviceAuthorization
	outcome       string
	errMsg        string
	spinner       spinner.Model
	copied        bool
}

func newAuthModel() authModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return authModel{spinner: s}
}

func (m mainLoopModel) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authStatusMsg:
		if msg.err != nil {
			m.auth.errMsg = describeError(msg.err)
			return m, nil
		}
		m.auth.status = msg.status
		return m, nil

	case deviceAuthStartedMsg:
		if msg.err != nil {
			m.auth.errMsg = describeError(msg.err)
			return m, nil
		}
		m.auth.errMsg = ""
		m.auth.stage = authStageDeviceWaiting
		m.auth.authorization = msg.authorization
		m.auth.copied = false
		return m, tea.Batch(m.auth.spinner.Tick, m.cmdDevicePollTick())

	case devicePollTickMsg:
		return m, m.cmdPollDevice()

	case devicePollResultMsg:
		switch msg.status {
		case models.DeviceFlowPending:
			return m, m.cmdDevicePollTick()
		case models.DeviceFlowGranted:
			m.auth.stage = authStageDone
			m.auth.outcome = "Авторизация выполнена"
			return m, m.cmdAuthStatus()
		case models.DeviceFlowDenied:
			m.auth.stage = authStageDone
			m.auth.outcome = "В доступе отказано"
		case models.DeviceFlowExpired:
			m.auth.stage = authStageDone
			m.auth.outcome = "Код устарел, начните заново"
		default:
			m.auth.stage = authStageDone
			if msg.err != nil {
				m.auth.errMsg = describeError(msg.err)
			}
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.auth.errMsg = describeError(msg.err)
		} else {
			m.auth.copied = true
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.auth.spinner, cmd = m.auth.spinner.Update(msg)
		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.esc):
		m.stage = stageList
		return m, m.cmdLoadDatabases()

	case key.Matches(keyMsg, keys.enter):
		if m.auth.stage == authStageStatus || m.auth.stage == authStageDone {
			m.auth = newAuthModel()
			return m, m.cmdStartDeviceAuth()
		}

	case key.Matches(keyMsg, keys.copy):
		if m.auth.stage == authStageDeviceWaiting {
			return m, cmdCopyToClipboard(m.auth.authorization.UserCode)
		}
	}

	return m, nil
}

func (m mainLoopModel) viewAuth() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Авторизация"))
	b.WriteString("\n\n")

	switch m.auth.stage {
	case authStageDeviceWaiting:
		b.WriteString("Откройте в браузере: " + m.auth.authorization.VerificationURL + "\n")
		b.WriteString("и введите код:\n\n")
		b.WriteString(codeBoxStyle.Render(m.auth.authorization.UserCode))
		b.WriteString("\n\n")
		b.WriteString(m.auth.spinner.View() + " Ожидание подтверждения...")
		if m.auth.copied {
			b.WriteString("\nКод скопирован в буфер обмена")
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("c - скопировать код, esc - назад"))

	case authStageDone:
		b.WriteString(m.auth.outcome + "\n\n")
		b.WriteString(helpStyle.Render("enter - начать заново, esc - назад"))

	default:
		if m.auth.status.Authenticated {
			account := m.auth.status.Account
			if account == "" {
				account = "неизвестный аккаунт"
			}
			b.WriteString("Выполнен вход: " + account + "\n\n")
		} else {
			b.WriteString("Вход не выполнен\n\n")
		}
		b.WriteString(helpStyle.Render("enter - авторизоваться через устройство, esc - назад"))
	}

	if m.auth.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("Ошибка: " + m.auth.errMsg))
	}

	return appStyle.Render(b.String())
}

func (m mainLoopModel) cmdAuthStatus() tea.Cmd {
	return func() tea.Msg {
		return authStatusMsg{status: m.services.Credentials.Status(m.ctx)}
	}
}

func (m mainLoopModel) cmdStartDeviceAuth() tea.Cmd {
	return func() tea.Msg {
		authorization, err := m.services.DeviceAuth.Start(m.ctx)
		return deviceAuthStartedMsg{authorization: authorization, err: err}
	}
}

// cmdDevicePollTick schedules the next poll at the provider-prescribed
// interval, never faster than once a second.
func (m mainLoopModel) cmdDevicePollTick() tea.Cmd {
	interval := time.Duration(m.auth.authorization.Interval) * time.Second
	if interval < time.Second {
		interval = time.Second
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return devicePollTickMsg{}
	})
}

func (m mainLoopModel) cmdPollDevice() tea.Cmd {
	return func() tea.Msg {
		status, err := m.services.DeviceAuth.Poll(m.ctx, m.auth.authorization.DeviceCode)
		return devicePollResultMsg{status: status, err: err}
	}
}

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(text)}
	}
}
