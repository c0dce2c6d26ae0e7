// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"braviactl/internal/bravia"
	"braviactl/internal/device"
	"braviactl/internal/history"
	"braviactl/internal/logger"
)

// actionTimeout bounds one request sent from the remote screen
const actionTimeout = 5 * time.Second

const (
	maxLogLines     = 3
	maxLogBuffer    = 20
	maxActionRecord = 50
)

// LogEntry represents a log entry for display
type LogEntry struct {
	Timestamp time.Time
	Level     string // INF, DBG, ERR
	Message   string
	Action    string
}

// actionResultMsg carries the response of one action back to the model
type actionResultMsg struct {
	kind     device.ActionType
	action   string
	response *device.ActionResponse
}

// RemoteModel handles the remote control screen
type RemoteModel struct {
	device     device.Device
	deviceInfo device.DeviceInfo
	power      string

	selectedButton  string
	lastButtonPress time.Time
	pending         int

	lastResponse  *device.ActionResponse
	lastAction    string
	actionHistory []actionHistoryEntry

	options Options

	width  int
	height int

	logBuffer []LogEntry

	logger zerolog.Logger
}

// NewRemoteModel creates the remote control screen for a connected device
func NewRemoteModel(dev device.Device, info device.DeviceInfo, power string, opts Options) RemoteModel {
	return RemoteModel{
		device:     dev,
		deviceInfo: info,
		power:      power,
		options:    opts,
		logger:     logger.Component("cli"),
	}
}

// Update handles remote control screen messages
func (m RemoteModel) Update(msg tea.Msg) (RemoteModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case actionResultMsg:
		return m.handleResult(msg), nil

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "s":
			return m.send(device.ActionTypeControl, string(device.ControlActionPowerStatus))
		case "v":
			return m.send(device.ActionTypeControl, string(device.ControlActionVolumeInfo))
		default:
			if button, ok := remoteKeys[key]; ok {
				m.selectedButton = button.command
				m.lastButtonPress = time.Now()
				return m.send(device.ActionTypeRemote, button.command)
			}
		}
	}

	return m, nil
}

// send dispatches one action without blocking the UI
func (m RemoteModel) send(kind device.ActionType, action string) (RemoteModel, tea.Cmd) {
	if m.device == nil {
		return m, nil
	}

	m.pending++
	dev := m.device
	store := m.options.History
	deviceID := m.deviceInfo.ID
	log := m.logger

	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		response := processAction(ctx, dev, kind, action)
		if store != nil {
			_, err := store.Record(context.Background(), history.Entry{
				DeviceID: deviceID,
				Type:     string(kind),
				Action:   action,
				Success:  response.Success,
				Error:    response.Error,
			})
			if err != nil {
				log.Warn().Err(err).Msg("Failed to record action")
			}
		}

		return actionResultMsg{kind: kind, action: action, response: response}
	}
}

func processAction(ctx context.Context, dev device.Device, kind device.ActionType, action string) *device.ActionResponse {
	actionJSON, err := json.Marshal(device.ActionRequest{Type: kind, Action: action})
	if err != nil {
		return device.Failure("%v", err)
	}

	response, err := dev.Process(ctx, actionJSON)
	if err != nil {
		return device.Failure("%v", err)
	}
	return response
}

// handleResult stores the response, logs it and keeps the history
func (m RemoteModel) handleResult(msg actionResultMsg) RemoteModel {
	if m.pending > 0 {
		m.pending--
	}
	m.lastResponse = msg.response
	m.lastAction = msg.action

	if status, ok := msg.response.Data.(bravia.PowerStatus); ok && msg.response.Success {
		m.power = status.Status
	}

	if m.options.Debug || m.options.Test {
		if msg.response.Success {
			level := "INF"
			message := fmt.Sprintf("%s completed", msg.action)
			if m.options.Test {
				message = fmt.Sprintf("Test mode: %s simulated", msg.action)
			}
			m.addLogEntry(level, message, msg.action)
		} else {
			m.addLogEntry("ERR", fmt.Sprintf("%s failed: %s", msg.action, msg.response.Error), msg.action)
		}
	}

	entry := actionHistoryEntry{
		Timestamp: time.Now(),
		Action:    msg.action,
		Success:   msg.response.Success,
		Error:     msg.response.Error,
	}
	m.actionHistory = append([]actionHistoryEntry{entry}, m.actionHistory...)
	if len(m.actionHistory) > maxActionRecord {
		m.actionHistory = m.actionHistory[:maxActionRecord]
	}

	m.logger.Info().
		Str("device_id", m.deviceInfo.ID).
		Str("type", string(msg.kind)).
		Str("action", msg.action).
		Bool("success", msg.response.Success).
		Msg("Remote button pressed")

	return m
}

// View renders the remote control screen
func (m RemoteModel) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("braviactl - TV Remote Control"))

	header := successStyle.Render("📺 " + m.deviceInfo.Name)
	if m.deviceInfo.Address != "" {
		header += " " + helpStyle.Render(m.deviceInfo.Address)
	}
	if m.power != "" {
		header += " " + headerStyle.Render("["+m.power+"]")
	}
	if m.options.Test {
		header += " " + testStyle.Render("(Test)")
	}
	sections = append(sections, header)

	sections = append(sections, m.renderRemoteLayout())

	if status := m.renderStatusBar(); status != "" {
		sections = append(sections, status)
	}

	if m.options.Debug || m.options.Test {
		if logDisplay := m.renderLogDisplay(); logDisplay != "" {
			sections = append(sections, logDisplay)
		}
	}

	sections = append(sections, m.renderHelpText())

	return strings.Join(sections, "\n\n")
}

func (m RemoteModel) renderButton(b remoteButton) string {
	if m.selectedButton == b.command && time.Since(m.lastButtonPress) < 200*time.Millisecond {
		return remoteButtonActiveStyle.Render(b.label)
	}
	return remoteButtonStyle.Render(b.label)
}

// renderRemoteLayout lays the buttons out in three columns
func (m RemoteModel) renderRemoteLayout() string {
	navColumn := lipgloss.JoinVertical(lipgloss.Center,
		headerStyle.Render("Power & Navigation:"),
		m.renderButton(buttonPower),
		m.renderButton(buttonUp),
		lipgloss.JoinHorizontal(lipgloss.Center,
			m.renderButton(buttonLeft),
			m.renderButton(buttonOK),
			m.renderButton(buttonRight)),
		m.renderButton(buttonDown),
	)

	volumeColumn := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Volume & Channel:"),
		lipgloss.JoinHorizontal(lipgloss.Left, m.renderButton(buttonVolumeUp), " ", m.renderButton(buttonChannelUp)),
		lipgloss.JoinHorizontal(lipgloss.Left, m.renderButton(buttonVolumeDown), " ", m.renderButton(buttonChannelDn)),
		lipgloss.JoinHorizontal(lipgloss.Left, m.renderButton(buttonMute), " ", m.renderButton(buttonPlay)),
		lipgloss.JoinHorizontal(lipgloss.Left, m.renderButton(buttonPause)),
	)

	functionColumn := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Functions & Inputs:"),
		lipgloss.JoinHorizontal(lipgloss.Left, m.renderButton(buttonHome), " ", m.renderButton(buttonOptions)),
		lipgloss.JoinHorizontal(lipgloss.Left, m.renderButton(buttonBack), " ", m.renderButton(buttonInput)),
		lipgloss.JoinHorizontal(lipgloss.Left, m.renderButton(buttonHDMI1), " ", m.renderButton(buttonHDMI2)),
		lipgloss.JoinHorizontal(lipgloss.Left, m.renderButton(buttonHDMI3), " ", m.renderButton(buttonHDMI4)),
		lipgloss.JoinHorizontal(lipgloss.Left, m.renderButton(buttonNetflix), " ", m.renderButton(buttonYouTube)),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		navColumn,
		strings.Repeat(" ", 4),
		volumeColumn,
		strings.Repeat(" ", 4),
		functionColumn,
	)
}

// renderStatusBar shows the outcome of the last action
func (m RemoteModel) renderStatusBar() string {
	if m.pending > 0 {
		return helpStyle.Render("… sending")
	}
	if m.lastResponse == nil {
		return ""
	}

	if !m.lastResponse.Success {
		return errorStyle.Render("✗ " + m.lastResponse.Error)
	}

	status := successStyle.Render("✓ " + m.lastAction)
	if m.lastResponse.Data != nil {
		if data, err := json.Marshal(m.lastResponse.Data); err == nil {
			status += " " + truncate(string(data), 80)
		}
	}
	return status
}

// renderLogDisplay shows the last few log entries
func (m RemoteModel) renderLogDisplay() string {
	if len(m.logBuffer) == 0 {
		return ""
	}

	start := 0
	if len(m.logBuffer) > maxLogLines {
		start = len(m.logBuffer) - maxLogLines
	}

	header := "─── LOGS ───"
	if start > 0 {
		header = "─── LOGS ↓ ───"
	}
	lines := []string{helpStyle.Render(header)}

	for i := 0; i < maxLogLines; i++ {
		if start+i >= len(m.logBuffer) {
			lines = append(lines, "")
			continue
		}

		entry := m.logBuffer[start+i]
		levelStyle := successStyle
		switch entry.Level {
		case "ERR":
			levelStyle = errorStyle
		case "DBG":
			levelStyle = helpStyle
		}

		lines = append(lines, fmt.Sprintf("%s [%s] %s",
			entry.Timestamp.Format("15:04:05"),
			levelStyle.Render(entry.Level),
			truncate(entry.Message, 60)))
	}

	return strings.Join(lines, "\n")
}

func (m *RemoteModel) addLogEntry(level, message, action string) {
	m.logBuffer = append(m.logBuffer, LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Action:    action,
	})
	if len(m.logBuffer) > maxLogBuffer {
		m.logBuffer = m.logBuffer[1:]
	}
}

func (m RemoteModel) renderHelpText() string {
	help := "Arrows: Navigate • Enter: OK • P: Power • +/-: Volume • M: Mute • 0-9: Numbers"
	if m.width > 100 {
		help += " • H: Home • I: Input • F1-F4: HDMI • S: Power status • V: Volume • q: Disconnect"
	} else {
		help += " • q: Disconnect"
	}
	return helpStyle.Render(help)
}
