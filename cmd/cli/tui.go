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
	"github.com/charmbracelet/bubbletea"

	"braviactl/internal/history"
)

// Options configures the terminal remote
type Options struct {
	ConfigPath string
	Passphrase string
	Debug      bool
	Test       bool

	// History records every action when set
	History *history.Store
}

// Main TUI model that routes between screens
type model struct {
	currentScreen screen
	width         int
	height        int
	quitting      bool
	options       Options

	setupModel  SetupModel
	remoteModel RemoteModel
}

func initialModel(opts Options) model {
	return model{
		currentScreen: screenDeviceSetup,
		options:       opts,
		setupModel:    NewSetupModel(opts),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.remoteModel, _ = m.remoteModel.Update(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "esc", "q":
			if msg.String() == "q" && m.currentScreen == screenDeviceSetup && m.setupModel.Editing() {
				break
			}
			if m.currentScreen == screenDeviceSetup {
				m.quitting = true
				return m, tea.Quit
			}
			// back to the device list
			m.currentScreen = screenDeviceSetup
			m.setupModel = NewSetupModel(m.options)
			return m, nil
		}
	}

	switch m.currentScreen {
	case screenDeviceSetup:
		var cmd tea.Cmd
		m.setupModel, cmd = m.setupModel.Update(msg)

		if m.setupModel.IsConnected() {
			m.remoteModel = NewRemoteModel(
				m.setupModel.GetDevice(),
				m.setupModel.GetDeviceInfo(),
				m.setupModel.Power(),
				m.options,
			)
			m.remoteModel.width = m.width
			m.remoteModel.height = m.height
			m.currentScreen = screenRemoteControl
		}
		return m, cmd

	case screenRemoteControl:
		var cmd tea.Cmd
		m.remoteModel, cmd = m.remoteModel.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return successStyle.Render("Bye from braviactl!") + "\n"
	}

	switch m.currentScreen {
	case screenDeviceSetup:
		return m.setupModel.View()
	case screenRemoteControl:
		return m.remoteModel.View()
	default:
		return "Unknown screen"
	}
}

// StartTUI runs the terminal remote until the user quits
func StartTUI(opts Options) error {
	p := tea.NewProgram(
		initialModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	defer func() {
		if r := recover(); r != nil {
			p.Kill()
		}
	}()

	_, err := p.Run()
	return err
}
