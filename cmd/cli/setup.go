package cli

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"braviactl/internal"
	"braviactl/internal/bravia"
	"braviactl/internal/config"
	"braviactl/internal/device"
	"braviactl/internal/logger"
)

// connectTimeout bounds the power status probe run on connect
const connectTimeout = 5 * time.Second

// simulatedHost stands in for the address in test mode
const simulatedHost = "bravia.test"

var hostnamePattern = regexp.MustCompile(`^[a-zA-Z0-9.-]+$`)

type setupField int

const (
	setupFieldDevices setupField = iota
	setupFieldHostAddress
	setupFieldCredential
	setupFieldConnect
)

// connectedMsg reports the outcome of a connection attempt
type connectedMsg struct {
	remote *bravia.Remote
	power  string
	err    error
}

// SetupModel handles the device selection screen. A configured TV can be
// picked from the list, or an address and PSK typed in.
type SetupModel struct {
	focusedField setupField

	devices        []config.DeviceConfig
	selectedDevice int
	configError    string

	hostAddress       string
	credential        string
	hostAddressCursor int
	credentialCursor  int

	connecting      bool
	connectionError string

	device     device.Device
	deviceInfo device.DeviceInfo
	power      string

	options Options
	logger  zerolog.Logger
}

// NewSetupModel creates a setup screen listing the devices of the
// configuration file
func NewSetupModel(opts Options) SetupModel {
	m := SetupModel{
		focusedField: setupFieldDevices,
		options:      opts,
		logger:       logger.Component("cli"),
	}

	if opts.ConfigPath != "" {
		cfg, err := config.NewManager(opts.ConfigPath).Load()
		if err != nil {
			m.configError = err.Error()
		} else {
			m.devices = cfg.Devices
			for i, d := range cfg.Devices {
				if d.ID == cfg.DefaultDevice {
					m.selectedDevice = i
				}
			}
		}
	}

	if len(m.devices) == 0 {
		m.focusedField = setupFieldHostAddress
	}
	return m
}

func (m SetupModel) mode() *internal.FnModeOptions {
	return internal.NewModeOptions(internal.WithDebug(m.options.Debug), internal.WithTest(m.options.Test))
}

// Update handles setup screen messages
func (m SetupModel) Update(msg tea.Msg) (SetupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case connectedMsg:
		m.connecting = false
		if msg.err != nil {
			m.connectionError = msg.err.Error()
			return m, nil
		}
		m.connectionError = ""
		m.device = msg.remote
		m.deviceInfo = msg.remote.GetDeviceInfo()
		m.power = msg.power

		m.logger.Info().
			Str("device_id", m.deviceInfo.ID).
			Str("address", m.deviceInfo.Address).
			Str("power", msg.power).
			Msg("Device connected successfully")
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			return m.handleTabNavigation(msg.String() == "shift+tab"), nil
		case "enter":
			switch m.focusedField {
			case setupFieldDevices:
				return m.connectConfigured()
			case setupFieldConnect, setupFieldHostAddress, setupFieldCredential:
				return m.connectManual()
			}
			return m, nil
		case "up":
			if m.focusedField == setupFieldDevices && m.selectedDevice > 0 {
				m.selectedDevice--
			}
			return m, nil
		case "down":
			if m.focusedField == setupFieldDevices && m.selectedDevice < len(m.devices)-1 {
				m.selectedDevice++
			}
			return m, nil
		case "left":
			return m.moveCursor(-1), nil
		case "right":
			return m.moveCursor(1), nil
		case "home":
			return m.moveCursor(-len(m.hostAddress) - len(m.credential)), nil
		case "end":
			return m.moveCursor(len(m.hostAddress) + len(m.credential)), nil
		case "backspace":
			return m.handleBackspace(), nil
		case "delete":
			return m.handleDelete(), nil
		default:
			return m.handleTextInput(msg), nil
		}
	}

	return m, nil
}

// View renders the setup screen
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("braviactl - Select a TV"))
	if m.options.Test {
		b.WriteString(" " + testStyle.Render("(Test)"))
	}
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render("Configured TVs:"))
	b.WriteString("\n")
	switch {
	case m.configError != "":
		b.WriteString(errorStyle.Render("  " + m.configError))
		b.WriteString("\n")
	case len(m.devices) == 0:
		b.WriteString(helpStyle.Render("  none, add one with 'braviactl config add'"))
		b.WriteString("\n")
	}
	for i, d := range m.devices {
		cursor := "  "
		if i == m.selectedDevice {
			cursor = "> "
		}
		style := lipgloss.NewStyle()
		if m.focusedField == setupFieldDevices && i == m.selectedDevice {
			style = style.Foreground(lipgloss.Color("#FF79C6"))
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%-20s %s", cursor, d.DisplayName(), d.Address)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(subtitleStyle.Render("Or connect to (IP or IP:Port):"))
	b.WriteString("\n")
	hostStyle := inputStyle
	if m.focusedField == setupFieldHostAddress {
		hostStyle = inputFocusedStyle
	}
	b.WriteString(hostStyle.Render(renderTextWithCursor(m.hostAddress, m.hostAddressCursor, m.focusedField == setupFieldHostAddress, false)))
	b.WriteString("\n")

	b.WriteString(subtitleStyle.Render("PSK:"))
	b.WriteString("\n")
	credStyle := inputStyle
	if m.focusedField == setupFieldCredential {
		credStyle = inputFocusedStyle
	}
	b.WriteString(credStyle.Render(renderTextWithCursor(m.credential, m.credentialCursor, m.focusedField == setupFieldCredential, true)))
	b.WriteString("\n\n")

	connectStyle := buttonStyle
	if m.focusedField == setupFieldConnect {
		connectStyle = buttonActiveStyle
	}
	connectText := "Connect"
	if m.connecting {
		connectText = "Connecting..."
	}
	b.WriteString(connectStyle.Render(connectText))
	b.WriteString("\n\n")

	if m.connectionError != "" {
		b.WriteString(errorStyle.Render("Error: " + m.connectionError))
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("↑/↓: Select TV • Tab: Next field • Enter: Connect • ←/→: Move cursor • Esc: Quit"))

	return b.String()
}

// Editing reports whether a text field has focus, so that printable keys
// are typed instead of treated as shortcuts
func (m SetupModel) Editing() bool {
	return m.focusedField == setupFieldHostAddress || m.focusedField == setupFieldCredential
}

func (m SetupModel) handleTabNavigation(reverse bool) SetupModel {
	fields := []setupField{setupFieldDevices, setupFieldHostAddress, setupFieldCredential, setupFieldConnect}
	if len(m.devices) == 0 {
		fields = fields[1:]
	}

	current := 0
	for i, field := range fields {
		if field == m.focusedField {
			current = i
			break
		}
	}

	if reverse {
		current = (current - 1 + len(fields)) % len(fields)
	} else {
		current = (current + 1) % len(fields)
	}

	m.focusedField = fields[current]
	return m
}

// connectConfigured connects to the selected configured TV
func (m SetupModel) connectConfigured() (SetupModel, tea.Cmd) {
	if m.connecting || len(m.devices) == 0 {
		return m, nil
	}

	cfg := m.devices[m.selectedDevice]
	psk, err := cfg.PlainPSK(m.options.Passphrase)
	if err != nil {
		m.connectionError = err.Error()
		return m, nil
	}

	m.connecting = true
	m.connectionError = ""
	return m, connect(cfg.ID, cfg.DisplayName(), cfg.Address, psk, m.mode())
}

// connectManual connects to the typed address
func (m SetupModel) connectManual() (SetupModel, tea.Cmd) {
	if m.connecting {
		return m, nil
	}

	host := m.hostAddress
	if host == "" && m.options.Test {
		host = simulatedHost
	}

	switch {
	case host == "":
		m.connectionError = "Host address is required"
		return m, nil
	case !IsValidHostAddress(host):
		m.connectionError = "Invalid host address format"
		return m, nil
	}

	m.connecting = true
	m.connectionError = ""
	return m, connect(host, host, host, m.credential, m.mode())
}

// connect builds the client and probes the TV with getPowerStatus
func connect(id, name, host, psk string, mode *internal.FnModeOptions) tea.Cmd {
	return func() tea.Msg {
		client := bravia.NewClient(host,
			bravia.WithPSK(psk),
			bravia.WithMode(mode),
			bravia.WithLogger(logger.Component("bravia").With().Str("device_id", id).Logger()),
		)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		status, err := client.GetPowerStatus(ctx)
		if err != nil {
			return connectedMsg{err: err}
		}
		return connectedMsg{remote: bravia.NewRemote(client, id, name), power: status.Status}
	}
}

// moveCursor moves the cursor of the focused text field by delta
func (m SetupModel) moveCursor(delta int) SetupModel {
	clamp := func(pos, limit int) int {
		if pos < 0 {
			return 0
		}
		if pos > limit {
			return limit
		}
		return pos
	}

	switch m.focusedField {
	case setupFieldHostAddress:
		m.hostAddressCursor = clamp(m.hostAddressCursor+delta, len(m.hostAddress))
	case setupFieldCredential:
		m.credentialCursor = clamp(m.credentialCursor+delta, len(m.credential))
	}
	return m
}

func (m SetupModel) handleBackspace() SetupModel {
	switch m.focusedField {
	case setupFieldHostAddress:
		if m.hostAddressCursor > 0 {
			m.hostAddress = deleteCharAt(m.hostAddress, m.hostAddressCursor-1)
			m.hostAddressCursor--
		}
	case setupFieldCredential:
		if m.credentialCursor > 0 {
			m.credential = deleteCharAt(m.credential, m.credentialCursor-1)
			m.credentialCursor--
		}
	}
	return m
}

func (m SetupModel) handleDelete() SetupModel {
	switch m.focusedField {
	case setupFieldHostAddress:
		m.hostAddress = deleteCharAt(m.hostAddress, m.hostAddressCursor)
	case setupFieldCredential:
		m.credential = deleteCharAt(m.credential, m.credentialCursor)
	}
	return m
}

// handleTextInput types printable ASCII into the focused field. Pasted
// text arrives as one message with several runes.
func (m SetupModel) handleTextInput(msg tea.KeyMsg) SetupModel {
	if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace {
		return m
	}

	var input strings.Builder
	for _, r := range msg.Runes {
		if r >= 32 && r < 127 {
			input.WriteRune(r)
		}
	}
	text := input.String()
	if text == "" {
		return m
	}

	switch m.focusedField {
	case setupFieldHostAddress:
		m.hostAddress = insertText(m.hostAddress, m.hostAddressCursor, text)
		m.hostAddressCursor += len(text)
	case setupFieldCredential:
		m.credential = insertText(m.credential, m.credentialCursor, text)
		m.credentialCursor += len(text)
	}
	return m
}

// IsValidHostAddress validates a host with an optional port
func IsValidHostAddress(address string) bool {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		host = address
		portStr = ""
	}

	if net.ParseIP(host) == nil && !hostnamePattern.MatchString(host) {
		return false
	}

	if portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port < 1 || port > 65535 {
			return false
		}
	}

	return true
}

// IsConnected returns true if device is connected
func (m SetupModel) IsConnected() bool {
	return m.device != nil
}

// GetDevice returns the connected device
func (m SetupModel) GetDevice() device.Device {
	return m.device
}

// GetDeviceInfo returns the device info
func (m SetupModel) GetDeviceInfo() device.DeviceInfo {
	return m.deviceInfo
}

// Power returns the power status reported on connect
func (m SetupModel) Power() string {
	return m.power
}
