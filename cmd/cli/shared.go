package cli

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type screen int

const (
	screenDeviceSetup screen = iota
	screenRemoteControl
)

// Common styles
var (
	titleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Padding(0, 1).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7D56F4")).
		Bold(true)

	inputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7D56F4")).
		Padding(0, 1).
		Width(50)

	inputFocusedStyle = inputStyle.
		BorderForeground(lipgloss.Color("#FF79C6"))

	buttonStyle = lipgloss.NewStyle().
		Background(lipgloss.Color("#7D56F4")).
		Foreground(lipgloss.Color("#FAFAFA")).
		Padding(0, 2).
		Margin(0, 1)

	buttonActiveStyle = buttonStyle.
		Background(lipgloss.Color("#FF79C6"))

	remoteButtonStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Background(lipgloss.Color("#44475A")).
		Foreground(lipgloss.Color("#F8F8F2"))

	remoteButtonActiveStyle = remoteButtonStyle.
		Background(lipgloss.Color("#FF79C6")).
		Foreground(lipgloss.Color("#FAFAFA"))

	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD"))
	testStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C"))

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF5555")).
		Bold(true)

	successStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#50FA7B")).
		Bold(true)

	helpStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6272A4"))
)

// remoteButton is one key of the on-screen remote. command is the IRCC
// command name sent when it is pressed.
type remoteButton struct {
	label   string
	command string
}

var (
	buttonPower      = remoteButton{" PWR  ", "TvPower"}
	buttonUp         = remoteButton{"  ↑   ", "Up"}
	buttonDown       = remoteButton{"  ↓   ", "Down"}
	buttonLeft       = remoteButton{"  ←   ", "Left"}
	buttonRight      = remoteButton{"  →   ", "Right"}
	buttonOK         = remoteButton{" OK   ", "Confirm"}
	buttonVolumeUp   = remoteButton{"VOL + ", "VolumeUp"}
	buttonVolumeDown = remoteButton{"VOL - ", "VolumeDown"}
	buttonMute       = remoteButton{"MUTE  ", "Mute"}
	buttonChannelUp  = remoteButton{"CH +  ", "ChannelUp"}
	buttonChannelDn  = remoteButton{"CH -  ", "ChannelDown"}
	buttonHome       = remoteButton{"HOME  ", "Home"}
	buttonOptions    = remoteButton{"OPTNS ", "Options"}
	buttonBack       = remoteButton{"BACK  ", "Return"}
	buttonInput      = remoteButton{"INPUT ", "Input"}
	buttonHDMI1      = remoteButton{"HDMI1 ", "Hdmi1"}
	buttonHDMI2      = remoteButton{"HDMI2 ", "Hdmi2"}
	buttonHDMI3      = remoteButton{"HDMI3 ", "Hdmi3"}
	buttonHDMI4      = remoteButton{"HDMI4 ", "Hdmi4"}
	buttonPlay       = remoteButton{"PLAY  ", "Play"}
	buttonPause      = remoteButton{"PAUSE ", "Pause"}
	buttonNetflix    = remoteButton{"NFLX  ", "Netflix"}
	buttonYouTube    = remoteButton{"YTUBE ", "YouTube"}
)

// remoteKeys maps keyboard keys to remote buttons
var remoteKeys = map[string]remoteButton{
	"up":        buttonUp,
	"down":      buttonDown,
	"left":      buttonLeft,
	"right":     buttonRight,
	"enter":     buttonOK,
	"p":         buttonPower,
	"+":         buttonVolumeUp,
	"=":         buttonVolumeUp,
	"-":         buttonVolumeDown,
	"m":         buttonMute,
	"pgup":      buttonChannelUp,
	"pgdown":    buttonChannelDn,
	"h":         buttonHome,
	"o":         buttonOptions,
	"backspace": buttonBack,
	"i":         buttonInput,
	"f1":        buttonHDMI1,
	"f2":        buttonHDMI2,
	"f3":        buttonHDMI3,
	"f4":        buttonHDMI4,
	" ":         buttonPlay,
	"k":         buttonPause,
	"n":         buttonNetflix,
	"y":         buttonYouTube,
	"0":         {"0", "Num0"},
	"1":         {"1", "Num1"},
	"2":         {"2", "Num2"},
	"3":         {"3", "Num3"},
	"4":         {"4", "Num4"},
	"5":         {"5", "Num5"},
	"6":         {"6", "Num6"},
	"7":         {"7", "Num7"},
	"8":         {"8", "Num8"},
	"9":         {"9", "Num9"},
}

// actionHistoryEntry is one action sent from the remote screen
type actionHistoryEntry struct {
	Timestamp time.Time
	Action    string
	Success   bool
	Error     string
}

// insertText inserts text at the specified position in a string
func insertText(text string, pos int, insert string) string {
	if pos < 0 {
		pos = 0
	}
	if pos > len(text) {
		pos = len(text)
	}
	return text[:pos] + insert + text[pos:]
}

// deleteCharAt deletes the character at the specified position
func deleteCharAt(text string, pos int) string {
	if pos < 0 || pos >= len(text) {
		return text
	}
	return text[:pos] + text[pos+1:]
}

// renderTextWithCursor renders text with a cursor at cursorPos. masked
// replaces every character with '*'.
func renderTextWithCursor(text string, cursorPos int, showCursor, masked bool) string {
	if masked {
		text = strings.Repeat("*", len(text))
	}

	if !showCursor || cursorPos < 0 {
		return text
	}
	if cursorPos >= len(text) {
		return text + "│"
	}

	highlighted := lipgloss.NewStyle().
		Background(lipgloss.Color("#FF79C6")).
		Foreground(lipgloss.Color("#FAFAFA")).
		Render(string(text[cursorPos]))

	return text[:cursorPos] + highlighted + text[cursorPos+1:]
}

// truncate shortens s to width runes, ending with "..."
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width || width < 4 {
		return s
	}
	return string(runes[:width-3]) + "..."
}
