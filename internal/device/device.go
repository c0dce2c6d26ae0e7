package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Device represents a generic device that can process commands
type Device interface {
	// Process handles a JSON-encoded action and executes the corresponding operation
	Process(ctx context.Context, actionJSON []byte) (*ActionResponse, error)

	// GetDeviceInfo returns basic information about the device
	GetDeviceInfo() DeviceInfo
}

// DeviceInfo contains basic information about a device
type DeviceInfo struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name,omitempty"`
	Type         string   `json:"type"`
	Model        string   `json:"model"`
	Address      string   `json:"address"`
	Capabilities []string `json:"capabilities"`
}

// ActionType represents the type of action to perform
type ActionType string

const (
	ActionTypeRemote  ActionType = "remote"
	ActionTypeControl ActionType = "control"
)

// ActionRequest represents a JSON action request
type ActionRequest struct {
	Type       ActionType     `json:"type"`                 // "remote" or "control"
	Action     string         `json:"action"`               // command name, raw code or control action
	Parameters map[string]any `json:"parameters,omitempty"` // optional parameters
}

// ActionResponse represents the response from processing an action
type ActionResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Failure builds an unsuccessful response
func Failure(format string, args ...any) *ActionResponse {
	return &ActionResponse{
		Success: false,
		Error:   fmt.Sprintf(format, args...),
	}
}

// ControlAction represents available control API actions
type ControlAction string

const (
	ControlActionPowerStatus     ControlAction = "power_status"
	ControlActionPowerOn         ControlAction = "power_on"
	ControlActionPowerOff        ControlAction = "power_off"
	ControlActionPowerToggle     ControlAction = "power_toggle"
	ControlActionSystemInfo      ControlAction = "system_info"
	ControlActionNetworkSettings ControlAction = "network_settings"
	ControlActionCurrentTime     ControlAction = "current_time"
	ControlActionVolumeInfo      ControlAction = "volume_info"
	ControlActionSetVolume       ControlAction = "set_volume"
	ControlActionSetMute         ControlAction = "set_mute"
	ControlActionAppList         ControlAction = "app_list"
	ControlActionLaunchApp       ControlAction = "launch_app"
	ControlActionTerminateApps   ControlAction = "terminate_apps"
	ControlActionSourceList      ControlAction = "source_list"
	ControlActionContentList     ControlAction = "content_list"
	ControlActionPlayingContent  ControlAction = "playing_content"
	ControlActionPlayContent     ControlAction = "play_content"
	ControlActionRemoteCommands  ControlAction = "remote_commands"
)

// ControlActions lists every control action in a stable order
var ControlActions = []ControlAction{
	ControlActionPowerStatus,
	ControlActionPowerOn,
	ControlActionPowerOff,
	ControlActionPowerToggle,
	ControlActionSystemInfo,
	ControlActionNetworkSettings,
	ControlActionCurrentTime,
	ControlActionVolumeInfo,
	ControlActionSetVolume,
	ControlActionSetMute,
	ControlActionAppList,
	ControlActionLaunchApp,
	ControlActionTerminateApps,
	ControlActionSourceList,
	ControlActionContentList,
	ControlActionPlayingContent,
	ControlActionPlayContent,
	ControlActionRemoteCommands,
}

// ParseActionRequest parses JSON input into ActionRequest
func ParseActionRequest(actionJSON []byte) (*ActionRequest, error) {
	var request ActionRequest
	if err := json.Unmarshal(actionJSON, &request); err != nil {
		return nil, fmt.Errorf("failed to parse action request: %w", err)
	}

	// Validate required fields
	if request.Type == "" {
		return nil, errors.New("action type is required")
	}

	if request.Action == "" {
		return nil, errors.New("action is required")
	}

	return &request, nil
}

// String returns parameter key as a string. Numbers and booleans are
// formatted; a missing key reports false.
func (r *ActionRequest) String(key string) (string, bool, error) {
	value, ok := r.Parameters[key]
	if !ok || value == nil {
		return "", false, nil
	}

	switch v := value.(type) {
	case string:
		return v, true, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true, nil
	case int:
		return strconv.Itoa(v), true, nil
	case bool:
		return strconv.FormatBool(v), true, nil
	default:
		return "", true, fmt.Errorf("invalid %s parameter type %T", key, value)
	}
}

// Int returns parameter key as an int
func (r *ActionRequest) Int(key string) (int, bool, error) {
	value, ok := r.Parameters[key]
	if !ok || value == nil {
		return 0, false, nil
	}

	switch v := value.(type) {
	case float64:
		return int(v), true, nil
	case int:
		return v, true, nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, true, fmt.Errorf("invalid %s parameter: %w", key, err)
		}
		return n, true, nil
	default:
		return 0, true, fmt.Errorf("invalid %s parameter type %T", key, value)
	}
}

// Bool returns parameter key as a bool
func (r *ActionRequest) Bool(key string) (bool, bool, error) {
	value, ok := r.Parameters[key]
	if !ok || value == nil {
		return false, false, nil
	}

	switch v := value.(type) {
	case bool:
		return v, true, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, true, fmt.Errorf("invalid %s parameter: %w", key, err)
		}
		return b, true, nil
	default:
		return false, true, fmt.Errorf("invalid %s parameter type %T", key, value)
	}
}
