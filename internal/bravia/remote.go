package bravia

import (
	"context"
	"errors"
	"fmt"

	"braviactl/internal/device"
)

// Remote implements the Device interface for Sony Bravia TVs
type Remote struct {
	client *Client
	info   device.DeviceInfo
}

// NewRemote wraps client as a device.Device
func NewRemote(client *Client, id, name string) *Remote {
	return &Remote{
		client: client,
		info: device.DeviceInfo{
			ID:      id,
			Name:    name,
			Type:    "bravia_tv",
			Model:   "Sony Bravia",
			Address: client.BaseURL(),
			Capabilities: []string{
				"remote_control",
				"system_control",
				"audio_control",
				"content_control",
				"app_control",
			},
		},
	}
}

// Client returns the underlying API client
func (r *Remote) Client() *Client {
	return r.client
}

// GetDeviceInfo returns information about this Bravia device
func (r *Remote) GetDeviceInfo() device.DeviceInfo {
	return r.info
}

// Process handles JSON action requests and routes them to appropriate methods.
// Rejected or failed actions are reported in the response; the error return
// is reserved for a cancelled context.
func (r *Remote) Process(ctx context.Context, actionJSON []byte) (*device.ActionResponse, error) {
	request, err := device.ParseActionRequest(actionJSON)
	if err != nil {
		return device.Failure("%v", err), nil
	}

	var resp *device.ActionResponse
	switch request.Type {
	case device.ActionTypeRemote:
		resp = r.processRemoteAction(ctx, request)
	case device.ActionTypeControl:
		resp = r.processControlAction(ctx, request)
	default:
		resp = device.Failure("unsupported action type: %s", request.Type)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return resp, ctxErr
	}
	return resp, nil
}

// processRemoteAction sends one IRCC command. The action is a command name or
// a raw code and goes through the resolver.
func (r *Remote) processRemoteAction(ctx context.Context, request *device.ActionRequest) *device.ActionResponse {
	if _, err := r.client.SendIRCC(ctx, request.Action); err != nil {
		return device.Failure("remote request failed: %v", err)
	}

	return &device.ActionResponse{
		Success: true,
		Data:    fmt.Sprintf("Remote action '%s' executed successfully", request.Action),
	}
}

type controlHandler func(ctx context.Context, c *Client, req *device.ActionRequest) (any, error)

// processControlAction runs one typed API operation
func (r *Remote) processControlAction(ctx context.Context, request *device.ActionRequest) *device.ActionResponse {
	handler, ok := controlActionMap[device.ControlAction(request.Action)]
	if !ok {
		return device.Failure("unsupported control action: %s", request.Action)
	}

	data, err := handler(ctx, r.client, request)
	if err != nil {
		var invalid *invalidParameterError
		if errors.As(err, &invalid) {
			return device.Failure("invalid parameters: %v", invalid.err)
		}
		return device.Failure("control request failed: %v", err)
	}

	return &device.ActionResponse{
		Success: true,
		Data:    data,
	}
}

type invalidParameterError struct {
	err error
}

func (e *invalidParameterError) Error() string { return e.err.Error() }

func invalidParam(format string, args ...any) error {
	return &invalidParameterError{err: fmt.Errorf(format, args...)}
}

func requiredString(req *device.ActionRequest, key string) (string, error) {
	value, ok, err := req.String(key)
	if err != nil {
		return "", &invalidParameterError{err: err}
	}
	if !ok || value == "" {
		return "", invalidParam("%s parameter is required for %s action", key, req.Action)
	}
	return value, nil
}

func optionalString(req *device.ActionRequest, key, fallback string) (string, error) {
	value, ok, err := req.String(key)
	if err != nil {
		return "", &invalidParameterError{err: err}
	}
	if !ok || value == "" {
		return fallback, nil
	}
	return value, nil
}

// controlActionMap maps ControlAction to its client operation
var controlActionMap = map[device.ControlAction]controlHandler{
	device.ControlActionPowerStatus: func(ctx context.Context, c *Client, _ *device.ActionRequest) (any, error) {
		return c.GetPowerStatus(ctx)
	},
	device.ControlActionPowerOn: func(ctx context.Context, c *Client, _ *device.ActionRequest) (any, error) {
		return nil, c.SetPowerStatus(ctx, true)
	},
	device.ControlActionPowerOff: func(ctx context.Context, c *Client, _ *device.ActionRequest) (any, error) {
		return nil, c.SetPowerStatus(ctx, false)
	},
	device.ControlActionPowerToggle: func(ctx context.Context, c *Client, _ *device.ActionRequest) (any, error) {
		_, err := c.TogglePower(ctx)
		return nil, err
	},
	device.ControlActionSystemInfo: func(ctx context.Context, c *Client, _ *device.ActionRequest) (any, error) {
		return c.GetSystemInformation(ctx)
	},
	device.ControlActionNetworkSettings: func(ctx context.Context, c *Client, req *device.ActionRequest) (any, error) {
		netif, err := optionalString(req, "netif", "")
		if err != nil {
			return nil, err
		}
		return c.GetNetworkSettings(ctx, netif)
	},
	device.ControlActionCurrentTime: func(ctx context.Context, c *Client, _ *device.ActionRequest) (any, error) {
		return c.GetCurrentTime(ctx)
	},
	device.ControlActionVolumeInfo: func(ctx context.Context, c *Client, _ *device.ActionRequest) (any, error) {
		return c.GetVolumeInformation(ctx)
	},
	device.ControlActionSetVolume: func(ctx context.Context, c *Client, req *device.ActionRequest) (any, error) {
		volume, err := requiredString(req, "volume")
		if err != nil {
			return nil, err
		}
		if !volumePattern.MatchString(volume) {
			return nil, invalidParam("invalid volume %q", volume)
		}
		target, err := optionalString(req, "target", TargetSpeaker)
		if err != nil {
			return nil, err
		}
		return nil, c.SetAudioVolume(ctx, target, volume)
	},
	device.ControlActionSetMute: func(ctx context.Context, c *Client, req *device.ActionRequest) (any, error) {
		mute, ok, err := req.Bool("status")
		if err != nil {
			return nil, &invalidParameterError{err: err}
		}
		if !ok {
			return nil, invalidParam("status parameter is required for set_mute action")
		}
		return nil, c.SetAudioMute(ctx, mute)
	},
	device.ControlActionAppList: func(ctx context.Context, c *Client, _ *device.ActionRequest) (any, error) {
		return c.GetApplicationList(ctx)
	},
	device.ControlActionLaunchApp: func(ctx context.Context, c *Client, req *device.ActionRequest) (any, error) {
		uri, err := requiredString(req, "uri")
		if err != nil {
			return nil, err
		}
		return nil, c.SetActiveApp(ctx, uri)
	},
	device.ControlActionTerminateApps: func(ctx context.Context, c *Client, _ *device.ActionRequest) (any, error) {
		return nil, c.TerminateApps(ctx)
	},
	device.ControlActionSourceList: func(ctx context.Context, c *Client, req *device.ActionRequest) (any, error) {
		scheme, err := optionalString(req, "scheme", SchemeExtInput)
		if err != nil {
			return nil, err
		}
		return c.GetSourceList(ctx, scheme)
	},
	device.ControlActionContentList: func(ctx context.Context, c *Client, req *device.ActionRequest) (any, error) {
		uri, err := requiredString(req, "uri")
		if err != nil {
			return nil, err
		}
		index, _, err := req.Int("index")
		if err != nil {
			return nil, &invalidParameterError{err: err}
		}
		count, _, err := req.Int("count")
		if err != nil {
			return nil, &invalidParameterError{err: err}
		}
		return c.GetContentList(ctx, ContentListRequest{URI: uri, Index: index, Count: count})
	},
	device.ControlActionPlayingContent: func(ctx context.Context, c *Client, _ *device.ActionRequest) (any, error) {
		return c.GetPlayingContentInfo(ctx)
	},
	device.ControlActionPlayContent: func(ctx context.Context, c *Client, req *device.ActionRequest) (any, error) {
		uri, err := requiredString(req, "uri")
		if err != nil {
			return nil, err
		}
		return nil, c.SetPlayContent(ctx, uri)
	},
	device.ControlActionRemoteCommands: func(ctx context.Context, c *Client, _ *device.ActionRequest) (any, error) {
		info, err := c.GetRemoteControllerInfo(ctx)
		if err != nil {
			return nil, err
		}
		return info.Commands, nil
	},
}
