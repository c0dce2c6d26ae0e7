package bravia

import (
	"context"
	"encoding/json"
)

// GetCurrentTime returns the TV clock as reported by getCurrentTime
func (c *Client) GetCurrentTime(ctx context.Context) (string, error) {
	result, err := call[[]string](ctx, c, SystemEndpoint, GetCurrentTime, Version10, "")
	return first(GetCurrentTime, result, err)
}

// GetPowerStatus returns whether the TV is active or in standby
func (c *Client) GetPowerStatus(ctx context.Context) (PowerStatus, error) {
	result, err := call[[]PowerStatus](ctx, c, SystemEndpoint, GetPowerStatus, Version10, "")
	return first(GetPowerStatus, result, err)
}

// SetPowerStatus turns the panel on (true) or puts it in standby (false)
func (c *Client) SetPowerStatus(ctx context.Context, on bool) error {
	_, err := call[json.RawMessage](ctx, c, SystemEndpoint, SetPowerStatus, Version10,
		map[string]bool{"status": on})
	return err
}

// GetSystemInformation returns model, serial and firmware details
func (c *Client) GetSystemInformation(ctx context.Context) (SystemInformation, error) {
	result, err := call[[]SystemInformation](ctx, c, SystemEndpoint, GetSystemInformation, Version10)
	return first(GetSystemInformation, result, err)
}

// GetInterfaceInformation returns the API interface description. It does not
// require a PSK on most models.
func (c *Client) GetInterfaceInformation(ctx context.Context) (InterfaceInformation, error) {
	result, err := call[[]InterfaceInformation](ctx, c, SystemEndpoint, GetInterfaceInformation, Version10)
	return first(GetInterfaceInformation, result, err)
}

// GetNetworkSettings returns the settings of netif, or of every interface
// when netif is empty.
func (c *Client) GetNetworkSettings(ctx context.Context, netif string) ([]NetworkSetting, error) {
	result, err := call[[][]NetworkSetting](ctx, c, SystemEndpoint, GetNetworkSettings, Version10,
		map[string]string{"netif": netif})
	return first(GetNetworkSettings, result, err)
}

// GetRemoteControllerInfo returns the IRCC command list supported by the TV
func (c *Client) GetRemoteControllerInfo(ctx context.Context) (RemoteControllerInfo, error) {
	return call[RemoteControllerInfo](ctx, c, SystemEndpoint, GetRemoteControllerInfo, Version10)
}
