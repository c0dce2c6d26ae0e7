package bravia

import (
	"context"
	"encoding/json"
	"errors"
)

// GetApplicationList returns the installed applications
func (c *Client) GetApplicationList(ctx context.Context) ([]ApplicationInfo, error) {
	result, err := call[[][]ApplicationInfo](ctx, c, AppControlEndpoint, GetApplicationList, Version10)
	return first(GetApplicationList, result, err)
}

// GetApplicationStatusList returns the state of the system applications
// (text input, browser, cursor display)
func (c *Client) GetApplicationStatusList(ctx context.Context) ([]ApplicationStatus, error) {
	result, err := call[[][]ApplicationStatus](ctx, c, AppControlEndpoint, GetApplicationStatusList, Version10)
	return first(GetApplicationStatusList, result, err)
}

// SetActiveApp launches the application identified by uri
func (c *Client) SetActiveApp(ctx context.Context, uri string) error {
	if uri == "" {
		return errors.New("application uri is required")
	}

	_, err := call[json.RawMessage](ctx, c, AppControlEndpoint, SetActiveApp, Version10,
		map[string]string{"uri": uri})
	return err
}

// TerminateApps closes every running application
func (c *Client) TerminateApps(ctx context.Context) error {
	_, err := call[json.RawMessage](ctx, c, AppControlEndpoint, TerminateApps, Version10)
	return err
}
