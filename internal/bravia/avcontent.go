package bravia

import (
	"context"
	"encoding/json"
	"errors"
)

// GetSourceList returns the sources of scheme ("extInput", "tv")
func (c *Client) GetSourceList(ctx context.Context, scheme string) ([]Source, error) {
	if scheme == "" {
		scheme = SchemeExtInput
	}

	result, err := call[[][]Source](ctx, c, AVContentEndpoint, GetSourceList, Version10,
		map[string]string{"scheme": scheme})
	return first(GetSourceList, result, err)
}

// ContentListRequest selects a page of getContentList
type ContentListRequest struct {
	URI   string `json:"uri"`
	Index int    `json:"stIdx"`
	Count int    `json:"cnt"`
}

// GetContentList returns one page of the content below uri
// (for instance "extInput:hdmi" or "tv:dvbt")
func (c *Client) GetContentList(ctx context.Context, req ContentListRequest) ([]Content, error) {
	if req.URI == "" {
		return nil, errors.New("content uri is required")
	}
	if req.Count <= 0 {
		req.Count = 50
	}

	result, err := call[[][]Content](ctx, c, AVContentEndpoint, GetContentList, Version15, req)
	return first(GetContentList, result, err)
}

// GetPlayingContentInfo returns what the TV is showing
func (c *Client) GetPlayingContentInfo(ctx context.Context) (PlayingContentInfo, error) {
	result, err := call[[]PlayingContentInfo](ctx, c, AVContentEndpoint, GetPlayingContentInfo, Version10)
	return first(GetPlayingContentInfo, result, err)
}

// GetCurrentExternalInputsStatus returns the HDMI/composite inputs and
// whether something is connected to them
func (c *Client) GetCurrentExternalInputsStatus(ctx context.Context) ([]ExternalInputStatus, error) {
	result, err := call[[][]ExternalInputStatus](ctx, c, AVContentEndpoint, GetCurrentExternalInputsStatus, Version10)
	return first(GetCurrentExternalInputsStatus, result, err)
}

// SetPlayContent switches to the content identified by uri
func (c *Client) SetPlayContent(ctx context.Context, uri string) error {
	if uri == "" {
		return errors.New("content uri is required")
	}

	_, err := call[json.RawMessage](ctx, c, AVContentEndpoint, SetPlayContent, Version10,
		map[string]string{"uri": uri})
	return err
}
