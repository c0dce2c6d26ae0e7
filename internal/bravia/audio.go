package bravia

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

var volumePattern = regexp.MustCompile(`^[+-]?\d{1,3}$`)

// GetVolumeInformation returns the volume of every audio target
func (c *Client) GetVolumeInformation(ctx context.Context) ([]VolumeInformation, error) {
	result, err := call[[][]VolumeInformation](ctx, c, AudioEndpoint, GetVolumeInformation, Version10)
	return first(GetVolumeInformation, result, err)
}

// SetAudioVolume sets the volume of target. volume is an absolute level
// ("25") or a relative step ("+2", "-5"); an empty target applies to all.
func (c *Client) SetAudioVolume(ctx context.Context, target, volume string) error {
	if !volumePattern.MatchString(volume) {
		return fmt.Errorf("invalid volume %q", volume)
	}

	_, err := call[json.RawMessage](ctx, c, AudioEndpoint, SetAudioVolume, Version10,
		map[string]string{"target": target, "volume": volume})
	return err
}

// SetVolumeLevel is SetAudioVolume with an absolute integer level
func (c *Client) SetVolumeLevel(ctx context.Context, target string, level int) error {
	if level < 0 {
		return fmt.Errorf("invalid volume level %d", level)
	}
	return c.SetAudioVolume(ctx, target, strconv.Itoa(level))
}

// SetAudioMute mutes (true) or unmutes (false) the TV
func (c *Client) SetAudioMute(ctx context.Context, mute bool) error {
	_, err := call[json.RawMessage](ctx, c, AudioEndpoint, SetAudioMute, Version10,
		map[string]bool{"status": mute})
	return err
}
