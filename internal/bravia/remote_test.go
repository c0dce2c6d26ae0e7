package bravia_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"braviactl/internal"
	"braviactl/internal/bravia"
	"braviactl/internal/device"
)

func newSimulatedRemote() *bravia.Remote {
	client := bravia.NewClient("192.168.1.20", bravia.WithMode(internal.NewModeOptions(internal.WithTest(true))))
	return bravia.NewRemote(client, "living-room", "Living Room")
}

func process(t *testing.T, d device.Device, action string) *device.ActionResponse {
	t.Helper()
	resp, err := d.Process(context.Background(), []byte(action))
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

func TestRemoteDeviceInfo(t *testing.T) {
	var d device.Device = newSimulatedRemote()

	info := d.GetDeviceInfo()
	assert.Equal(t, "living-room", info.ID)
	assert.Equal(t, "Living Room", info.Name)
	assert.Equal(t, "bravia_tv", info.Type)
	assert.Equal(t, "http://192.168.1.20", info.Address)
	assert.Contains(t, info.Capabilities, "remote_control")
}

func TestRemoteProcessRejects(t *testing.T) {
	d := newSimulatedRemote()

	tests := []struct {
		name   string
		action string
		errMsg string
	}{
		{"malformed json", `{"type":`, "failed to parse action request"},
		{"missing type", `{"action":"power_status"}`, "action type is required"},
		{"missing action", `{"type":"control"}`, "action is required"},
		{"unknown type", `{"type":"macro","action":"x"}`, "unsupported action type: macro"},
		{"unknown control", `{"type":"control","action":"reboot"}`, "unsupported control action: reboot"},
		{"missing volume", `{"type":"control","action":"set_volume"}`, "invalid parameters"},
		{"bad volume", `{"type":"control","action":"set_volume","parameters":{"volume":"loud"}}`, "invalid parameters"},
		{"bad mute", `{"type":"control","action":"set_mute","parameters":{"status":[1]}}`, "invalid parameters"},
		{"missing uri", `{"type":"control","action":"launch_app"}`, "invalid parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := process(t, d, tt.action)
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Error, tt.errMsg)
		})
	}
}

func TestRemoteProcessControl(t *testing.T) {
	d := newSimulatedRemote()

	t.Run("power status", func(t *testing.T) {
		resp := process(t, d, `{"type":"control","action":"power_status"}`)
		require.True(t, resp.Success, resp.Error)
		assert.Equal(t, bravia.PowerStatus{Status: "active"}, resp.Data)
	})

	t.Run("set volume with number", func(t *testing.T) {
		resp := process(t, d, `{"type":"control","action":"set_volume","parameters":{"volume":42}}`)
		require.True(t, resp.Success, resp.Error)

		resp = process(t, d, `{"type":"control","action":"volume_info"}`)
		require.True(t, resp.Success, resp.Error)
		volumes, ok := resp.Data.([]bravia.VolumeInformation)
		require.True(t, ok)
		assert.Equal(t, 42, volumes[0].Volume)
	})

	t.Run("mute", func(t *testing.T) {
		resp := process(t, d, `{"type":"control","action":"set_mute","parameters":{"status":true}}`)
		require.True(t, resp.Success, resp.Error)
	})

	t.Run("power toggle and off", func(t *testing.T) {
		require.True(t, process(t, d, `{"type":"control","action":"power_toggle"}`).Success)
		require.True(t, process(t, d, `{"type":"control","action":"power_on"}`).Success)
		require.True(t, process(t, d, `{"type":"control","action":"power_off"}`).Success)

		resp := process(t, d, `{"type":"control","action":"playing_content"}`)
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "Display Is Turned off")
	})

	t.Run("every control action is routed", func(t *testing.T) {
		params := map[device.ControlAction]map[string]any{
			device.ControlActionSetVolume:   {"volume": "+1"},
			device.ControlActionSetMute:     {"status": "false"},
			device.ControlActionLaunchApp:   {"uri": "com.sony.dtv.netflix"},
			device.ControlActionContentList: {"uri": "extInput:hdmi", "count": 2},
			device.ControlActionPlayContent: {"uri": "extInput:hdmi?port=2"},
		}

		require.True(t, process(t, d, `{"type":"control","action":"power_on"}`).Success)
		for _, action := range device.ControlActions {
			req, err := json.Marshal(device.ActionRequest{
				Type:       device.ActionTypeControl,
				Action:     string(action),
				Parameters: params[action],
			})
			require.NoError(t, err)

			resp := process(t, d, string(req))
			assert.True(t, resp.Success, "%s: %s", action, resp.Error)
		}
	})
}

func TestRemoteProcessRemote(t *testing.T) {
	tv := newFakeTV(t, nil)
	d := bravia.NewRemote(bravia.NewClient(tv.URL), "tv", "TV")

	resp := process(t, d, `{"type":"remote","action":"Home"}`)
	require.True(t, resp.Success, resp.Error)
	assert.Contains(t, resp.Data, "Home")

	resp = process(t, d, `{"type":"remote","action":"AAAAAQAAAAEAAAB0Aw=="}`)
	require.True(t, resp.Success, resp.Error)

	reqs := tv.Requests()
	require.Len(t, reqs, 2)
	assert.Contains(t, string(reqs[0].Body), "AAAAAQAAAAEAAABgAw==")
	assert.Contains(t, string(reqs[1].Body), "AAAAAQAAAAEAAAB0Aw==")
}

func TestRemoteProcessDeviceFailure(t *testing.T) {
	tv := newFakeTV(t, func(w http.ResponseWriter, _ recordedRequest) {
		http.Error(w, "Forbidden", http.StatusForbidden)
	})
	d := bravia.NewRemote(bravia.NewClient(tv.URL), "tv", "TV")

	resp := process(t, d, `{"type":"control","action":"system_info"}`)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "control request failed")
	assert.Contains(t, resp.Error, "403")

	resp = process(t, d, `{"type":"remote","action":"Home"}`)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "remote request failed")
}

func TestRemoteProcessCancelled(t *testing.T) {
	d := newSimulatedRemote()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Process(ctx, []byte(`{"type":"control","action":"power_status"}`))
	assert.ErrorIs(t, err, context.Canceled)
}
