package device_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"braviactl/internal/device"
)

func TestParseActionRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req, err := device.ParseActionRequest([]byte(`{"type":"control","action":"set_volume","parameters":{"volume":30}}`))
		require.NoError(t, err)
		assert.Equal(t, device.ActionTypeControl, req.Type)
		assert.Equal(t, "set_volume", req.Action)
		assert.Equal(t, float64(30), req.Parameters["volume"])
	})

	t.Run("invalid", func(t *testing.T) {
		for _, input := range []string{`not json`, `{}`, `{"type":"remote"}`, `{"action":"Home"}`} {
			_, err := device.ParseActionRequest([]byte(input))
			assert.Error(t, err, input)
		}
	})
}

func TestActionRequestParameters(t *testing.T) {
	req := &device.ActionRequest{
		Type:   device.ActionTypeControl,
		Action: "test",
		Parameters: map[string]any{
			"text":   "hdmi",
			"number": float64(25),
			"int":    7,
			"flag":   true,
			"yes":    "true",
			"list":   []any{1},
			"nil":    nil,
		},
	}

	t.Run("String", func(t *testing.T) {
		v, ok, err := req.String("text")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "hdmi", v)

		v, _, err = req.String("number")
		require.NoError(t, err)
		assert.Equal(t, "25", v)

		v, _, err = req.String("int")
		require.NoError(t, err)
		assert.Equal(t, "7", v)

		v, _, err = req.String("flag")
		require.NoError(t, err)
		assert.Equal(t, "true", v)

		_, ok, err = req.String("missing")
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = req.String("nil")
		require.NoError(t, err)
		assert.False(t, ok)

		_, _, err = req.String("list")
		assert.Error(t, err)
	})

	t.Run("Int", func(t *testing.T) {
		v, ok, err := req.Int("number")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 25, v)

		_, _, err = req.Int("text")
		assert.Error(t, err)

		_, ok, err = req.Int("missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Bool", func(t *testing.T) {
		v, ok, err := req.Bool("flag")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, v)

		v, _, err = req.Bool("yes")
		require.NoError(t, err)
		assert.True(t, v)

		_, _, err = req.Bool("text")
		assert.Error(t, err)

		_, _, err = req.Bool("number")
		assert.Error(t, err)
	})
}

func TestFailure(t *testing.T) {
	resp := device.Failure("unsupported control action: %s", "reboot")
	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.Equal(t, "unsupported control action: reboot", resp.Error)
}

func TestControlActionsAreUnique(t *testing.T) {
	seen := map[device.ControlAction]bool{}
	for _, action := range device.ControlActions {
		assert.False(t, seen[action], action)
		seen[action] = true
	}
	assert.Len(t, seen, 18)
}
