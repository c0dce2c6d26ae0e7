package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"braviactl/internal/config"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "braviactl.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, `
default_device: bedroom
devices:
  - id: living
    address: 192.168.1.20
    psk: "0000"
  - id: bedroom
    name: Bedroom
    type: bravia
    address: http://192.168.1.21
server:
  listen: ":9000"
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "bedroom", cfg.DefaultDevice)
	require.Len(t, cfg.Devices, 2)
	assert.Equal(t, config.DeviceTypeBravia, cfg.Devices[0].Type, "type defaults to bravia")
	assert.Equal(t, "0000", cfg.Devices[0].PSK)
	assert.Equal(t, ":9000", cfg.Server.Listen)
	assert.Equal(t, config.DefaultCacheSize, cfg.Server.CacheSize)
	assert.Equal(t, config.DefaultHistoryPath, cfg.History.Path)

	device, err := cfg.GetDevice("bedroom")
	require.NoError(t, err)
	assert.Equal(t, "Bedroom", device.DisplayName())

	device, err = cfg.GetDevice("living")
	require.NoError(t, err)
	assert.Equal(t, "living", device.DisplayName())

	_, err = cfg.GetDevice("kitchen")
	assert.ErrorIs(t, err, config.ErrDeviceNotFound)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.LoadConfig(writeFile(t, "devices: ["))
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		config config.Config
		errMsg string
	}{
		{"empty is valid", config.Config{}, ""},
		{"missing id", config.Config{Devices: []config.DeviceConfig{{Address: "tv"}}}, "device[0].id is required"},
		{"missing address", config.Config{Devices: []config.DeviceConfig{{ID: "tv"}}}, "device[0].address is required"},
		{"duplicate", config.Config{Devices: []config.DeviceConfig{{ID: "tv", Address: "a"}, {ID: "tv", Address: "b"}}}, "duplicate device ID: tv"},
		{"bad type", config.Config{Devices: []config.DeviceConfig{{ID: "tv", Address: "a", Type: "roku"}}}, "not supported"},
		{"unknown default", config.Config{DefaultDevice: "tv"}, "default_device"},
		{"negative cache", config.Config{Server: config.ServerConfig{CacheSize: -1}}, "cache_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestResolveDevice(t *testing.T) {
	single := &config.Config{Devices: []config.DeviceConfig{{ID: "tv", Address: "a"}}}
	device, err := single.ResolveDevice("")
	require.NoError(t, err)
	assert.Equal(t, "tv", device.ID)

	multi := &config.Config{
		DefaultDevice: "b",
		Devices:       []config.DeviceConfig{{ID: "a", Address: "a"}, {ID: "b", Address: "b"}},
	}
	device, err = multi.ResolveDevice("")
	require.NoError(t, err)
	assert.Equal(t, "b", device.ID)

	device, err = multi.ResolveDevice("a")
	require.NoError(t, err)
	assert.Equal(t, "a", device.ID)

	multi.DefaultDevice = ""
	_, err = multi.ResolveDevice("")
	assert.ErrorContains(t, err, "no default_device")

	_, err = (&config.Config{}).ResolveDevice("")
	assert.ErrorContains(t, err, "no devices configured")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "braviactl.yml")

	cfg := config.NewDefaultConfig()
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("BRAVIACTL_CONFIG", "")
	t.Setenv("BRAVIACTL_HOST", "192.168.1.30")
	t.Setenv("BRAVIACTL_PSK", "1234")
	t.Setenv("BRAVIACTL_DEBUG", "true")

	env, err := config.LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.30", env.Host)
	assert.Equal(t, "1234", env.PSK)
	assert.Equal(t, "braviactl.yml", env.Config)
	assert.True(t, env.Debug)

	t.Setenv("BRAVIACTL_DEBUG", "maybe")
	_, err = config.LoadEnv()
	assert.ErrorContains(t, err, "invalid BRAVIACTL_DEBUG")
}

func TestLoadEnvEmptyValues(t *testing.T) {
	t.Setenv("BRAVIACTL_DEBUG", "")
	t.Setenv("BRAVIACTL_CONFIG", "")
	t.Setenv("BRAVIACTL_HOST", "")

	env, err := config.LoadEnv()
	require.NoError(t, err)
	assert.False(t, env.Debug)
	assert.Equal(t, config.DefaultConfigFile, env.Config)
	assert.Empty(t, env.Host)

	t.Setenv("BRAVIACTL_CONFIG", "/etc/braviactl/tv.yml")
	t.Setenv("BRAVIACTL_DEBUG", "1")

	env, err = config.LoadEnv()
	require.NoError(t, err)
	assert.True(t, env.Debug)
	assert.Equal(t, "/etc/braviactl/tv.yml", env.Config)
}
