package config_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"braviactl/internal/config"
)

func newManager(t *testing.T) *config.Manager {
	t.Helper()
	return config.NewManager(filepath.Join(t.TempDir(), "braviactl.yml"))
}

func TestManagerInit(t *testing.T) {
	m := newManager(t)
	assert.False(t, m.Exists())
	assert.Error(t, m.Validate())

	cfg, err := m.Init(false)
	require.NoError(t, err)
	assert.True(t, m.Exists())
	assert.Equal(t, "living_room_tv", cfg.DefaultDevice)
	require.NoError(t, m.Validate())

	_, err = m.Init(false)
	assert.ErrorContains(t, err, "already exists")

	_, err = m.Init(true)
	assert.NoError(t, err)
}

func TestManagerDevices(t *testing.T) {
	m := newManager(t)

	devices, err := m.ListDevices()
	require.NoError(t, err)
	assert.Empty(t, devices, "missing file reads as empty")

	first, err := m.AddDevice(config.DeviceConfig{Name: "Living Room", Address: "192.168.1.20", PSK: "0000"})
	require.NoError(t, err)
	_, err = uuid.Parse(first.ID)
	assert.NoError(t, err, "generated IDs are UUIDs")
	assert.Equal(t, config.DeviceTypeBravia, first.Type)

	second, err := m.AddDevice(config.DeviceConfig{ID: "bedroom", Address: "192.168.1.21"})
	require.NoError(t, err)
	assert.Equal(t, "bedroom", second.ID)

	_, err = m.AddDevice(config.DeviceConfig{ID: "bedroom", Address: "192.168.1.22"})
	assert.ErrorContains(t, err, "already exists")

	cfg, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, first.ID, cfg.DefaultDevice, "first device becomes the default")

	require.NoError(t, m.SetDefault("bedroom"))
	assert.ErrorIs(t, m.SetDefault("kitchen"), config.ErrDeviceNotFound)

	require.NoError(t, m.UpdateDevice("bedroom", config.DeviceConfig{ID: "ignored", Name: "Bedroom", Address: "192.168.1.23"}))
	device, err := m.GetDevice("bedroom")
	require.NoError(t, err)
	assert.Equal(t, "Bedroom", device.Name)
	assert.Equal(t, "192.168.1.23", device.Address)
	assert.Equal(t, config.DeviceTypeBravia, device.Type)

	assert.ErrorIs(t, m.UpdateDevice("kitchen", config.DeviceConfig{Address: "x"}), config.ErrDeviceNotFound)

	require.NoError(t, m.RemoveDevice("bedroom"))
	assert.ErrorIs(t, m.RemoveDevice("bedroom"), config.ErrDeviceNotFound)

	cfg, err = m.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.DefaultDevice, "removing the default clears it")
	require.Len(t, cfg.Devices, 1)
	assert.Equal(t, first.ID, cfg.Devices[0].ID)
}

func TestSealPSK(t *testing.T) {
	sealed, err := config.SealPSK("0000", "correct horse")
	require.NoError(t, err)
	assert.True(t, config.IsSealed(sealed))
	assert.False(t, strings.Contains(sealed, "0000"))

	again, err := config.SealPSK("0000", "correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "salt and nonce are random")

	plain, err := config.OpenPSK(sealed, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "0000", plain)

	_, err = config.OpenPSK(sealed, "battery staple")
	assert.ErrorContains(t, err, "wrong passphrase")

	_, err = config.OpenPSK(sealed, "")
	assert.ErrorIs(t, err, config.ErrPassphraseRequired)

	_, err = config.OpenPSK(config.SealedPrefix+"AAAA", "correct horse")
	assert.Error(t, err)

	plain, err = config.OpenPSK("1234", "")
	require.NoError(t, err)
	assert.Equal(t, "1234", plain, "plain values pass through")

	_, err = config.SealPSK("0000", "")
	assert.ErrorIs(t, err, config.ErrPassphraseRequired)

	resealed, err := config.SealPSK(sealed, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, sealed, resealed, "sealed values are not sealed twice")
}

func TestManagerSeal(t *testing.T) {
	m := newManager(t)
	_, err := m.AddDevice(config.DeviceConfig{ID: "living", Address: "192.168.1.20", PSK: "0000"})
	require.NoError(t, err)
	_, err = m.AddDevice(config.DeviceConfig{ID: "open", Address: "192.168.1.21"})
	require.NoError(t, err)

	count, err := m.Seal("secret")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = m.Seal("secret")
	require.NoError(t, err)
	assert.Zero(t, count)

	device, err := m.GetDevice("living")
	require.NoError(t, err)
	assert.True(t, config.IsSealed(device.PSK))

	psk, err := device.PlainPSK("secret")
	require.NoError(t, err)
	assert.Equal(t, "0000", psk)

	_, err = device.PlainPSK("")
	assert.ErrorIs(t, err, config.ErrPassphraseRequired)
}
