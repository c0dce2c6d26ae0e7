package devices

import (
	"context"
	"fmt"
	"sync"

	"braviactl/internal"
	"braviactl/internal/bravia"
	"braviactl/internal/config"
	"braviactl/internal/device"
	"braviactl/internal/logger"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// Factory builds a device from its configuration entry
type Factory func(cfg config.DeviceConfig) (device.Device, error)

// Manager hands out device instances for configured TVs. Instances are built
// on first use and kept in a bounded LRU keyed by device ID.
type Manager struct {
	mutex   sync.Mutex
	config  *config.Config
	cache   *lru.Cache[string, device.Device]
	factory Factory
	logger  zerolog.Logger
}

// Option configures a Manager
type Option func(*managerOptions)

type managerOptions struct {
	size    int
	factory Factory
}

// WithCacheSize bounds how many device instances are kept
func WithCacheSize(size int) Option {
	return func(o *managerOptions) {
		o.size = size
	}
}

// WithFactory replaces the device constructor
func WithFactory(factory Factory) Option {
	return func(o *managerOptions) {
		o.factory = factory
	}
}

// NewManager creates a device manager over cfg
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	options := managerOptions{
		size:    cfg.Server.CacheSize,
		factory: BraviaFactory(internal.NewModeOptions(), ""),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.size <= 0 {
		options.size = config.DefaultCacheSize
	}

	m := &Manager{
		config:  cfg,
		factory: options.factory,
		logger:  logger.Component("devices"),
	}

	cache, err := lru.NewWithEvict(options.size, func(id string, _ device.Device) {
		m.logger.Debug().Str("device_id", id).Msg("Device evicted")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create device cache: %w", err)
	}
	m.cache = cache

	return m, nil
}

// BraviaFactory builds bravia.Remote devices. Sealed PSKs are opened with
// passphrase.
func BraviaFactory(mode *internal.FnModeOptions, passphrase string) Factory {
	return func(cfg config.DeviceConfig) (device.Device, error) {
		switch cfg.Type {
		case config.DeviceTypeBravia, "":
		default:
			return nil, fmt.Errorf("unsupported device type: %s", cfg.Type)
		}

		psk, err := cfg.PlainPSK(passphrase)
		if err != nil {
			return nil, err
		}

		client := bravia.NewClient(cfg.Address,
			bravia.WithPSK(psk),
			bravia.WithMode(mode),
			bravia.WithLogger(logger.Component("bravia").With().Str("device_id", cfg.ID).Logger()),
		)
		return bravia.NewRemote(client, cfg.ID, cfg.DisplayName()), nil
	}
}

// Get returns the device with id, building it on first use
func (m *Manager) Get(id string) (device.Device, error) {
	if dev, ok := m.cache.Get(id); ok {
		return dev, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if dev, ok := m.cache.Get(id); ok {
		return dev, nil
	}

	cfg, err := m.config.GetDevice(id)
	if err != nil {
		return nil, err
	}

	dev, err := m.factory(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create device %s: %w", id, err)
	}

	m.cache.Add(id, dev)
	m.logger.Info().
		Str("device_id", id).
		Str("device_address", cfg.Address).
		Msg("Device initialized")

	return dev, nil
}

// List returns the info of every configured device, in config order
func (m *Manager) List() []device.DeviceInfo {
	m.mutex.Lock()
	cfg := m.config
	m.mutex.Unlock()

	infos := make([]device.DeviceInfo, 0, len(cfg.Devices))
	for _, d := range cfg.Devices {
		infos = append(infos, device.DeviceInfo{
			ID:           d.ID,
			Name:         d.DisplayName(),
			Type:         d.Type,
			Model:        "Sony Bravia",
			Address:      d.Address,
			Capabilities: d.Capabilities,
		})
	}
	return infos
}

// Info returns the info of one device
func (m *Manager) Info(id string) (device.DeviceInfo, error) {
	dev, err := m.Get(id)
	if err != nil {
		return device.DeviceInfo{}, err
	}
	return dev.GetDeviceInfo(), nil
}

// Process runs one action on a device
func (m *Manager) Process(ctx context.Context, id string, actionJSON []byte) (*device.ActionResponse, error) {
	dev, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	m.logger.Debug().
		Str("device_id", id).
		Bytes("action", actionJSON).
		Msg("Processing device action")

	response, err := dev.Process(ctx, actionJSON)
	if err != nil {
		m.logger.Error().
			Str("device_id", id).
			Err(err).
			Msg("Device action processing failed")
		return nil, err
	}

	m.logger.Info().
		Str("device_id", id).
		Bool("success", response.Success).
		Msg("Device action processed")

	return response, nil
}

// Reload swaps in a new configuration and drops every built device
func (m *Manager) Reload(cfg *config.Config) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.config = cfg
	m.cache.Purge()

	m.logger.Info().
		Int("device_count", len(cfg.Devices)).
		Msg("Device manager reloaded")
}

// Len returns how many device instances are currently built
func (m *Manager) Len() int {
	return m.cache.Len()
}
