// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// Manager handles configuration file operations. Every mutation loads the
// file, applies the change and writes it back.
type Manager struct {
	configPath string
}

// NewManager creates a new config manager
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
	}
}

// Path returns the configuration file path
func (m *Manager) Path() string {
	return m.configPath
}

// Exists reports whether the configuration file is present
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.configPath)
	return err == nil
}

// Init writes the default configuration. An existing file is only replaced
// when force is set.
func (m *Manager) Init(force bool) (*Config, error) {
	if m.Exists() && !force {
		return nil, fmt.Errorf("config file %s already exists", m.configPath)
	}

	config := NewDefaultConfig()
	if err := m.Save(config); err != nil {
		return nil, err
	}
	return config, nil
}

// Load loads the configuration. A missing file yields an empty one so that
// the first AddDevice creates it.
func (m *Manager) Load() (*Config, error) {
	if _, err := os.Stat(m.configPath); errors.Is(err, os.ErrNotExist) {
		config := &Config{}
		config.applyDefaults()
		return config, nil
	}

	config, err := LoadConfig(m.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return config, nil
}

// Save saves the configuration after validating it
func (m *Manager) Save(config *Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := SaveConfig(config, m.configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// AddDevice adds a new device and returns it with its ID filled in. The
// first device added becomes the default.
func (m *Manager) AddDevice(device DeviceConfig) (*DeviceConfig, error) {
	config, err := m.Load()
	if err != nil {
		return nil, err
	}

	if device.ID == "" {
		device.ID = uuid.New().String()
	}
	if device.Type == "" {
		device.Type = DeviceTypeBravia
	}

	for _, existing := range config.Devices {
		if existing.ID == device.ID {
			return nil, fmt.Errorf("device with ID '%s' already exists", device.ID)
		}
	}

	config.Devices = append(config.Devices, device)
	if config.DefaultDevice == "" {
		config.DefaultDevice = device.ID
	}

	if err := m.Save(config); err != nil {
		return nil, err
	}
	return &device, nil
}

// UpdateDevice updates an existing device in the configuration
func (m *Manager) UpdateDevice(deviceID string, updated DeviceConfig) error {
	config, err := m.Load()
	if err != nil {
		return err
	}

	for i, device := range config.Devices {
		if device.ID == deviceID {
			updated.ID = deviceID
			if updated.Type == "" {
				updated.Type = device.Type
			}
			config.Devices[i] = updated
			return m.Save(config)
		}
	}

	return fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
}

// RemoveDevice removes a device from the configuration
func (m *Manager) RemoveDevice(deviceID string) error {
	config, err := m.Load()
	if err != nil {
		return err
	}

	for i, device := range config.Devices {
		if device.ID == deviceID {
			config.Devices = append(config.Devices[:i], config.Devices[i+1:]...)
			if config.DefaultDevice == deviceID {
				config.DefaultDevice = ""
			}
			return m.Save(config)
		}
	}

	return fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
}

// GetDevice gets a specific device from the configuration
func (m *Manager) GetDevice(deviceID string) (*DeviceConfig, error) {
	config, err := m.Load()
	if err != nil {
		return nil, err
	}
	return config.GetDevice(deviceID)
}

// ListDevices returns all devices from the configuration
func (m *Manager) ListDevices() ([]DeviceConfig, error) {
	config, err := m.Load()
	if err != nil {
		return nil, err
	}
	return config.Devices, nil
}

// SetDefault makes deviceID the default device
func (m *Manager) SetDefault(deviceID string) error {
	config, err := m.Load()
	if err != nil {
		return err
	}
	if _, err := config.GetDevice(deviceID); err != nil {
		return err
	}

	config.DefaultDevice = deviceID
	return m.Save(config)
}

// Seal encrypts every plain PSK in the file with passphrase
func (m *Manager) Seal(passphrase string) (int, error) {
	config, err := m.Load()
	if err != nil {
		return 0, err
	}

	sealed, err := config.SealPSKs(passphrase)
	if err != nil {
		return 0, err
	}
	if sealed == 0 {
		return 0, nil
	}
	return sealed, m.Save(config)
}

// Validate loads the configuration, which validates it
func (m *Manager) Validate() error {
	if !m.Exists() {
		return fmt.Errorf("config file %s does not exist", m.configPath)
	}
	_, err := m.Load()
	return err
}
