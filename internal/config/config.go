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

	"gopkg.in/yaml.v3"
)

// DeviceTypeBravia is the only device type the tool drives today
const DeviceTypeBravia = "bravia"

// ErrDeviceNotFound is returned when a device ID is not configured
var ErrDeviceNotFound = errors.New("device not found")

// Config represents the braviactl configuration file
type Config struct {
	DefaultDevice string         `yaml:"default_device,omitempty"`
	Devices       []DeviceConfig `yaml:"devices"`
	Server        ServerConfig   `yaml:"server,omitempty"`
	History       HistoryConfig  `yaml:"history,omitempty"`
}

// DeviceConfig represents a single TV
type DeviceConfig struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name,omitempty"`
	Type         string   `yaml:"type"`
	Address      string   `yaml:"address"`
	PSK          string   `yaml:"psk,omitempty"` // plain or "sealed:..."
	Capabilities []string `yaml:"capabilities,omitempty"`
}

// DisplayName returns Name, or the ID when no name is set
func (d DeviceConfig) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// ServerConfig contains REST bridge settings
type ServerConfig struct {
	Listen    string `yaml:"listen,omitempty"`
	JWTSecret string `yaml:"jwt_secret,omitempty"`
	CacheSize int    `yaml:"cache_size,omitempty"`
}

// HistoryConfig points at the action history database
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Defaults applied when the file leaves a setting empty
const (
	DefaultListen      = ":8080"
	DefaultCacheSize   = 32
	DefaultHistoryPath = "braviactl.db"
)

// LoadConfig loads configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}
	if c.Server.CacheSize <= 0 {
		c.Server.CacheSize = DefaultCacheSize
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath
	}
	for i := range c.Devices {
		if c.Devices[i].Type == "" {
			c.Devices[i].Type = DeviceTypeBravia
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	deviceIDs := make(map[string]bool)
	for i, device := range c.Devices {
		if device.ID == "" {
			return fmt.Errorf("device[%d].id is required", i)
		}
		if deviceIDs[device.ID] {
			return fmt.Errorf("duplicate device ID: %s", device.ID)
		}
		deviceIDs[device.ID] = true

		if device.Address == "" {
			return fmt.Errorf("device[%d].address is required", i)
		}
		if device.Type != "" && device.Type != DeviceTypeBravia {
			return fmt.Errorf("device[%d].type %q is not supported", i, device.Type)
		}
	}

	if c.DefaultDevice != "" && !deviceIDs[c.DefaultDevice] {
		return fmt.Errorf("default_device %q is not configured", c.DefaultDevice)
	}

	if c.Server.CacheSize < 0 {
		return fmt.Errorf("server.cache_size must not be negative")
	}

	return nil
}

// GetDevice returns a device configuration by ID
func (c *Config) GetDevice(id string) (*DeviceConfig, error) {
	for i := range c.Devices {
		if c.Devices[i].ID == id {
			device := c.Devices[i]
			return &device, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
}

// ResolveDevice picks the device to talk to: id when given, otherwise the
// default device, otherwise the only configured one.
func (c *Config) ResolveDevice(id string) (*DeviceConfig, error) {
	if id != "" {
		return c.GetDevice(id)
	}
	if c.DefaultDevice != "" {
		return c.GetDevice(c.DefaultDevice)
	}
	if len(c.Devices) == 1 {
		device := c.Devices[0]
		return &device, nil
	}
	if len(c.Devices) == 0 {
		return nil, fmt.Errorf("no devices configured")
	}
	return nil, fmt.Errorf("%d devices configured and no default_device set", len(c.Devices))
}

// Save saves the configuration to a YAML file
func (c *Config) Save(filepath string) error {
	return SaveConfig(c, filepath)
}

// SaveConfig saves configuration to a YAML file. The file holds PSKs and is
// written 0600.
func SaveConfig(config *Config, filepath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// NewDefaultConfig creates a default configuration template
func NewDefaultConfig() *Config {
	config := &Config{
		DefaultDevice: "living_room_tv",
		Devices: []DeviceConfig{
			{
				ID:      "living_room_tv",
				Name:    "Living Room",
				Type:    DeviceTypeBravia,
				Address: "192.168.1.100",
				PSK:     "0000",
				Capabilities: []string{
					"remote_control",
					"system_control",
					"audio_control",
					"content_control",
					"app_control",
				},
			},
		},
	}
	config.applyDefaults()
	return config
}
