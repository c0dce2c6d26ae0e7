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

package bravia

import (
	"encoding/json"
	"fmt"
)

// RemoteCode represents a base64 IRCC code for Sony Bravia TVs
type RemoteCode string

// Endpoint represents an API endpoint path for Sony Bravia control
type Endpoint string

// Method represents an API method for Sony Bravia control
type Method string

// Payload represents the JSON envelope sent to every control API endpoint
type Payload struct {
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Version string `json:"version"`
	Params  []any  `json:"params"`
}

// Response is the JSON envelope returned by the control API. Result holds the
// endpoint specific tuple; Error is set instead when the TV rejects the call.
type Response[T any] struct {
	Result T         `json:"result"`
	ID     int       `json:"id"`
	Error  *APIError `json:"error,omitempty"`
}

// PowerStatus is the first element of getPowerStatus
type PowerStatus struct {
	Status string `json:"status"` // "active" or "standby"
}

// Active reports whether the panel is on
func (p PowerStatus) Active() bool {
	return p.Status == PowerActive
}

const (
	PowerActive  = "active"
	PowerStandby = "standby"
)

// SystemInformation is returned by getSystemInformation
type SystemInformation struct {
	Product    string `json:"product"`
	Region     string `json:"region"`
	Language   string `json:"language"`
	Model      string `json:"model"`
	Serial     string `json:"serial"`
	MacAddr    string `json:"macAddr"`
	Name       string `json:"name"`
	Generation string `json:"generation"`
	Area       string `json:"area"`
	CID        string `json:"cid"`
}

// InterfaceInformation is returned by getInterfaceInformation
type InterfaceInformation struct {
	ProductCategory  string `json:"productCategory"`
	ProductName      string `json:"productName"`
	ModelName        string `json:"modelName"`
	ServerName       string `json:"serverName"`
	InterfaceVersion string `json:"interfaceVersion"`
}

// NetworkSetting describes one network interface of the TV
type NetworkSetting struct {
	Netif    string   `json:"netif"`
	HWAddr   string   `json:"hwAddr"`
	IPAddrV4 string   `json:"ipAddrV4"`
	IPAddrV6 string   `json:"ipAddrV6"`
	Netmask  string   `json:"netmask"`
	Gateway  string   `json:"gateway"`
	DNS      []string `json:"dns"`
}

// VolumeInformation describes one audio output target
type VolumeInformation struct {
	Target    string `json:"target"` // "speaker" or "headphone"
	Volume    int    `json:"volume"`
	Mute      bool   `json:"mute"`
	MaxVolume int    `json:"maxVolume"`
	MinVolume int    `json:"minVolume"`
}

// ApplicationInfo describes one installed application
type ApplicationInfo struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
	Icon  string `json:"icon"`
	Data  string `json:"data,omitempty"`
}

// ApplicationStatus is one entry of getApplicationStatusList
type ApplicationStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Source is one entry of getSourceList
type Source struct {
	Source string `json:"source"`
}

// Content is one entry of getContentList
type Content struct {
	URI         string `json:"uri"`
	Title       string `json:"title"`
	Index       int    `json:"index"`
	DispNum     string `json:"dispNum,omitempty"`
	ProgramType string `json:"programMediaType,omitempty"`
}

// PlayingContentInfo is returned by getPlayingContentInfo
type PlayingContentInfo struct {
	URI           string `json:"uri"`
	Source        string `json:"source"`
	Title         string `json:"title"`
	DispNum       string `json:"dispNum,omitempty"`
	ProgramTitle  string `json:"programTitle,omitempty"`
	StartDateTime string `json:"startDateTime,omitempty"`
	DurationSec   int    `json:"durationSec,omitempty"`
	TripletStr    string `json:"tripletStr,omitempty"`
	ProgramMedia  string `json:"programMediaType,omitempty"`
}

// ExternalInputStatus is one entry of getCurrentExternalInputsStatus
type ExternalInputStatus struct {
	URI        string `json:"uri"`
	Title      string `json:"title"`
	Connection bool   `json:"connection"`
	Label      string `json:"label"`
	Icon       string `json:"icon"`
	Status     string `json:"status,omitempty"`
}

// RemoteCommand is one named IRCC code reported by the TV
type RemoteCommand struct {
	Name  string     `json:"name"`
	Value RemoteCode `json:"value"`
}

// RemoteControllerInfo is the decoded result of getRemoteControllerInfo. The
// TV answers with a two element tuple: a header object and the command list.
type RemoteControllerInfo struct {
	Bundled  bool
	Type     string
	Commands []RemoteCommand
}

// UnmarshalJSON decodes the [header, commands] tuple
func (r *RemoteControllerInfo) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode remote controller info: %w", err)
	}

	if len(raw) > 0 {
		var header struct {
			Bundled bool   `json:"bundled"`
			Type    string `json:"type"`
		}
		if err := json.Unmarshal(raw[0], &header); err != nil {
			return fmt.Errorf("failed to decode remote controller header: %w", err)
		}
		r.Bundled = header.Bundled
		r.Type = header.Type
	}

	if len(raw) > 1 {
		if err := json.Unmarshal(raw[1], &r.Commands); err != nil {
			return fmt.Errorf("failed to decode remote controller commands: %w", err)
		}
	}

	return nil
}

// MarshalJSON encodes back into the wire tuple
func (r RemoteControllerInfo) MarshalJSON() ([]byte, error) {
	header := map[string]any{"bundled": r.Bundled, "type": r.Type}
	commands := r.Commands
	if commands == nil {
		commands = []RemoteCommand{}
	}
	return json.Marshal([]any{header, commands})
}

// Lookup returns the code the TV reports for name
func (r RemoteControllerInfo) Lookup(name string) (RemoteCode, bool) {
	for _, cmd := range r.Commands {
		if cmd.Name == name {
			return cmd.Value, true
		}
	}
	return "", false
}
