package bravia

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// SimulatedTransport answers control API and IRCC requests like a TV in the
// living room would, without touching the network. It backs the test run mode.
type SimulatedTransport struct {
	mu     sync.Mutex
	power  bool
	volume int
	mute   bool
	app    string
	input  string
}

// NewSimulatedTransport returns a transport for a powered on TV at volume 20
func NewSimulatedTransport() *SimulatedTransport {
	return &SimulatedTransport{
		power:  true,
		volume: 20,
		input:  "extInput:hdmi?port=1",
	}
}

// RoundTrip implements http.RoundTripper
func (s *SimulatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
		body = data
	}

	if req.URL.Path == string(IRCCEndpoint) {
		return s.ircc(req, body), nil
	}

	var payload struct {
		ID     int               `json:"id"`
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return simulatedResponse(req, http.StatusBadRequest, "text/plain", []byte("malformed payload")), nil
	}

	result, apiErr := s.handle(Method(payload.Method), payload.Params)
	envelope := map[string]any{"id": payload.ID}
	if apiErr != nil {
		envelope["error"] = apiErr
	} else {
		envelope["result"] = result
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, err
	}
	return simulatedResponse(req, http.StatusOK, jsonContentType, data), nil
}

func (s *SimulatedTransport) ircc(req *http.Request, body []byte) *http.Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case bytes.Contains(body, []byte(commandTable["TvPower"])):
		s.power = !s.power
	case bytes.Contains(body, []byte(commandTable["WakeUp"])):
		s.power = true
	case bytes.Contains(body, []byte(commandTable["PowerOff"])):
		s.power = false
	case bytes.Contains(body, []byte(commandTable["VolumeUp"])):
		s.volume = min(s.volume+1, 100)
	case bytes.Contains(body, []byte(commandTable["VolumeDown"])):
		s.volume = max(s.volume-1, 0)
	case bytes.Contains(body, []byte(commandTable["Mute"])):
		s.mute = !s.mute
	}

	return simulatedResponse(req, http.StatusOK, irccContentType, []byte(`<?xml version="1.0"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">
  <s:Body>
    <u:X_SendIRCCResponse xmlns:u="urn:schemas-sony-com:service:IRCC:1"></u:X_SendIRCCResponse>
  </s:Body>
</s:Envelope>`))
}

func (s *SimulatedTransport) handle(method Method, params []json.RawMessage) (any, *APIError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var arg map[string]any
	if len(params) > 0 {
		_ = json.Unmarshal(params[0], &arg)
	}

	status := PowerStandby
	if s.power {
		status = PowerActive
	}

	switch method {
	case GetCurrentTime:
		return []string{time.Now().Format("2006-01-02T15:04:05-0700")}, nil
	case GetPowerStatus:
		return []PowerStatus{{Status: status}}, nil
	case SetPowerStatus:
		on, _ := arg["status"].(bool)
		s.power = on
		return []any{}, nil
	case GetSystemInformation:
		return []SystemInformation{{
			Product:    "TV",
			Region:     "XEU",
			Language:   "eng",
			Model:      "KD-55X85J",
			Serial:     "0000000",
			MacAddr:    "00:00:00:00:00:00",
			Name:       "BRAVIA",
			Generation: "5.4.0",
		}}, nil
	case GetInterfaceInformation:
		return []InterfaceInformation{{
			ProductCategory:  "tv",
			ProductName:      "BRAVIA",
			ModelName:        "KD-55X85J",
			InterfaceVersion: "5.0.1",
		}}, nil
	case GetNetworkSettings:
		return [][]NetworkSetting{{{
			Netif:    "eth0",
			HWAddr:   "00:00:00:00:00:00",
			IPAddrV4: "192.168.1.20",
			Netmask:  "255.255.255.0",
			Gateway:  "192.168.1.1",
			DNS:      []string{"192.168.1.1"},
		}}}, nil
	case GetRemoteControllerInfo:
		info := RemoteControllerInfo{Bundled: true, Type: "IR_REMOTE_BUNDLE_TYPE_AEP_N"}
		for _, name := range CommandNames() {
			info.Commands = append(info.Commands, RemoteCommand{Name: name, Value: commandTable[name]})
		}
		return info, nil
	case GetVolumeInformation:
		return [][]VolumeInformation{{
			{Target: TargetSpeaker, Volume: s.volume, Mute: s.mute, MaxVolume: 100},
		}}, nil
	case SetAudioVolume:
		volume, _ := arg["volume"].(string)
		if err := s.applyVolume(volume); err != nil {
			return nil, &APIError{Code: 3, Message: err.Error()}
		}
		return []any{}, nil
	case SetAudioMute:
		mute, _ := arg["status"].(bool)
		s.mute = mute
		return []any{}, nil
	case GetApplicationList:
		return [][]ApplicationInfo{{
			{Title: "Netflix", URI: "com.sony.dtv.com.netflix.ninja.com.netflix.ninja.MainActivity"},
			{Title: "YouTube", URI: "com.sony.dtv.com.google.android.youtube.tv.com.google.android.apps.youtube.tv.activity.ShellActivity"},
			{Title: "Prime Video", URI: "com.sony.dtv.com.amazon.amazonvideo.livingroom.com.amazon.ignition.IgnitionActivity"},
		}}, nil
	case GetApplicationStatusList:
		return [][]ApplicationStatus{{
			{Name: "textInput", Status: "off"},
			{Name: "cursorDisplay", Status: "off"},
			{Name: "webBrowse", Status: "off"},
		}}, nil
	case SetActiveApp:
		s.app, _ = arg["uri"].(string)
		return []any{}, nil
	case TerminateApps:
		s.app = ""
		return []any{}, nil
	case GetSourceList:
		return [][]Source{{{Source: "extInput:hdmi"}, {Source: "extInput:composite"}, {Source: "tv:dvbt"}}}, nil
	case GetContentList:
		return [][]Content{{
			{URI: "extInput:hdmi?port=1", Title: "HDMI 1", Index: 0},
			{URI: "extInput:hdmi?port=2", Title: "HDMI 2", Index: 1},
			{URI: "extInput:hdmi?port=3", Title: "HDMI 3", Index: 2},
			{URI: "extInput:hdmi?port=4", Title: "HDMI 4", Index: 3},
		}}, nil
	case GetPlayingContentInfo:
		if !s.power {
			return nil, &APIError{Code: 40005, Message: "Display Is Turned off"}
		}
		return []PlayingContentInfo{{URI: s.input, Source: "extInput:hdmi", Title: "HDMI 1"}}, nil
	case GetCurrentExternalInputsStatus:
		return [][]ExternalInputStatus{{
			{URI: "extInput:hdmi?port=1", Title: "HDMI 1", Connection: true, Label: "Console"},
			{URI: "extInput:hdmi?port=2", Title: "HDMI 2"},
		}}, nil
	case SetPlayContent:
		s.input, _ = arg["uri"].(string)
		return []any{}, nil
	}

	return nil, &APIError{Code: 12, Message: fmt.Sprintf("No Such Method: %s", method)}
}

func (s *SimulatedTransport) applyVolume(volume string) error {
	if !volumePattern.MatchString(volume) {
		return fmt.Errorf("illegal argument %q", volume)
	}
	n, err := strconv.Atoi(volume)
	if err != nil {
		return err
	}
	if strings.HasPrefix(volume, "+") || strings.HasPrefix(volume, "-") {
		n += s.volume
	}
	s.volume = min(max(n, 0), 100)
	return nil
}

func simulatedResponse(req *http.Request, status int, contentType string, body []byte) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{"Content-Type": []string{contentType}},
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
