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

package bravia_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"braviactl/internal"
	"braviactl/internal/bravia"
)

// recordedRequest is one request seen by the fake TV
type recordedRequest struct {
	Path    string
	Header  http.Header
	Body    []byte
	Payload struct {
		ID      int               `json:"id"`
		Method  string            `json:"method"`
		Version string            `json:"version"`
		Params  []json.RawMessage `json:"params"`
	}
}

// fakeTV records requests and answers them with reply
type fakeTV struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
	reply    func(w http.ResponseWriter, req recordedRequest)
}

func newFakeTV(t *testing.T, reply func(w http.ResponseWriter, req recordedRequest)) *fakeTV {
	t.Helper()

	tv := &fakeTV{reply: reply}
	tv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		rec := recordedRequest{Path: r.URL.Path, Header: r.Header.Clone(), Body: body}
		if r.URL.Path != string(bravia.IRCCEndpoint) {
			require.NoError(t, json.Unmarshal(body, &rec.Payload))
		}

		tv.mu.Lock()
		tv.requests = append(tv.requests, rec)
		tv.mu.Unlock()

		if tv.reply != nil {
			tv.reply(w, rec)
			return
		}
		writeResult(w, []any{})
	}))
	t.Cleanup(tv.Close)
	return tv
}

func (tv *fakeTV) Requests() []recordedRequest {
	tv.mu.Lock()
	defer tv.mu.Unlock()
	return append([]recordedRequest(nil), tv.requests...)
}

func (tv *fakeTV) Last(t *testing.T) recordedRequest {
	t.Helper()
	reqs := tv.Requests()
	require.NotEmpty(t, reqs)
	return reqs[len(reqs)-1]
}

func writeResult(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"result": result, "id": 1})
}

func writeRaw(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"192.168.1.20", "http://192.168.1.20"},
		{"192.168.1.20:80", "http://192.168.1.20:80"},
		{"http://192.168.1.20", "http://192.168.1.20"},
		{"https://tv.lan/", "https://tv.lan"},
		{" tv.lan:8080 ", "http://tv.lan:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			client := bravia.NewClient(tt.host)
			assert.Equal(t, tt.want, client.BaseURL())
			assert.False(t, client.HasPSK())
		})
	}

	t.Run("with psk and mode", func(t *testing.T) {
		client := bravia.NewClient("tv.lan", bravia.WithPSK("0000"), bravia.WithMode(internal.NewModeOptions(internal.WithDebug(true))))
		assert.True(t, client.HasPSK())
		assert.True(t, client.Mode().Debug)
		assert.False(t, client.Mode().Test)
	})
}

func TestCreatePayload(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		payload := bravia.CreatePayload(1, bravia.GetSystemInformation, "")
		assert.Equal(t, "1.0", payload.Version)
		assert.NotNil(t, payload.Params)
		assert.Empty(t, payload.Params)

		data, err := json.Marshal(payload)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":1,"method":"getSystemInformation","version":"1.0","params":[]}`, string(data))
	})

	t.Run("with params", func(t *testing.T) {
		payload := bravia.CreatePayload(1, bravia.GetContentList, bravia.Version15, map[string]any{"uri": "tv:dvbt"})
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":1,"method":"getContentList","version":"1.5","params":[{"uri":"tv:dvbt"}]}`, string(data))
	})
}

func TestPSKHeader(t *testing.T) {
	t.Run("sent when configured", func(t *testing.T) {
		tv := newFakeTV(t, func(w http.ResponseWriter, _ recordedRequest) {
			writeResult(w, []any{map[string]string{"status": "active"}})
		})
		client := bravia.NewClient(tv.URL, bravia.WithPSK("1234"))

		_, err := client.GetPowerStatus(context.Background())
		require.NoError(t, err)
		_, err = client.SendRemoteCode(context.Background(), "AAAAAQAAAAEAAAAVAw==")
		require.NoError(t, err)

		for _, req := range tv.Requests() {
			assert.Equal(t, "1234", req.Header.Get("X-Auth-PSK"), req.Path)
		}
	})

	t.Run("omitted otherwise", func(t *testing.T) {
		tv := newFakeTV(t, func(w http.ResponseWriter, _ recordedRequest) {
			writeResult(w, []any{map[string]string{"status": "active"}})
		})
		client := bravia.NewClient(tv.URL)

		_, err := client.GetPowerStatus(context.Background())
		require.NoError(t, err)

		_, present := tv.Last(t).Header["X-Auth-Psk"]
		assert.False(t, present)
	})
}

func TestTypedOperations(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		call     func(c *bravia.Client) error
		endpoint string
		method   string
		version  string
		params   string
	}{
		{"GetCurrentTime", func(c *bravia.Client) error { _, err := c.GetCurrentTime(ctx); return err },
			"/sony/system", "getCurrentTime", "1.0", `[""]`},
		{"GetPowerStatus", func(c *bravia.Client) error { _, err := c.GetPowerStatus(ctx); return err },
			"/sony/system", "getPowerStatus", "1.0", `[""]`},
		{"SetPowerStatus", func(c *bravia.Client) error { return c.SetPowerStatus(ctx, true) },
			"/sony/system", "setPowerStatus", "1.0", `[{"status":true}]`},
		{"GetSystemInformation", func(c *bravia.Client) error { _, err := c.GetSystemInformation(ctx); return err },
			"/sony/system", "getSystemInformation", "1.0", `[]`},
		{"GetInterfaceInformation", func(c *bravia.Client) error { _, err := c.GetInterfaceInformation(ctx); return err },
			"/sony/system", "getInterfaceInformation", "1.0", `[]`},
		{"GetNetworkSettings", func(c *bravia.Client) error { _, err := c.GetNetworkSettings(ctx, "eth0"); return err },
			"/sony/system", "getNetworkSettings", "1.0", `[{"netif":"eth0"}]`},
		{"GetRemoteControllerInfo", func(c *bravia.Client) error { _, err := c.GetRemoteControllerInfo(ctx); return err },
			"/sony/system", "getRemoteControllerInfo", "1.0", `[]`},
		{"GetVolumeInformation", func(c *bravia.Client) error { _, err := c.GetVolumeInformation(ctx); return err },
			"/sony/audio", "getVolumeInformation", "1.0", `[]`},
		{"SetAudioVolume", func(c *bravia.Client) error { return c.SetAudioVolume(ctx, "speaker", "+2") },
			"/sony/audio", "setAudioVolume", "1.0", `[{"target":"speaker","volume":"+2"}]`},
		{"SetVolumeLevel", func(c *bravia.Client) error { return c.SetVolumeLevel(ctx, "", 25) },
			"/sony/audio", "setAudioVolume", "1.0", `[{"target":"","volume":"25"}]`},
		{"SetAudioMute", func(c *bravia.Client) error { return c.SetAudioMute(ctx, false) },
			"/sony/audio", "setAudioMute", "1.0", `[{"status":false}]`},
		{"GetApplicationList", func(c *bravia.Client) error { _, err := c.GetApplicationList(ctx); return err },
			"/sony/appControl", "getApplicationList", "1.0", `[]`},
		{"GetApplicationStatusList", func(c *bravia.Client) error { _, err := c.GetApplicationStatusList(ctx); return err },
			"/sony/appControl", "getApplicationStatusList", "1.0", `[]`},
		{"SetActiveApp", func(c *bravia.Client) error { return c.SetActiveApp(ctx, "com.sony.dtv.netflix") },
			"/sony/appControl", "setActiveApp", "1.0", `[{"uri":"com.sony.dtv.netflix"}]`},
		{"TerminateApps", func(c *bravia.Client) error { return c.TerminateApps(ctx) },
			"/sony/appControl", "terminateApps", "1.0", `[]`},
		{"GetSourceList", func(c *bravia.Client) error { _, err := c.GetSourceList(ctx, "tv"); return err },
			"/sony/avContent", "getSourceList", "1.0", `[{"scheme":"tv"}]`},
		{"GetSourceList default scheme", func(c *bravia.Client) error { _, err := c.GetSourceList(ctx, ""); return err },
			"/sony/avContent", "getSourceList", "1.0", `[{"scheme":"extInput"}]`},
		{"GetContentList", func(c *bravia.Client) error {
			_, err := c.GetContentList(ctx, bravia.ContentListRequest{URI: "extInput:hdmi", Index: 10, Count: 5})
			return err
		}, "/sony/avContent", "getContentList", "1.5", `[{"uri":"extInput:hdmi","stIdx":10,"cnt":5}]`},
		{"GetContentList default count", func(c *bravia.Client) error {
			_, err := c.GetContentList(ctx, bravia.ContentListRequest{URI: "tv:dvbt"})
			return err
		}, "/sony/avContent", "getContentList", "1.5", `[{"uri":"tv:dvbt","stIdx":0,"cnt":50}]`},
		{"GetPlayingContentInfo", func(c *bravia.Client) error { _, err := c.GetPlayingContentInfo(ctx); return err },
			"/sony/avContent", "getPlayingContentInfo", "1.0", `[]`},
		{"GetCurrentExternalInputsStatus", func(c *bravia.Client) error { _, err := c.GetCurrentExternalInputsStatus(ctx); return err },
			"/sony/avContent", "getCurrentExternalInputsStatus", "1.0", `[]`},
		{"SetPlayContent", func(c *bravia.Client) error { return c.SetPlayContent(ctx, "extInput:hdmi?port=2") },
			"/sony/avContent", "setPlayContent", "1.0", `[{"uri":"extInput:hdmi?port=2"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A non-empty tuple for every operation so result decoding succeeds
			tv := newFakeTV(t, func(w http.ResponseWriter, req recordedRequest) {
				switch req.Payload.Method {
				case "getCurrentTime":
					writeResult(w, []string{"2025-01-01T10:00:00+0100"})
				case "getRemoteControllerInfo":
					writeResult(w, []any{map[string]any{"bundled": true, "type": "RM"}, []any{}})
				case "getPowerStatus", "getSystemInformation", "getInterfaceInformation", "getPlayingContentInfo":
					writeResult(w, []any{map[string]any{}})
				default:
					writeResult(w, []any{[]any{}})
				}
			})
			client := bravia.NewClient(tv.URL)

			require.NoError(t, tt.call(client))

			reqs := tv.Requests()
			require.Len(t, reqs, 1, "exactly one request per operation")
			req := reqs[0]
			assert.Equal(t, tt.endpoint, req.Path)
			assert.Equal(t, "application/json; charset=UTF-8", req.Header.Get("Content-Type"))
			assert.Equal(t, 1, req.Payload.ID)
			assert.Equal(t, tt.method, req.Payload.Method)
			assert.Equal(t, tt.version, req.Payload.Version)

			params, err := json.Marshal(req.Payload.Params)
			require.NoError(t, err)
			assert.JSONEq(t, tt.params, string(params))
		})
	}
}

func TestTypedResults(t *testing.T) {
	ctx := context.Background()

	t.Run("power status", func(t *testing.T) {
		tv := newFakeTV(t, func(w http.ResponseWriter, _ recordedRequest) {
			writeRaw(w, `{"result":[{"status":"standby"}],"id":1}`)
		})
		status, err := bravia.NewClient(tv.URL).GetPowerStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, "standby", status.Status)
		assert.False(t, status.Active())
	})

	t.Run("current time", func(t *testing.T) {
		tv := newFakeTV(t, func(w http.ResponseWriter, _ recordedRequest) {
			writeRaw(w, `{"result":["2025-03-01T21:04:11+0100"],"id":1}`)
		})
		now, err := bravia.NewClient(tv.URL).GetCurrentTime(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2025-03-01T21:04:11+0100", now)
	})

	t.Run("volume information", func(t *testing.T) {
		tv := newFakeTV(t, func(w http.ResponseWriter, _ recordedRequest) {
			writeRaw(w, `{"result":[[{"target":"speaker","volume":18,"mute":false,"maxVolume":100,"minVolume":0},`+
				`{"target":"headphone","volume":5,"mute":true,"maxVolume":100,"minVolume":0}]],"id":1}`)
		})
		volumes, err := bravia.NewClient(tv.URL).GetVolumeInformation(ctx)
		require.NoError(t, err)
		require.Len(t, volumes, 2)
		assert.Equal(t, bravia.VolumeInformation{Target: "speaker", Volume: 18, MaxVolume: 100}, volumes[0])
		assert.True(t, volumes[1].Mute)
	})

	t.Run("application list", func(t *testing.T) {
		tv := newFakeTV(t, func(w http.ResponseWriter, _ recordedRequest) {
			writeRaw(w, `{"result":[[{"title":"Netflix","uri":"com.sony.dtv.netflix","icon":"http://icon"}]],"id":1}`)
		})
		apps, err := bravia.NewClient(tv.URL).GetApplicationList(ctx)
		require.NoError(t, err)
		require.Len(t, apps, 1)
		assert.Equal(t, "Netflix", apps[0].Title)
		assert.Equal(t, "com.sony.dtv.netflix", apps[0].URI)
	})

	t.Run("remote controller info", func(t *testing.T) {
		tv := newFakeTV(t, func(w http.ResponseWriter, _ recordedRequest) {
			writeRaw(w, `{"result":[{"bundled":true,"type":"RM-J1100"},[{"name":"Num1","value":"AAAAAQAAAAEAAAAAAw=="}]],"id":1}`)
		})
		info, err := bravia.NewClient(tv.URL).GetRemoteControllerInfo(ctx)
		require.NoError(t, err)
		assert.True(t, info.Bundled)
		assert.Equal(t, "RM-J1100", info.Type)
		require.Len(t, info.Commands, 1)

		code, ok := info.Lookup("Num1")
		assert.True(t, ok)
		assert.Equal(t, bravia.RemoteCode("AAAAAQAAAAEAAAAAAw=="), code)
	})

	t.Run("empty tuple", func(t *testing.T) {
		tv := newFakeTV(t, func(w http.ResponseWriter, _ recordedRequest) {
			writeRaw(w, `{"result":[],"id":1}`)
		})
		_, err := bravia.NewClient(tv.URL).GetSystemInformation(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, bravia.ErrEmptyResult)
	})
}

func TestValidation(t *testing.T) {
	tv := newFakeTV(t, nil)
	client := bravia.NewClient(tv.URL)
	ctx := context.Background()

	assert.Error(t, client.SetAudioVolume(ctx, "speaker", "loud"))
	assert.Error(t, client.SetAudioVolume(ctx, "speaker", "1000"))
	assert.Error(t, client.SetVolumeLevel(ctx, "speaker", -1))
	assert.Error(t, client.SetActiveApp(ctx, ""))
	assert.Error(t, client.SetPlayContent(ctx, ""))
	_, err := client.GetContentList(ctx, bravia.ContentListRequest{})
	assert.Error(t, err)

	assert.Empty(t, tv.Requests(), "invalid input must not reach the TV")
}

func TestErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("non-2xx is a StatusError", func(t *testing.T) {
		tv := newFakeTV(t, func(w http.ResponseWriter, _ recordedRequest) {
			http.Error(w, "Forbidden", http.StatusForbidden)
		})

		_, err := bravia.NewClient(tv.URL, bravia.WithPSK("wrong")).GetPowerStatus(ctx)
		require.Error(t, err)

		var statusErr *bravia.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
		assert.Equal(t, "Forbidden", statusErr.Body)
		assert.True(t, statusErr.Unauthorized())
		assert.True(t, bravia.IsStatus(err, http.StatusForbidden))
	})

	t.Run("ircc non-2xx", func(t *testing.T) {
		tv := newFakeTV(t, func(w http.ResponseWriter, _ recordedRequest) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := bravia.NewClient(tv.URL).SendRemoteCode(ctx, "AAAAAQAAAAEAAAAVAw==")
		assert.True(t, bravia.IsStatus(err, http.StatusInternalServerError))
	})

	t.Run("error envelope is an APIError", func(t *testing.T) {
		tv := newFakeTV(t, func(w http.ResponseWriter, _ recordedRequest) {
			writeRaw(w, `{"error":[40005,"Display Is Turned off"],"id":1}`)
		})

		_, err := bravia.NewClient(tv.URL).GetPlayingContentInfo(ctx)
		require.Error(t, err)

		var apiErr *bravia.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, 40005, apiErr.Code)
		assert.Equal(t, "Display Is Turned off", apiErr.Message)
	})

	t.Run("transport error is wrapped", func(t *testing.T) {
		tv := newFakeTV(t, nil)
		url := tv.URL
		tv.Close()

		_, err := bravia.NewClient(url).GetPowerStatus(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send request to /sony/system")
		assert.False(t, bravia.IsStatus(err, 0))
	})

	t.Run("cancelled context", func(t *testing.T) {
		tv := newFakeTV(t, nil)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := bravia.NewClient(tv.URL).GetPowerStatus(cctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCall(t *testing.T) {
	tv := newFakeTV(t, func(w http.ResponseWriter, _ recordedRequest) {
		writeRaw(w, `{"result":[{"speed":"1x"}],"id":1}`)
	})
	client := bravia.NewClient(tv.URL)

	var out map[string]any
	err := client.Call(context.Background(), bravia.AVContentEndpoint, "getPlaybackSpeed", "1.0",
		[]any{map[string]string{"uri": "x"}}, &out)
	require.NoError(t, err)
	assert.Contains(t, out, "result")

	req := tv.Last(t)
	assert.Equal(t, "/sony/avContent", req.Path)
	assert.Equal(t, "getPlaybackSpeed", req.Payload.Method)
	require.Len(t, req.Payload.Params, 1)
	assert.JSONEq(t, `{"uri":"x"}`, string(req.Payload.Params[0]))
}

func TestSendIRCC(t *testing.T) {
	tv := newFakeTV(t, func(w http.ResponseWriter, _ recordedRequest) {
		w.Header().Set("Content-Type", "text/xml")
		_, _ = io.WriteString(w, "<ok/>")
	})
	client := bravia.NewClient(tv.URL, bravia.WithPSK("0000"))

	body, err := client.SendIRCC(context.Background(), "VolumeUp")
	require.NoError(t, err)
	assert.Equal(t, "<ok/>", body)

	reqs := tv.Requests()
	require.Len(t, reqs, 1, "a table command needs no device lookup")

	req := reqs[0]
	assert.Equal(t, "/sony/ircc", req.Path)
	assert.Equal(t, `"urn:schemas-sony-com:service:IRCC:1#X_SendIRCC"`, req.Header.Get("Soapaction"))
	assert.Equal(t, "text/xml; charset=UTF-8", req.Header.Get("Content-Type"))
	assert.Equal(t, "0000", req.Header.Get("X-Auth-PSK"))
	assert.Contains(t, string(req.Body), "<IRCCCode>AAAAAQAAAAEAAAASAw==</IRCCCode>")
	assert.True(t, strings.HasPrefix(string(req.Body), `<?xml version="1.0"?>`))
}

func TestTogglePower(t *testing.T) {
	tv := newFakeTV(t, nil)

	_, err := bravia.NewClient(tv.URL).TogglePower(context.Background())
	require.NoError(t, err)

	req := tv.Last(t)
	assert.Equal(t, "/sony/ircc", req.Path)
	assert.Contains(t, string(req.Body), "<IRCCCode>AAAAAQAAAAEAAAAVAw==</IRCCCode>")
}

func TestSimulatedMode(t *testing.T) {
	ctx := context.Background()
	client := bravia.NewClient("unreachable.invalid", bravia.WithMode(internal.NewModeOptions(internal.WithTest(true))))

	status, err := client.GetPowerStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.Active())

	_, err = client.TogglePower(ctx)
	require.NoError(t, err)
	status, err = client.GetPowerStatus(ctx)
	require.NoError(t, err)
	assert.False(t, status.Active())

	require.NoError(t, client.SetPowerStatus(ctx, true))
	require.NoError(t, client.SetAudioVolume(ctx, bravia.TargetSpeaker, "30"))
	require.NoError(t, client.SetAudioVolume(ctx, bravia.TargetSpeaker, "+2"))
	volumes, err := client.GetVolumeInformation(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, volumes)
	assert.Equal(t, 32, volumes[0].Volume)

	apps, err := client.GetApplicationList(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, apps)

	var apiErr *bravia.APIError
	err = client.Call(ctx, bravia.SystemEndpoint, "noSuchMethod", "1.0", nil, nil)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 12, apiErr.Code)
}
