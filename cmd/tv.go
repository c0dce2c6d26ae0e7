package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"braviactl/internal"
	"braviactl/internal/bravia"
	"braviactl/internal/config"
	"braviactl/internal/history"
	"braviactl/internal/logger"
)

var (
	tvHost   string
	tvPSK    string
	tvDevice string
	tvDebug  bool
	tvTest   bool
)

// simulatedHost is used when --test runs without any configured TV
const simulatedHost = "bravia.test"

var tvCmd = &cobra.Command{
	Use:   "tv",
	Short: "Control a Sony Bravia TV",
	Long: `Control a Sony Bravia TV with IRCC remote commands and the JSON control API.

The TV is picked from --host, then $BRAVIACTL_HOST, then --device or the
default device of the configuration file. The PSK follows the same order
(--psk, $BRAVIACTL_PSK, the device entry). Sealed PSKs are opened with
$BRAVIACTL_PASSPHRASE.`,
}

// tvSession is one resolved TV plus the optional history store
type tvSession struct {
	client   *bravia.Client
	deviceID string
	history  *history.Store
}

func openSession() (*tvSession, error) {
	env, err := loadEnv()
	if err != nil {
		return nil, err
	}

	mode := internal.NewModeOptions(internal.WithDebug(tvDebug || env.Debug), internal.WithTest(tvTest))
	if mode.Verbose() {
		logger.SetSilentMode(false)
		logger.SetLevel(mode.LogLevel())
		log = logger.New()
	}

	host := firstNonEmpty(tvHost, env.Host)
	psk := firstNonEmpty(tvPSK, env.PSK)
	session := &tvSession{deviceID: host}

	manager := config.NewManager(configPath)
	if manager.Exists() {
		cfg, err := manager.Load()
		if err != nil {
			return nil, err
		}

		if host == "" {
			dev, err := cfg.ResolveDevice(tvDevice)
			if err != nil {
				if !mode.Test {
					return nil, err
				}
			} else {
				host = dev.Address
				session.deviceID = dev.ID
				if psk == "" {
					if psk, err = dev.PlainPSK(env.Passphrase); err != nil {
						return nil, err
					}
				}
			}
		}

		if cfg.History.Path != "" {
			store, err := history.Open(cfg.History.Path)
			if err != nil {
				log.Warn().Err(err).Str("path", cfg.History.Path).Msg("History disabled")
			} else {
				session.history = store
			}
		}
	} else if tvDevice != "" {
		return nil, fmt.Errorf("config file %s does not exist", configPath)
	}

	if host == "" {
		if !mode.Test {
			return nil, errors.New("no TV selected: pass --host, set BRAVIACTL_HOST or add a device with 'braviactl config add'")
		}
		host = simulatedHost
		session.deviceID = "simulated"
	}

	session.client = bravia.NewClient(host,
		bravia.WithPSK(psk),
		bravia.WithMode(mode),
		bravia.WithLogger(logger.Component("bravia").With().Str("device_id", session.deviceID).Logger()),
	)

	log.Debug().
		Str("host", host).
		Str("device_id", session.deviceID).
		Bool("psk", session.client.HasPSK()).
		Bool("test", mode.Test).
		Msg("TV session opened")

	return session, nil
}

func (s *tvSession) Close() {
	if s.history != nil {
		s.history.Close()
	}
}

// record stores the outcome of one action when history is enabled
func (s *tvSession) record(ctx context.Context, kind, action string, err error) {
	if s.history == nil {
		return
	}

	entry := history.Entry{
		DeviceID: s.deviceID,
		Type:     kind,
		Action:   action,
		Success:  err == nil,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if _, recErr := s.history.Record(context.WithoutCancel(ctx), entry); recErr != nil {
		log.Warn().Err(recErr).Msg("Failed to record action")
	}
}

// control runs one control API operation and records it
func (s *tvSession) control(ctx context.Context, action string, fn func() error) error {
	err := fn()
	s.record(ctx, "control", action, err)
	return err
}

type tvRunFunc func(ctx context.Context, s *tvSession, out io.Writer, args []string) error

func withSession(run tvRunFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		session, err := openSession()
		if err != nil {
			return err
		}
		defer session.Close()

		return run(cmd.Context(), session, cmd.OutOrStdout(), args)
	}
}

var remoteDelay time.Duration

var tvRemoteCmd = &cobra.Command{
	Use:   "remote <name|code>...",
	Short: "Send IRCC remote commands",
	Long: `Send one or more IRCC remote commands. Each argument is a command name
(see 'braviactl tv commands') or a raw base64 IRCC code. Names the TV reports
through getRemoteControllerInfo work too.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withSession(func(ctx context.Context, s *tvSession, out io.Writer, args []string) error {
		for i, value := range args {
			if i > 0 && remoteDelay > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(remoteDelay):
				}
			}

			_, err := s.client.SendIRCC(ctx, value)
			s.record(ctx, "remote", value, err)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "sent %s\n", value)
		}
		return nil
	}),
}

var tvPowerCmd = &cobra.Command{
	Use:       "power [status|on|off|toggle]",
	Short:     "Show or change the power state",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"status", "on", "off", "toggle"},
	RunE: withSession(func(ctx context.Context, s *tvSession, out io.Writer, args []string) error {
		action := "status"
		if len(args) > 0 {
			action = args[0]
		}

		switch action {
		case "status":
			var status bravia.PowerStatus
			err := s.control(ctx, "power_status", func() (err error) {
				status, err = s.client.GetPowerStatus(ctx)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "power: %s\n", status.Status)
		case "on", "off":
			on := action == "on"
			if err := s.control(ctx, "power_"+action, func() error { return s.client.SetPowerStatus(ctx, on) }); err != nil {
				return err
			}
			fmt.Fprintf(out, "power: %s\n", action)
		case "toggle":
			err := s.control(ctx, "power_toggle", func() error {
				_, err := s.client.TogglePower(ctx)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "power: toggled")
		default:
			return fmt.Errorf("unknown power action: %s (use status, on, off or toggle)", action)
		}
		return nil
	}),
}

var (
	volumeTarget string
	volumeStep   int
)

var tvVolumeCmd = &cobra.Command{
	Use:   "volume [status|set N|up|down|mute|unmute]",
	Short: "Show or change the volume",
	Long: `Show or change the volume. 'set' takes an absolute level (0-100) or a
relative one such as +5 or -3 (put -- before negative values). 'up' and
'down' move by --step.`,
	Args: cobra.MaximumNArgs(2),
	RunE: withSession(func(ctx context.Context, s *tvSession, out io.Writer, args []string) error {
		action := "status"
		if len(args) > 0 {
			action = args[0]
		}

		switch action {
		case "status":
			var volumes []bravia.VolumeInformation
			err := s.control(ctx, "volume_info", func() (err error) {
				volumes, err = s.client.GetVolumeInformation(ctx)
				return err
			})
			if err != nil {
				return err
			}
			for _, v := range volumes {
				fmt.Fprintf(out, "%s: %d (%d-%d) mute=%t\n", v.Target, v.Volume, v.MinVolume, v.MaxVolume, v.Mute)
			}
			return nil
		case "set":
			if len(args) < 2 {
				return errors.New("volume set needs a level")
			}
			return s.setVolume(ctx, out, args[1])
		case "up":
			return s.setVolume(ctx, out, "+"+strconv.Itoa(volumeStep))
		case "down":
			return s.setVolume(ctx, out, "-"+strconv.Itoa(volumeStep))
		case "mute", "unmute":
			mute := action == "mute"
			if err := s.control(ctx, "set_mute", func() error { return s.client.SetAudioMute(ctx, mute) }); err != nil {
				return err
			}
			fmt.Fprintf(out, "mute: %t\n", mute)
			return nil
		default:
			return fmt.Errorf("unknown volume action: %s", action)
		}
	}),
}

func (s *tvSession) setVolume(ctx context.Context, out io.Writer, volume string) error {
	if err := s.control(ctx, "set_volume", func() error { return s.client.SetAudioVolume(ctx, volumeTarget, volume) }); err != nil {
		return err
	}
	fmt.Fprintf(out, "volume: %s\n", volume)
	return nil
}

var tvAppsCmd = &cobra.Command{
	Use:   "apps [list|launch URI|status|terminate]",
	Short: "List, launch or close applications",
	Args:  cobra.MaximumNArgs(2),
	RunE: withSession(func(ctx context.Context, s *tvSession, out io.Writer, args []string) error {
		action := "list"
		if len(args) > 0 {
			action = args[0]
		}

		switch action {
		case "list":
			var apps []bravia.ApplicationInfo
			err := s.control(ctx, "app_list", func() (err error) {
				apps, err = s.client.GetApplicationList(ctx)
				return err
			})
			if err != nil {
				return err
			}
			for _, app := range apps {
				fmt.Fprintf(out, "%-30s %s\n", app.Title, app.URI)
			}
		case "launch":
			if len(args) < 2 {
				return errors.New("apps launch needs an application URI")
			}
			if err := s.control(ctx, "launch_app", func() error { return s.client.SetActiveApp(ctx, args[1]) }); err != nil {
				return err
			}
			fmt.Fprintf(out, "launched %s\n", args[1])
		case "status":
			var statuses []bravia.ApplicationStatus
			err := s.control(ctx, "app_status", func() (err error) {
				statuses, err = s.client.GetApplicationStatusList(ctx)
				return err
			})
			if err != nil {
				return err
			}
			for _, st := range statuses {
				fmt.Fprintf(out, "%-20s %s\n", st.Name, st.Status)
			}
		case "terminate":
			if err := s.control(ctx, "terminate_apps", func() error { return s.client.TerminateApps(ctx) }); err != nil {
				return err
			}
			fmt.Fprintln(out, "applications terminated")
		default:
			return fmt.Errorf("unknown apps action: %s", action)
		}
		return nil
	}),
}

var tvSourcesCmd = &cobra.Command{
	Use:   "sources [scheme]",
	Short: "List the sources of a scheme (default extInput)",
	Args:  cobra.MaximumNArgs(1),
	RunE: withSession(func(ctx context.Context, s *tvSession, out io.Writer, args []string) error {
		scheme := ""
		if len(args) > 0 {
			scheme = args[0]
		}

		var sources []bravia.Source
		err := s.control(ctx, "source_list", func() (err error) {
			sources, err = s.client.GetSourceList(ctx, scheme)
			return err
		})
		if err != nil {
			return err
		}
		for _, src := range sources {
			fmt.Fprintln(out, src.Source)
		}
		return nil
	}),
}

var (
	contentIndex int
	contentCount int
	contentPlay  bool
)

var tvContentCmd = &cobra.Command{
	Use:   "content URI",
	Short: "List the content under a source URI, or play it with --play",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, s *tvSession, out io.Writer, args []string) error {
		if contentPlay {
			if err := s.control(ctx, "play_content", func() error { return s.client.SetPlayContent(ctx, args[0]) }); err != nil {
				return err
			}
			fmt.Fprintf(out, "playing %s\n", args[0])
			return nil
		}

		var items []bravia.Content
		err := s.control(ctx, "content_list", func() (err error) {
			items, err = s.client.GetContentList(ctx, bravia.ContentListRequest{
				URI:   args[0],
				Index: contentIndex,
				Count: contentCount,
			})
			return err
		})
		if err != nil {
			return err
		}
		for _, item := range items {
			fmt.Fprintf(out, "%4d  %-30s %s\n", item.Index, item.Title, item.URI)
		}
		return nil
	}),
}

var tvPlayingCmd = &cobra.Command{
	Use:   "playing",
	Short: "Show what is playing",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *tvSession, out io.Writer, args []string) error {
		var info bravia.PlayingContentInfo
		err := s.control(ctx, "playing_content", func() (err error) {
			info, err = s.client.GetPlayingContentInfo(ctx)
			return err
		})
		if err != nil {
			return err
		}
		return printJSON(out, info)
	}),
}

var tvTimeCmd = &cobra.Command{
	Use:   "time",
	Short: "Show the TV clock",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *tvSession, out io.Writer, args []string) error {
		var now string
		err := s.control(ctx, "current_time", func() (err error) {
			now, err = s.client.GetCurrentTime(ctx)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, now)
		return nil
	}),
}

var networkInterface string

var tvNetworkCmd = &cobra.Command{
	Use:   "network",
	Short: "Show the network settings",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *tvSession, out io.Writer, args []string) error {
		var settings []bravia.NetworkSetting
		err := s.control(ctx, "network_settings", func() (err error) {
			settings, err = s.client.GetNetworkSettings(ctx, networkInterface)
			return err
		})
		if err != nil {
			return err
		}
		return printJSON(out, settings)
	}),
}

var tvInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show system and interface information",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *tvSession, out io.Writer, args []string) error {
		var (
			system bravia.SystemInformation
			iface  bravia.InterfaceInformation
		)
		err := s.control(ctx, "system_info", func() (err error) {
			if system, err = s.client.GetSystemInformation(ctx); err != nil {
				return err
			}
			iface, err = s.client.GetInterfaceInformation(ctx)
			return err
		})
		if err != nil {
			return err
		}
		return printJSON(out, map[string]any{
			"system":    system,
			"interface": iface,
		})
	}),
}

var commandsFromDevice bool

var tvCommandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List remote command names",
	Long: `List the built-in remote command names and their IRCC codes. With
--from-device the list reported by the TV is shown instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !commandsFromDevice {
			table := bravia.Commands()
			for _, name := range bravia.CommandNames() {
				fmt.Fprintf(out, "%-24s %s\n", name, table[name])
			}
			return nil
		}

		return withSession(func(ctx context.Context, s *tvSession, out io.Writer, args []string) error {
			var info bravia.RemoteControllerInfo
			err := s.control(ctx, "remote_commands", func() (err error) {
				info, err = s.client.GetRemoteControllerInfo(ctx)
				return err
			})
			if err != nil {
				return err
			}
			for _, c := range info.Commands {
				fmt.Fprintf(out, "%-24s %s\n", c.Name, c.Value)
			}
			return nil
		})(cmd, args)
	},
}

var controlVersion string

var tvControlCmd = &cobra.Command{
	Use:   "control <endpoint> <method> [json-params]",
	Short: "Call any control API method",
	Long: `Call any control API method and print the raw response. The endpoint is
a service name (system, audio, avContent, appControl) or a full /sony/ path.
The params argument is a JSON array, or a single JSON value that is wrapped
in one.

  braviactl tv control system getPowerStatus
  braviactl tv control audio setAudioMute '{"status":true}'`,
	Args: cobra.RangeArgs(2, 3),
	RunE: withSession(func(ctx context.Context, s *tvSession, out io.Writer, args []string) error {
		endpoint := parseEndpoint(args[0])

		var params []any
		if len(args) == 3 {
			var err error
			if params, err = parseParams(args[2]); err != nil {
				return err
			}
		}

		var raw json.RawMessage
		err := s.control(ctx, args[1], func() error {
			return s.client.Call(ctx, endpoint, bravia.Method(args[1]), controlVersion, params, &raw)
		})
		if err != nil {
			return err
		}
		return printJSON(out, raw)
	}),
}

// parseEndpoint accepts "system" as well as "/sony/system"
func parseEndpoint(value string) bravia.Endpoint {
	if strings.HasPrefix(value, "/") {
		return bravia.Endpoint(value)
	}
	return bravia.Endpoint("/sony/" + value)
}

func parseParams(value string) ([]any, error) {
	var decoded any
	if err := json.Unmarshal([]byte(value), &decoded); err != nil {
		return nil, fmt.Errorf("invalid params JSON: %w", err)
	}
	if list, ok := decoded.([]any); ok {
		return list, nil
	}
	return []any{decoded}, nil
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	tvCmd.PersistentFlags().StringVarP(&tvHost, "host", "H", "", "TV host address (IP or IP:port)")
	tvCmd.PersistentFlags().StringVarP(&tvPSK, "psk", "k", "", "pre-shared key")
	tvCmd.PersistentFlags().StringVarP(&tvDevice, "device", "D", "", "configured device ID")
	tvCmd.PersistentFlags().BoolVar(&tvDebug, "debug", false, "enable debug logging for HTTP requests")
	tvCmd.PersistentFlags().BoolVar(&tvTest, "test", false, "simulate the TV instead of sending requests")

	tvRemoteCmd.Flags().DurationVar(&remoteDelay, "delay", 0, "pause between commands")
	tvVolumeCmd.Flags().StringVar(&volumeTarget, "target", "", "audio target (speaker or headphone, default all)")
	tvVolumeCmd.Flags().IntVar(&volumeStep, "step", 1, "step for up and down")
	tvContentCmd.Flags().IntVar(&contentIndex, "index", 0, "first item")
	tvContentCmd.Flags().IntVar(&contentCount, "count", 0, "number of items (default 50)")
	tvContentCmd.Flags().BoolVar(&contentPlay, "play", false, "play the URI instead of listing it")
	tvNetworkCmd.Flags().StringVar(&networkInterface, "netif", "", "network interface (default all)")
	tvCommandsCmd.Flags().BoolVar(&commandsFromDevice, "from-device", false, "ask the TV for its command list")
	tvControlCmd.Flags().StringVar(&controlVersion, "api-version", bravia.Version10, "method version")

	tvCmd.AddCommand(
		tvRemoteCmd,
		tvPowerCmd,
		tvVolumeCmd,
		tvAppsCmd,
		tvSourcesCmd,
		tvContentCmd,
		tvPlayingCmd,
		tvTimeCmd,
		tvNetworkCmd,
		tvInfoCmd,
		tvCommandsCmd,
		tvControlCmd,
	)
}
