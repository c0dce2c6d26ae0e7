package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"braviactl/internal/config"
)

var (
	configForce bool

	addID           string
	addName         string
	addAddress      string
	addPSK          string
	addCapabilities []string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the device configuration file",
	Long: `Create and edit the braviactl configuration file. The file lists the
TVs by ID together with their address and PSK, and holds the bridge and
history settings.`,
}

// configManager returns a manager for the resolved config path
func configManager() (*config.Manager, *config.Env, error) {
	env, err := loadEnv()
	if err != nil {
		return nil, nil, err
	}
	return config.NewManager(configPath), env, nil
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, err := configManager()
		if err != nil {
			return err
		}

		if _, err := manager.Init(configForce); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Default configuration saved to: %s\n", manager.Path())
		fmt.Fprintln(out, "Edit the address and PSK of living_room_tv, or replace it with 'braviactl config add'.")
		return nil
	},
}

var configAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a TV",
	Long: `Add a TV to the configuration. Without --id a UUID is generated. The
first device added becomes the default. With $BRAVIACTL_PASSPHRASE set the
PSK is stored sealed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, env, err := configManager()
		if err != nil {
			return err
		}

		psk := addPSK
		if psk != "" && env.Passphrase != "" && !config.IsSealed(psk) {
			if psk, err = config.SealPSK(psk, env.Passphrase); err != nil {
				return err
			}
		}

		device, err := manager.AddDevice(config.DeviceConfig{
			ID:           addID,
			Name:         addName,
			Type:         config.DeviceTypeBravia,
			Address:      addAddress,
			PSK:          psk,
			Capabilities: addCapabilities,
		})
		if err != nil {
			return err
		}

		log.Info().
			Str("device_id", device.ID).
			Str("address", device.Address).
			Bool("sealed", config.IsSealed(device.PSK)).
			Msg("Device added")

		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) at %s\n", device.DisplayName(), device.ID, device.Address)
		return nil
	},
}

var configRemoveCmd = &cobra.Command{
	Use:   "remove <device-id>",
	Short: "Remove a TV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, err := configManager()
		if err != nil {
			return err
		}
		if err := manager.RemoveDevice(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured TVs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, err := configManager()
		if err != nil {
			return err
		}

		cfg, err := manager.Load()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(cfg.Devices) == 0 {
			fmt.Fprintln(out, "No devices configured.")
			return nil
		}

		for _, device := range cfg.Devices {
			marker := " "
			if device.ID == cfg.DefaultDevice {
				marker = "*"
			}
			psk := "none"
			switch {
			case config.IsSealed(device.PSK):
				psk = "sealed"
			case device.PSK != "":
				psk = "plain"
			}
			fmt.Fprintf(out, "%s %-36s %-20s %-22s psk=%s\n", marker, device.ID, device.DisplayName(), device.Address, psk)
		}
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, env, err := configManager()
		if err != nil {
			return err
		}

		if err := manager.Validate(); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		cfg, err := manager.Load()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration file is valid: %s\n", manager.Path())
		fmt.Fprintf(out, "Configured devices: %d\n", len(cfg.Devices))

		for _, device := range cfg.Devices {
			status := "ok"
			if _, err := device.PlainPSK(env.Passphrase); err != nil {
				if !errors.Is(err, config.ErrPassphraseRequired) {
					return err
				}
				status = "sealed, passphrase not set"
			}
			fmt.Fprintf(out, "  - %s (%s) at %s [%s]\n", device.ID, device.Type, device.Address, status)
		}
		return nil
	},
}

var configDefaultCmd = &cobra.Command{
	Use:   "default <device-id>",
	Short: "Set the default TV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, err := configManager()
		if err != nil {
			return err
		}
		if err := manager.SetDefault(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Default device: %s\n", args[0])
		return nil
	},
}

var configSealCmd = &cobra.Command{
	Use:   "seal",
	Short: "Encrypt every plain PSK with $BRAVIACTL_PASSPHRASE",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, env, err := configManager()
		if err != nil {
			return err
		}
		if env.Passphrase == "" {
			return config.ErrPassphraseRequired
		}

		sealed, err := manager.Seal(env.Passphrase)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sealed %d PSK(s) in %s\n", sealed, manager.Path())
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")

	configAddCmd.Flags().StringVar(&addID, "id", "", "device ID (default: generated)")
	configAddCmd.Flags().StringVarP(&addName, "name", "n", "", "display name")
	configAddCmd.Flags().StringVarP(&addAddress, "address", "a", "", "TV address (IP or IP:port)")
	configAddCmd.Flags().StringVarP(&addPSK, "psk", "k", "", "pre-shared key")
	configAddCmd.Flags().StringSliceVar(&addCapabilities, "capability", nil, "capability to advertise (repeatable)")
	_ = configAddCmd.MarkFlagRequired("address")

	configCmd.AddCommand(
		configInitCmd,
		configAddCmd,
		configRemoveCmd,
		configListCmd,
		configValidateCmd,
		configDefaultCmd,
		configSealCmd,
	)
}
