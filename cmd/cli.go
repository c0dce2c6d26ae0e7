package cmd

import (
	"github.com/spf13/cobra"

	"braviactl/cmd/cli"
	"braviactl/internal/config"
	"braviactl/internal/history"
	"braviactl/internal/logger"
)

var (
	debugFlag bool
	testFlag  bool
)

var cliCmd = &cobra.Command{
	Use:   "cli",
	Short: "Start the terminal remote",
	Long: `Launch the terminal remote. Pick a configured TV or type an address
and PSK, then drive the TV from the keyboard. --test simulates the TV.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}

		// log output would draw over the alt screen unless asked for
		if debugFlag || testFlag {
			logger.SetSilentMode(false)
			if debugFlag {
				logger.SetLevel("debug")
			}
		} else {
			logger.SetSilentMode(true)
		}
		log = logger.New()

		opts := cli.Options{
			ConfigPath: configPath,
			Passphrase: env.Passphrase,
			Debug:      debugFlag || env.Debug,
			Test:       testFlag,
		}

		manager := config.NewManager(configPath)
		if manager.Exists() {
			cfg, err := manager.Load()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.History.Path)
			if err != nil {
				log.Warn().Err(err).Msg("History disabled")
			} else {
				defer store.Close()
				opts.History = store
			}
		}

		log.Info().
			Bool("debug", opts.Debug).
			Bool("test", opts.Test).
			Str("config_path", configPath).
			Msg("Starting braviactl terminal remote")

		if err := cli.StartTUI(opts); err != nil {
			log.Error().Err(err).Msg("Failed to start TUI")
			return err
		}
		return nil
	},
}

func init() {
	cliCmd.Flags().BoolVar(&debugFlag, "debug", false, "enable debug logging for HTTP requests")
	cliCmd.Flags().BoolVar(&testFlag, "test", false, "simulate the TV instead of sending requests")
}
