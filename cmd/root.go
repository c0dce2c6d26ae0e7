package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"braviactl/internal/config"
	"braviactl/internal/logger"
)

var (
	verbose    bool
	configPath string
	log        = logger.New()
)

var rootCmd = &cobra.Command{
	Use:   "braviactl",
	Short: "braviactl - control Sony Bravia TVs over the local network",
	Long: `braviactl drives Sony Bravia TVs through their local control API.
It sends IRCC remote commands, calls the JSON-RPC services, keeps a device
configuration, runs a terminal remote and serves a small REST bridge.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetSilentMode(false)
			logger.SetLevel("debug")
		}
		log = logger.New()
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the configuration file (default $BRAVIACTL_CONFIG or braviactl.yml)")

	rootCmd.AddCommand(tvCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(cliCmd)
}

// loadEnv reads the BRAVIACTL_ overlay and fills in the config path when
// the flag was not given
func loadEnv() (*config.Env, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		configPath = env.Config
	}
	if env.Debug {
		logger.SetSilentMode(false)
		logger.SetLevel("debug")
		log = logger.New()
	}
	return env, nil
}
