package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"braviactl/internal"
	"braviactl/internal/config"
	"braviactl/internal/devices"
	"braviactl/internal/history"
	"braviactl/internal/logger"
	"braviactl/internal/server"
)

var (
	serveListen    string
	serveJWTSecret string
	serveNoHistory bool
	serveDebug     bool
	serveTest      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REST bridge for the configured TVs",
	Long: `Serve a REST bridge in front of the configured TVs.

  GET  /api/v1/health
  GET  /api/v1/devices
  GET  /api/v1/devices/{id}
  POST /api/v1/devices/{id}/action
  GET  /api/v1/devices/{id}/commands
  GET  /api/v1/history
  GET  /metrics

When a JWT secret is set (--jwt-secret or server.jwt_secret) the device
routes need a bearer token from 'braviactl token'. SIGHUP reloads the
configuration file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}

		if serveDebug || env.Debug {
			logger.SetLevel("debug")
		} else {
			logger.SetLevel("info")
		}
		logger.SetSilentMode(false)
		log = logger.New()

		manager := config.NewManager(configPath)
		if !manager.Exists() {
			return fmt.Errorf("config file %s does not exist, run 'braviactl config init' first", configPath)
		}
		cfg, err := manager.Load()
		if err != nil {
			return err
		}

		mode := internal.NewModeOptions(internal.WithDebug(serveDebug || env.Debug), internal.WithTest(serveTest))
		registry, err := devices.NewManager(cfg, devices.WithFactory(devices.BraviaFactory(mode, env.Passphrase)))
		if err != nil {
			return err
		}

		opts := []server.Option{server.WithJWTSecret(firstNonEmpty(serveJWTSecret, cfg.Server.JWTSecret))}
		if !serveNoHistory {
			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()
			opts = append(opts, server.WithHistory(store))
		}

		bridge := server.New(registry, opts...)
		listen := firstNonEmpty(serveListen, cfg.Server.Listen)

		log.Info().
			Str("config_path", manager.Path()).
			Int("devices", len(cfg.Devices)).
			Bool("test", mode.Test).
			Msg("Starting braviactl bridge")

		errCh := make(chan error, 1)
		go func() {
			errCh <- bridge.Start(listen)
		}()

		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)

		ctx := cmd.Context()
		for {
			select {
			case err := <-errCh:
				return err
			case <-hup:
				reloaded, err := manager.Load()
				if err != nil {
					log.Error().Err(err).Msg("Failed to reload config, keeping the current one")
					continue
				}
				registry.Reload(reloaded)
			case <-ctx.Done():
				log.Info().Msg("Shutting down bridge")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				err := bridge.Shutdown(shutdownCtx)
				cancel()
				if err != nil {
					return err
				}
				return <-errCh
			}
		}
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (default server.listen or :8080)")
	serveCmd.Flags().StringVar(&serveJWTSecret, "jwt-secret", "", "HS256 secret for bearer tokens")
	serveCmd.Flags().BoolVar(&serveNoHistory, "no-history", false, "do not record actions")
	serveCmd.Flags().BoolVarP(&serveDebug, "debug", "d", false, "enable debug logging")
	serveCmd.Flags().BoolVar(&serveTest, "test", false, "simulate the TVs instead of sending requests")
}
