package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"braviactl/internal/config"
	"braviactl/internal/server"
)

var (
	tokenSecret string
	tokenExpiry time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Issue a bearer token for the REST bridge",
	Long: `Issue an HS256 bearer token for the REST bridge. The secret is taken
from --secret or from server.jwt_secret in the configuration file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadEnv(); err != nil {
			return err
		}

		secret := tokenSecret
		if secret == "" {
			cfg, err := config.NewManager(configPath).Load()
			if err != nil {
				return err
			}
			secret = cfg.Server.JWTSecret
		}
		if secret == "" {
			return errors.New("no jwt secret: pass --secret or set server.jwt_secret")
		}

		token, err := server.IssueToken(secret, args[0], tokenExpiry)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSecret, "secret", "", "HS256 secret (default server.jwt_secret)")
	tokenCmd.Flags().DurationVar(&tokenExpiry, "expiry", 24*time.Hour, "token lifetime")
}
