package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/officelink/internal/adapters/driven/session"
	"github.com/custodia-labs/officelink/internal/config"
)

var (
	devTokenUser string
	devTokenTTL  time.Duration
)

// devTokenCmd mints a session token for local development. Production
// tokens come from the hosting platform, never from this command.
var devTokenCmd = &cobra.Command{
	Use:   "dev-token",
	Short: "Mint a development session token for a user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Load()
		if cfg.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET must be set")
		}

		token, err := session.Sign(session.Config{
			Secret: cfg.SessionSecret,
			Issuer: cfg.SessionIssuer,
		}, devTokenUser, devTokenTTL)
		if err != nil {
			return err
		}

		cmd.Println(token)
		return nil
	},
}

func init() {
	devTokenCmd.Flags().StringVar(&devTokenUser, "user", "dev-user", "user id to embed in the token")
	devTokenCmd.Flags().DurationVar(&devTokenTTL, "ttl", 24*time.Hour, "token lifetime")
	rootCmd.AddCommand(devTokenCmd)
}
