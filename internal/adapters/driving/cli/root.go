// Package cli wires the application commands.
package cli

import (
	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "officelink",
	Short: "Multi-service office integration layer",
	Long: `OfficeLink connects platform users to their Google mail, calendar,
file storage and contacts through a single authorized integration layer.

It manages OAuth consent flows, stores and refreshes tokens, proxies
service operations, and keeps an audit log of every write action.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
