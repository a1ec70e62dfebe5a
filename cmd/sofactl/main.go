// Sofactl is a control client for SofaBaton remote-control hubs.
//
// It speaks the hub's reverse-engineered binary protocol: a UDP
// discovery packet tells the hub where to dial back, the hub opens a
// TCP connection to this machine, and after a fixed authentication
// exchange button commands can be sent.
//
// Usage:
//
//	sofactl [command] [flags]
//
// Running without arguments launches the interactive remote.
// See 'sofactl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/sofactl/internal/logging"
	"github.com/muurk/sofactl/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sofactl",
	Short: "SofaBaton Hub Control Client",
	Long: `A control client for SofaBaton remote-control hubs.

Sends the UDP discovery packet that makes the hub dial back, performs
the TCP authentication exchange, and sends button commands over the
resulting session.

If no command is specified, the interactive remote will launch.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the interactive remote
		return runInteractive(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sofactl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
