// Msgview fetches a message from a backend endpoint and shows it under a
// fixed heading.
//
// The endpoint is read once per activation. Until the message arrives, and
// for good if the fetch fails, the view shows "Loading...". Failures are
// written to the diagnostic log rather than the screen.
//
// Usage:
//
//	msgview [command] [flags]
//
// Running without arguments opens the interactive view.
// See 'msgview --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/muurk/msgview/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "msgview",
	Short: "Show the message served by a backend endpoint",
	Long: `Fetch {"message": "..."} from a backend endpoint and display it.

The endpoint is taken from --api-url, MSGVIEW_API_URL, the config file,
mDNS discovery (when enabled), or the default path /api resolved against
the base URL, in that order.

If no command is specified, the interactive view opens.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, args)
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
		fmt.Fprintf(cmd.OutOrStdout(), "msgview %s\n", version.Full())
	},
}
