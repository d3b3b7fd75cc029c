package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/traverse/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╔╦╗┬─┐┌─┐┬  ┬┌─┐┬─┐┌─┐┌─┐
   ║ ├┬┘├─┤└┐┌┘├┤ ├┬┘└─┐├┤
   ╩ ┴└─┴ ┴ └┘ └─┘┴└─└─┘└─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "traverse",
		Short: "History sync bridge for typed client-side routing",
		Long: `Traverse serves a single-page application shell and mirrors
each browser's history on the server over a WebSocket.

Server-side code navigates with typed targets; the bridge keeps the
browser's address bar in sync and feeds browser navigations back.

  • Typed route targets, no string matching in application code
  • Per-session history mirror over WebSocket
  • Shell document fallback for deep links
  • Prometheus metrics and OpenTelemetry spans per navigation`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		initCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// printBanner prints the Traverse ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
