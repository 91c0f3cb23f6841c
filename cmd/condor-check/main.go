package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	printError(os.Stderr, err)
	os.Exit(exitCode(err))
}

// printError writes err unless it is a host failure or was already logged.
func printError(w io.Writer, err error) {
	var le loggedError
	if err == nil || errors.Is(err, ErrCheckFailed) || errors.As(err, &le) {
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
}

// exitCode maps the command result to the process exit status.
func exitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}

var rootCmd = &cobra.Command{
	Use:   "condor-check",
	Short: "Check that every HTCondor worker node accepts connections on the collector port",
	Long: `condor-check asks the HTCondor collector for its startd ads, reduces them to
unique hostnames and opens a TCP connection to each one on COLLECTOR_PORT.
It exits 0 when every host is reachable and 1 otherwise.`,
	Version:       Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCheck,
}
