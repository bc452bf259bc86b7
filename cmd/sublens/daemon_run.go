package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sublens/internal/daemonrun"
)

func newDaemonRunCommand(ctx *commandContext) *cobra.Command {
	var logLevel string

	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Daemon process controls",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the sublens daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			opts := daemonrun.Options{LogLevel: strings.TrimSpace(logLevel)}
			if ctx.socketFlag != nil {
				opts.SocketPath = strings.TrimSpace(*ctx.socketFlag)
			}
			return daemonrun.Run(cmd.Context(), cfg, opts)
		},
	}
	runCmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	daemonCmd.AddCommand(runCmd)
	return daemonCmd
}
