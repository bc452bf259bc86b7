package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sublens/internal/daemonctl"
	"sublens/internal/ipc"
)

func runStatus(cmd *cobra.Command, ctx *commandContext) error {
	stdout := cmd.OutOrStdout()
	colorize := shouldColorize(stdout)

	for _, line := range renderSectionHeader("Daemon", colorize) {
		fmt.Fprintln(stdout, line)
	}

	reachable, _, err := daemonctl.ProcessInfo(ctx.socketPath())
	if err != nil || !reachable {
		fmt.Fprintln(stdout, renderStatusLine("Sublens", statusWarn, "Not running (run `sublens start`)", colorize))
		return nil
	}

	return ctx.withClient(func(client *ipc.Client) error {
		status, err := client.Status()
		if err != nil {
			return fmt.Errorf("query status: %w", err)
		}

		if status.Running {
			fmt.Fprintln(stdout, renderStatusLine("Sublens", statusOK, fmt.Sprintf("Running (pid %d)", status.PID), colorize))
		} else {
			fmt.Fprintln(stdout, renderStatusLine("Sublens", statusWarn, "Daemon process reachable but stopped", colorize))
		}
		fmt.Fprintln(stdout, renderStatusLine("Socket", statusInfo, ctx.socketPath(), colorize))
		fmt.Fprintln(stdout, renderStatusLine("Log file", statusInfo, status.LogPath, colorize))
		if status.VocabPath != "" {
			detail := fmt.Sprintf("%s (%d phrases)", status.VocabPath, status.VocabCount)
			fmt.Fprintln(stdout, renderStatusLine("Vocabulary", statusOK, detail, colorize))
		} else {
			fmt.Fprintln(stdout, renderStatusLine("Vocabulary", statusInfo, "Disabled", colorize))
		}

		fmt.Fprintln(stdout)
		for _, line := range renderSectionHeader("Sessions", colorize) {
			fmt.Fprintln(stdout, line)
		}
		if len(status.Sessions) == 0 {
			fmt.Fprintln(stdout, "No open sessions")
			return nil
		}
		fmt.Fprintln(stdout, strings.Join(status.Sessions, "\n"))
		return nil
	})
}
