package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sublens/internal/ipc"
)

func newSessionCommand(ctx *commandContext) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Daemon session management",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List open sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SessionList()
				if err != nil {
					return fmt.Errorf("list sessions: %w", err)
				}
				if len(resp.IDs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No open sessions")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(resp.IDs, "\n"))
				return nil
			})
		},
	}

	openCmd := &cobra.Command{
		Use:   "open [id]",
		Short: "Open a session (generates an id when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = strings.TrimSpace(args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SessionOpen(id)
				if err != nil {
					return fmt.Errorf("open session: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.ID)
				return nil
			})
		},
	}

	closeCmd := &cobra.Command{
		Use:   "close <id>",
		Short: "Close a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SessionClose(strings.TrimSpace(args[0]))
				if err != nil {
					return fmt.Errorf("close session: %w", err)
				}
				if !resp.Closed {
					fmt.Fprintln(cmd.OutOrStdout(), "Session not found")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Session closed")
				return nil
			})
		},
	}

	sessionCmd.AddCommand(listCmd)
	sessionCmd.AddCommand(openCmd)
	sessionCmd.AddCommand(closeCmd)
	return sessionCmd
}
