package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sublens/internal/ipc"
)

func newVocabCommand(ctx *commandContext) *cobra.Command {
	vocabCmd := &cobra.Command{
		Use:   "vocab",
		Short: "Saved phrase maintenance",
	}

	vocabCmd.AddCommand(newVocabListCommand(ctx))
	vocabCmd.AddCommand(newVocabDeleteCommand(ctx))
	return vocabCmd
}

func newVocabListCommand(ctx *commandContext) *cobra.Command {
	var videoID string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved phrases",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.VocabList(videoID, limit)
				if err != nil {
					return fmt.Errorf("list phrases: %w", err)
				}
				if len(resp.Phrases) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No saved phrases")
					return nil
				}

				rows := make([][]string, 0, len(resp.Phrases))
				for _, p := range resp.Phrases {
					rows = append(rows, []string{
						strconv.FormatInt(p.ID, 10),
						p.VideoID,
						p.Text,
						strings.Join(p.Words, " "),
						p.SourceLanguage + "→" + p.TargetLanguage,
						p.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Video", "Phrase", "Words", "Languages", "Saved"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&videoID, "video", "", "Only phrases saved for this video")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of phrases to show (0 for all)")
	return cmd
}

func newVocabDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved phrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid phrase id %q", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.VocabDelete(id)
				if err != nil {
					return fmt.Errorf("delete phrase: %w", err)
				}
				if !resp.Deleted {
					fmt.Fprintf(cmd.OutOrStdout(), "Phrase %d not found\n", id)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Phrase %d deleted\n", id)
				return nil
			})
		},
	}
}
