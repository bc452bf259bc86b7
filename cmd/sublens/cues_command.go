package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"sublens/internal/subtitle"
)

func newCuesCommand(ctx *commandContext) *cobra.Command {
	var targetFile string
	var native bool
	var placeholder string

	cmd := &cobra.Command{
		Use:         "cues <file.vtt>",
		Short:       "Parse subtitle files and show the merged cue table",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			original, err := parseVTTFile(args[0])
			if err != nil {
				return err
			}

			var target []subtitle.ParsedCue
			if targetFile != "" {
				target, err = parseVTTFile(targetFile)
				if err != nil {
					return err
				}
			}

			var cues []subtitle.Cue
			if native {
				cues = subtitle.SplitNative("local", original, target)
			} else {
				cues = subtitle.MergeDual("local", original, target, placeholder)
			}

			rows := make([][]string, 0, len(cues))
			for i, cue := range cues {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					formatTime(cue.Start),
					formatTime(cue.End),
					string(cue.Type),
					cue.Original,
					cue.Translated,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Start", "End", "Type", "Original", "Translated"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d cues\n", len(cues))
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetFile, "target", "t", "", "Target-language VTT file to merge")
	cmd.Flags().BoolVar(&native, "native", false, "Keep tracks separate (native target mode)")
	cmd.Flags().StringVar(&placeholder, "placeholder", "Translating…", "Placeholder for unmatched dual cues")
	return cmd
}

func parseVTTFile(path string) ([]subtitle.ParsedCue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read subtitle file: %w", err)
	}
	cues, err := subtitle.ParseVTT(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cues, nil
}

func formatTime(seconds float64) string {
	total := int(seconds)
	millis := int((seconds - float64(total)) * 1000)
	return fmt.Sprintf("%02d:%02d.%03d", total/60, total%60, millis)
}
