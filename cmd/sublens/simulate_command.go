package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sublens/internal/analysis"
	"sublens/internal/logging"
	"sublens/internal/modal"
	"sublens/internal/platform"
	"sublens/internal/render"
	"sublens/internal/selection"
	"sublens/internal/session"
	"sublens/internal/subtitle"
)

// newSimulateCommand builds a local playback simulation that exercises the
// whole session pipeline without a daemon: subtitles load into a scheduler,
// the clock steps through every cue, and an optional word selection runs a
// loopback analysis round trip.
func newSimulateCommand(ctx *commandContext) *cobra.Command {
	var targetFile string
	var native bool
	var videoID string
	var selectWord string

	cmd := &cobra.Command{
		Use:   "simulate <file.vtt>",
		Short: "Replay a subtitle file through a local session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			vttText, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read subtitle file: %w", err)
			}
			payload := subtitle.Payload{
				VideoID:         videoID,
				VTTText:         string(vttText),
				UseNativeTarget: native,
				SourceLanguage:  cfg.Subtitles.SourceLanguage,
				TargetLanguage:  cfg.Subtitles.TargetLanguage,
			}
			if targetFile != "" {
				targetText, err := os.ReadFile(targetFile)
				if err != nil {
					return fmt.Errorf("read target subtitle file: %w", err)
				}
				payload.TargetVTTText = string(targetText)
				payload.UseNativeTarget = true
			}

			parsed, err := parseVTTFile(args[0])
			if err != nil {
				return err
			}

			adapter := platform.NewScripted(videoID, 0)
			surface := render.NewMemorySurface()
			dispatcher := analysis.NewLoopback(0, nil)
			sess := session.New("simulate", adapter, surface, dispatcher, nil, logging.NewNop(), session.Options{
				Placeholder:  cfg.Player.Placeholder,
				TimeOffset:   cfg.Player.TimeOffset,
				MaxAttempts:  cfg.Analysis.MaxAttempts,
				ContextTypes: cfg.Analysis.ContextTypes,
			})
			defer sess.Close()
			dispatcher.OnResponse(func(resp analysis.Response) {
				sess.HandleAnalysisResponse(cmd.Context(), resp)
			})

			count, err := sess.HandleSubtitlePayload(payload)
			if err != nil {
				return fmt.Errorf("load subtitles: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d cues from %s\n\n", count, args[0])

			for _, cue := range parsed {
				adapter.Seek(cue.Start + 0.001)
				sess.HandleTimeUpdate()
				display := sess.Scheduler().CurrentDisplay()
				line := display.Original
				if display.Translated != "" {
					line += " | " + display.Translated
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", formatTime(cue.Start), line)
			}

			if selectWord == "" {
				return nil
			}
			return simulateSelection(cmd, sess, adapter, surface, parsed, selectWord)
		},
	}

	cmd.Flags().StringVarP(&targetFile, "target", "t", "", "WebVTT file with native target-language cues")
	cmd.Flags().BoolVar(&native, "native", false, "treat the subtitle file as a dual-language track")
	cmd.Flags().StringVar(&videoID, "video", "local", "video identity for the simulated playback")
	cmd.Flags().StringVar(&selectWord, "select", "", "word to select and analyze after playback")
	return cmd
}

// simulateSelection pauses on the first cue containing the word, toggles it,
// and waits for the loopback analysis to reach a terminal modal state.
func simulateSelection(cmd *cobra.Command, sess *session.Session, adapter *platform.Scripted, surface *render.MemorySurface, parsed []subtitle.ParsedCue, word string) error {
	var node *render.Node
	for _, cue := range parsed {
		adapter.Seek(cue.Start + 0.001)
		sess.HandleTimeUpdate()
		node = findWordNode(surface, word)
		if node != nil {
			break
		}
	}
	if node == nil {
		return fmt.Errorf("word %q not found in any cue", word)
	}

	adapter.SetPaused(true)
	result := sess.HandleWordClick(node.ID)
	if result != selection.ToggleAdded {
		return fmt.Errorf("word %q could not be selected", word)
	}
	view := sess.Controller().View().Get()
	fmt.Fprintf(cmd.OutOrStdout(), "\nSelected: %s\n", view.SelectedText)

	if !sess.StartAnalysis(cmd.Context()) {
		return fmt.Errorf("analysis did not start")
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		view = sess.Controller().View().Get()
		if view.State == modal.StateDisplay || view.State == modal.StateError {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if view.State == modal.StateError {
		return fmt.Errorf("analysis failed: %s", view.ErrorMessage)
	}
	if view.State != modal.StateDisplay {
		return fmt.Errorf("analysis timed out")
	}

	encoded, err := json.MarshalIndent(view.Result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode analysis result: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Analysis result:\n%s\n", encoded)
	return nil
}

func findWordNode(surface *render.MemorySurface, word string) *render.Node {
	for _, node := range surface.WordNodes() {
		if strings.EqualFold(node.Dataset[render.AttrWord], word) {
			return node
		}
	}
	return nil
}
