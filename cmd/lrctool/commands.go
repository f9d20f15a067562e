package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sukalov/karaokedesk/internal/lyrics"
	"github.com/sukalov/karaokedesk/internal/lyrics/lrc"
	"github.com/sukalov/karaokedesk/internal/lyrics/parsers/page"
)

var errNotWellFormed = errors.New("not well-formed LRC")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lrctool",
		Short:         "Inspect and convert LRC lyrics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newValidateCmd(),
		newToJSONCmd(),
		newToLRCCmd(),
		newDraftCmd(),
	)
	return root
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|->",
		Short: "Check that every line starts with a [m:ss.xx] timestamp",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			if !lrc.IsWellFormed(text) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", args[0], errNotWellFormed)
				return errNotWellFormed
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d lines\n", args[0], len(lrc.Parse(text)))
			return nil
		},
	}
}

func newToJSONCmd() *cobra.Command {
	var asTrack bool

	cmd := &cobra.Command{
		Use:   "to-json <file|->",
		Short: "Parse LRC text into the stored timestamp -> text mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			var value any = lrc.Parse(text)
			if asTrack {
				value, err = lrc.Normalize(lrc.Parse(text))
				if err != nil {
					return err
				}
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			encoder.SetEscapeHTML(false)
			return encoder.Encode(value)
		},
	}

	cmd.Flags().BoolVar(&asTrack, "track", false, "print an ordered [{time, text}] list instead of the mapping")
	return cmd
}

func newToLRCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "to-lrc <file|->",
		Short: "Format a stored timestamp -> text mapping as LRC text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			var mapping lrc.Mapping
			if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
				return fmt.Errorf("failed to decode mapping: %w", err)
			}

			text, err := lrc.Format(mapping)
			if err != nil {
				return err
			}
			// no final newline, IsWellFormed would reject it
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func newDraftCmd() *cobra.Command {
	var (
		selector   string
		outputFile string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:     "draft <url>",
		Short:   "Extract lyrics from a web page as evenly timed LRC",
		Example: "lrctool draft --selector pre https://example.com/song",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			service := lyrics.NewService(page.NewParser(selector))
			result, err := service.DraftFromURL(ctx, args[0])
			if err != nil {
				return err
			}

			if outputFile == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), result.LRC)
				return err
			}
			if err := os.WriteFile(outputFile, []byte(result.LRC), 0644); err != nil {
				return fmt.Errorf("failed to save %s: %w", outputFile, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d lines saved to %s\n", result.Lines, outputFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&selector, "selector", "pre", "CSS selector of the lyrics block")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "page fetch timeout")
	return cmd
}

// readInput reads a file, or stdin when name is "-"
func readInput(cmd *cobra.Command, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}
