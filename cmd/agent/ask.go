// cmd/agent/ask.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"northwind-agent/internal/models"
)

var askFormat string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question and print the result as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hint := models.FormatHint(askFormat)
		if !hint.IsValid() {
			return fmt.Errorf("unknown format hint %q (known: %v)", askFormat, models.KnownFormatHints)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		q := models.Question{Text: strings.Join(args, " "), FormatHint: hint}
		final, err := a.agent.Answer(ctx, q)
		if err != nil {
			return err
		}

		out := models.BatchOutput{
			ID:          final.RunID,
			FinalAnswer: final.Answer.Value,
			SQL:         final.SQL,
			Confidence:  final.Answer.Confidence,
			Explanation: final.Answer.Explanation,
			Citations:   final.Answer.Citations,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	askCmd.Flags().StringVar(&askFormat, "format", "string", "expected answer shape (int, float, string, json, list)")
}
