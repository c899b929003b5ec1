package cmd

import (
	"fmt"
	"io"
	"os"

	"codecombiner/pkg/summarize"

	"github.com/spf13/cobra"
)

var summarizeProvider string

var summarizeCmd = &cobra.Command{
	Use:   "summarize [FILE|-]",
	Short: "Summarize a text file, or stdin, with an AI provider",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)

		var (
			data []byte
			err  error
		)
		if len(args) == 0 || args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		return printSummary(cmd, a, string(data), summarizeProvider)
	},
}

// printSummary summarizes text with providerName, or the current provider when empty, and
// prints the result followed by the model in use.
func printSummary(cmd *cobra.Command, a *app, text, providerName string) error {
	prefs := summarize.LoadPreferences(a.cfg.PreferencesFile, a.logger)
	if providerName == "" {
		providerName = prefs.CurrentProvider()
	}
	settings := prefs.Settings(providerName)

	summary, err := a.dispatcher.Summarize(cmd.Context(), text, providerName, settings)
	if err != nil {
		return fmt.Errorf("summarization failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), summary)

	model := settings.String(summarize.KeyModel)
	if model == "" {
		model = "No Model Selected"
	}
	fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("Current AI Model: "+model))
	return nil
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeProvider, "provider", "", "AI provider to use (defaults to the current provider)")
	RootCmd.AddCommand(summarizeCmd)
}
