package cmd

import (
	"errors"
	"fmt"
	"strings"

	"codecombiner/pkg/combine"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errNoFiles = errors.New("no files selected")

var (
	combineOutput    string
	combineCopy      bool
	combineSummarize bool
	combineProvider  string
	combineTree      bool
)

// combineCmd imports the given files and folders and emits their combined contents.
var combineCmd = &cobra.Command{
	Use:   "combine [paths...]",
	Short: "Combine files and folders into a single annotated text block",
	Long: `Combine imports each path (folders recursively), keeps files whose extension is on the
allow-list and writes their contents under "# <name>" headers. The result goes to stdout unless
--output or --copy is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCombine,
}

func runCombine(cmd *cobra.Command, args []string) error {
	a := appFrom(cmd)

	report := a.collector.ImportPaths(args...)
	printReport(cmd, report)

	paths := a.collector.Paths()
	if len(paths) == 0 {
		a.logger.Warn("Nothing to combine", zap.Strings("args", args))
		return errNoFiles
	}

	content := a.collector.Combine()
	if combineTree {
		content = combine.RenderTree(paths) + "\n" + content
	}

	out := cmd.OutOrStdout()
	if combineOutput != "" {
		if err := combine.WriteCombinedFile(combineOutput, content, a.logger); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render(
			fmt.Sprintf("Combined %d file(s) into %s", len(paths), combineOutput)))
	}
	if combineCopy {
		if err := clipboard.WriteAll(strings.TrimSpace(content)); err != nil {
			a.logger.Error("Failed to copy to clipboard", zap.Error(err))
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render("Text copied to clipboard!"))
	}
	if combineOutput == "" && !combineCopy && !combineSummarize {
		fmt.Fprint(out, content)
	}

	if combineSummarize {
		return printSummary(cmd, a, content, combineProvider)
	}
	return nil
}

func init() {
	flags := combineCmd.Flags()
	flags.StringVarP(&combineOutput, "output", "o", "", "Write the combined text to this file")
	flags.BoolVarP(&combineCopy, "copy", "c", false, "Copy the combined text to the clipboard")
	flags.BoolVarP(&combineSummarize, "summarize", "s", false, "Summarize the combined text with the current AI provider")
	flags.StringVar(&combineProvider, "provider", "", "AI provider to summarize with (defaults to the current provider)")
	flags.BoolVar(&combineTree, "tree", false, "Prefix the output with a directory tree of the combined files")

	RootCmd.AddCommand(combineCmd)
}
