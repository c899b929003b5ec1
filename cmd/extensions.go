package cmd

import (
	"fmt"
	"strings"

	"codecombiner/pkg/combine"

	"github.com/spf13/cobra"
)

var resetYes bool

var extensionsCmd = &cobra.Command{
	Use:     "extensions",
	Aliases: []string{"ext"},
	Short:   "Manage the supported file extension list",
}

var extensionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the supported extensions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		exts := appFrom(cmd).collector.Extensions()
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(exts, "\n"))
		return nil
	},
}

var extensionsAddCmd = &cobra.Command{
	Use:   "add EXT...",
	Short: "Add extensions to the supported list",
	Long:  `Add one or more extensions such as .proto. Letters, digits and underscores may follow the dot.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

		var invalid int
		for _, arg := range args {
			ext, err := combine.NormalizeExtension(arg)
			if err != nil {
				invalid++
				fmt.Fprintln(errOut, errorStyle.Render(fmt.Sprintf("Invalid extension %q: %v", arg, err)))
				continue
			}
			if !a.collector.AddExtension(ext) {
				fmt.Fprintln(errOut, warnStyle.Render(fmt.Sprintf("Extension %s already exists", ext)))
				continue
			}
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Added %s", ext)))
		}
		if invalid > 0 {
			return fmt.Errorf("%d invalid extension(s)", invalid)
		}
		return nil
	},
}

var extensionsRemoveCmd = &cobra.Command{
	Use:     "remove EXT...",
	Aliases: []string{"rm"},
	Short:   "Remove extensions from the supported list",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)

		var toRemove []string
		for _, arg := range args {
			ext, err := combine.NormalizeExtension(arg)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render(fmt.Sprintf("Skipping %q: %v", arg, err)))
				continue
			}
			if !a.collector.Extensions().Contains(ext) {
				fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render(fmt.Sprintf("Extension %s is not in the list", ext)))
				continue
			}
			toRemove = append(toRemove, ext)
		}
		if len(toRemove) == 0 {
			return nil
		}
		a.collector.RemoveExtensions(toRemove...)
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Removed "+strings.Join(toRemove, ", ")))
		return nil
	},
}

var extensionsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default extension list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := appFrom(cmd)

		if !resetYes {
			ok, err := promptUser(cmd.InOrStdin(), cmd.ErrOrStderr(),
				"Are you sure you want to reset the extension list to defaults? (y/n): ")
			if err != nil {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			if !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("Reset cancelled."))
				return nil
			}
		}

		a.collector.ResetExtensions()
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(
			fmt.Sprintf("Extensions reset to defaults (%d entries)", len(a.collector.Extensions()))))
		return nil
	},
}

func init() {
	extensionsResetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Do not ask for confirmation")

	extensionsCmd.AddCommand(extensionsListCmd, extensionsAddCmd, extensionsRemoveCmd, extensionsResetCmd)
	RootCmd.AddCommand(extensionsCmd)
}
