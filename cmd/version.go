package cmd

import (
	"errors"
	"fmt"

	"codecombiner/pkg/version"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command.
// The --short flag allows users to retrieve a concise version string.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of codecombiner",
	Long:  `Display the current version information of the codecombiner CLI tool.`,
	// Version output needs no config, logger or registry.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		// Retrieve the value of the --short flag
		short, err := cmd.Flags().GetBool("short")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}
		check, err := cmd.Flags().GetBool("check")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}

		v := version.Get()
		out := cmd.OutOrStdout()
		if short {
			fmt.Fprintln(out, v.Version)
		} else {
			fmt.Fprintln(out, v.String())
		}

		if !check {
			return nil
		}
		rel, err := version.CheckLatest(version.ReleaseSource(), v.Version)
		if errors.Is(err, version.ErrNoReleaseFeed) {
			fmt.Fprintln(out, mutedStyle.Render("This build names no release feed; skipping update check"))
			return nil
		}
		if err != nil {
			return err
		}
		switch {
		case rel.Latest == "":
			fmt.Fprintln(out, mutedStyle.Render("Development build; skipping update check"))
		case rel.Outdated:
			fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("A newer version is available: %s", rel.Latest)))
		default:
			fmt.Fprintln(out, successStyle.Render("You are running the latest version"))
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	versionCmd.Flags().Bool("check", false, "Check GitHub for a newer release")

	RootCmd.AddCommand(versionCmd)
}
