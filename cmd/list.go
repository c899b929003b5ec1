package cmd

import (
	"fmt"

	"codecombiner/pkg/combine"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var listTree bool

// listCmd shows which files a combine would include, without reading their full contents.
var listCmd = &cobra.Command{
	Use:   "list [paths...]",
	Short: "List the files that would be combined",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)

		report := a.collector.ImportPaths(args...)
		printReport(cmd, report)

		paths := a.collector.Paths()
		if len(paths) == 0 {
			return errNoFiles
		}

		out := cmd.OutOrStdout()
		if listTree {
			fmt.Fprint(out, combine.RenderTree(paths))
			return nil
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("NAME", "LANGUAGE", "SIZE", "PATH").
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return lipgloss.NewStyle()
			})
		for _, d := range combine.DescribeFiles(paths, a.logger) {
			lang := d.Language
			switch {
			case d.Binary:
				lang = "binary"
			case lang == "":
				lang = "-"
			}
			size := "?"
			if d.Size >= 0 {
				size = fmt.Sprintf("%d", d.Size)
			}
			t.Row(d.Name, lang, size, d.Path)
		}
		fmt.Fprintln(out, t.Render())
		fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render(fmt.Sprintf("%d file(s)", len(paths))))
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listTree, "tree", false, "Render the accepted files as a directory tree")
	RootCmd.AddCommand(listCmd)
}
