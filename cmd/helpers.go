package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"codecombiner/pkg/combine"

	"github.com/spf13/cobra"
)

// promptUser displays a message and waits for the user to enter 'y' or 'n'.
// Returns true if the user enters 'y' or 'yes' (case-insensitive), false otherwise.
func promptUser(in io.Reader, out io.Writer, message string) (bool, error) {
	fmt.Fprint(out, message)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && response != "") {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// rejectionMessage renders an import rejection for the terminal.
func rejectionMessage(r combine.Rejection) string {
	var extErr *combine.UnsupportedExtensionError
	if errors.As(r.Err, &extErr) {
		if extErr.NoSuffix() {
			return fmt.Sprintf("Error: No extension - %s", r.Path)
		}
		return fmt.Sprintf("Error: Unsupported extension - %s. If it's a code file, use 'extensions add' to add it.", r.Path)
	}
	return fmt.Sprintf("Error: %s: %v", r.Path, r.Err)
}

// printReport writes rejections and ignore counts to stderr.
func printReport(cmd *cobra.Command, report combine.ImportReport) {
	errOut := cmd.ErrOrStderr()
	for _, r := range report.Rejected {
		fmt.Fprintln(errOut, warnStyle.Render(rejectionMessage(r)))
	}
	if n := len(report.Ignored); n > 0 {
		fmt.Fprintln(errOut, mutedStyle.Render(fmt.Sprintf("Skipped %d file(s) matching ignore rules", n)))
	}
}
