// Command mingit is the CLI surface (§4.14): a thin cobra frontend
// over the repo package, one subcommand per row of §6's table.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/kbolino/mingit/giterrors"
)

var fs = afero.NewOsFs()

var rootCmd = &cobra.Command{
	Use:           "mingit",
	Short:         "a minimal, Git-compatible version-control engine",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, diagnostic(err))
		os.Exit(1)
	}
}

// diagnostic renders an error the way §7 prescribes: "kind: detail"
// (plus the offending identity and byte offset when present) for the
// engine's own error type, or its plain message otherwise.
func diagnostic(err error) string {
	var gerr *giterrors.Error
	if errors.As(err, &gerr) {
		msg := fmt.Sprintf("%s: %s", gerr.Kind, gerr.Detail)
		if gerr.Identity != "" {
			msg += fmt.Sprintf(" (object %s)", gerr.Identity)
		}
		if gerr.Offset >= 0 {
			msg += fmt.Sprintf(" (offset %d)", gerr.Offset)
		}
		return msg
	}
	return err.Error()
}
