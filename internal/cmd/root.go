// Package cmd wires up the unskip command line interface.
package cmd

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

//go:embed help/root.md
var rootHelp string

type statusFunc func(format string, args ...interface{})

type options struct {
	quiet  bool
	status statusFunc
}

func (o *options) createStatus(w io.Writer) {
	if o.quiet {
		o.status = func(string, ...interface{}) {}

		return
	}

	o.status = func(format string, args ...interface{}) {
		fmt.Fprintf(w, format, args...)
	}
}

// Execute runs the CLI with the given arguments and exits nonzero on
// failure.
func Execute(args []string, stdout, stderr io.Writer) {
	opts := &options{}

	root := rootCmd(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "unskip",
		Short: "Remove skipped test blocks from JavaScript test files",
		Long:  rootHelp,

		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}

	quietFlag(cmd, opts)

	cmd.AddCommand(cleanCmd(opts))
	cmd.AddCommand(listCmd(opts))

	return cmd
}

func quietFlag(cmd *cobra.Command, opts *options) {
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress status output")
}
