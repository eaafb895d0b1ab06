package cmd

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/unskip/unskip/internal/runner"
	"github.com/unskip/unskip/internal/watcher"
)

//go:embed help/clean.md
var cleanHelp string

func cleanCmd(opts *options) *cobra.Command {
	var (
		sel    selection
		dryRun bool
		report bool
		watch  bool
		run    string
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "clean [flags] [file...]",
		Aliases: []string{"c"},
		Short:   "Remove skipped test blocks and rewrite the files in place",
		Long:    cleanHelp,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.createStatus(cmd.OutOrStdout())

			files, err := sel.resolve(args)
			if err != nil {
				return err
			}

			results := runner.Run(runner.OSFS(), files, dryRun, runner.StatusFunc(opts.status))

			if report {
				printReport(cmd.OutOrStdout(), results)
			}

			if err := checkFailures(results); err != nil {
				return err
			}

			if run != "" {
				if err := runCommand(run, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
					return err
				}
			}

			if watch {
				return watchLoop(files, dryRun, opts)
			}

			return nil
		},

		DisableAutoGenTag: true,
	}

	selectionFlags(cmd, &sel)

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report removals without writing files")
	cmd.Flags().BoolVar(&report, "report", false, "print a per-file summary table after the run")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and re-clean targets when they change")
	cmd.Flags().StringVar(&run, "run", "", "shell command to execute after a successful run")

	return cmd
}

func checkFailures(results []runner.Result) error {
	var failures int

	for _, res := range results {
		if res.Status == runner.StatusFailed {
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d file(s) failed", failures)
	}

	return nil
}

func printReport(w io.Writer, results []runner.Result) {
	tbl := table.New("File", "Status", "Removed", "Suspicious").WithWriter(w)

	for _, res := range results {
		tbl.AddRow(res.Path, res.Status, res.Removed, res.Suspicious)
	}

	tbl.Print()
}

func runCommand(command string, stdout, stderr io.Writer) error {
	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return err
	}

	shell, err := interp.New(interp.StdIO(os.Stdin, stdout, stderr))
	if err != nil {
		return err
	}

	err = shell.Run(context.TODO(), file)
	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return fmt.Errorf("command exited with %d", status)
		}

		return err
	}

	return nil
}

func watchLoop(files []string, dryRun bool, opts *options) error {
	w, err := watcher.New(files, func(paths []string) {
		runner.Run(runner.OSFS(), paths, dryRun, runner.StatusFunc(opts.status))
	}, func(err error) {
		opts.status("watch error: %v\n", err)
	})
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Start(); err != nil {
		return err
	}

	opts.status("Watching %d file(s). Press Ctrl-C to stop.\n", len(files))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig

	return nil
}
