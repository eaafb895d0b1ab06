package cmd

import (
	_ "embed"
	"path/filepath"
	"strings"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/unskip/unskip/internal/markdown"
	"github.com/unskip/unskip/internal/runner"
	"github.com/unskip/unskip/internal/skip"
)

//go:embed help/list.md
var listHelp string

type listing struct {
	path  string
	block skip.Block
}

func listCmd(opts *options) *cobra.Command {
	var sel selection

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "list [flags] [file...]",
		Aliases: []string{"ls"},
		Short:   "List skipped test blocks without modifying anything",
		Long:    listHelp,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.createStatus(cmd.ErrOrStderr())

			files, err := sel.resolve(args)
			if err != nil {
				return err
			}

			var listings []listing

			for _, file := range files {
				found, err := listFile(runner.OSFS(), file, opts.status)
				if err != nil {
					return err
				}

				listings = append(listings, found...)
			}

			if len(listings) == 0 {
				opts.status("No skipped test blocks found.\n")

				return nil
			}

			printListings(cmd, listings)

			return nil
		},

		DisableAutoGenTag: true,
	}

	selectionFlags(cmd, &sel)

	return cmd
}

func listFile(fsys runner.FS, name string, status statusFunc) ([]listing, error) {
	src, err := fsys.ReadFile(name)
	if err != nil {
		status("File not found: %s\n", name)

		return nil, nil //nolint:nilerr
	}

	if !isMarkdown(name) {
		return toListings(name, skip.Scan(src), 0), nil
	}

	snippets, err := markdown.Snippets(src, nil)
	if err != nil {
		return nil, err
	}

	var listings []listing

	for _, snippet := range snippets {
		listings = append(listings, toListings(name, skip.Scan(snippet.Code), snippet.StartLine-1)...)
	}

	return listings, nil
}

func toListings(path string, blocks []skip.Block, lineOffset int) []listing {
	listings := make([]listing, 0, len(blocks))

	for _, block := range blocks {
		block.StartLine += lineOffset
		block.EndLine += lineOffset

		listings = append(listings, listing{path: path, block: block})
	}

	return listings
}

func printListings(cmd *cobra.Command, listings []listing) {
	tbl := table.New("File", "Line", "Kind", "Label", "").WithWriter(cmd.OutOrStdout())

	for _, l := range listings {
		tbl.AddRow(l.path, l.block.StartLine, l.block.Kind, l.block.Label, suspiciousMark(l.block))
	}

	tbl.Print()
}

func suspiciousMark(block skip.Block) string {
	if block.Suspicious {
		return "suspicious"
	}

	return ""
}

func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}

	return false
}
