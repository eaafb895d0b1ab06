package cmd

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/unskip/unskip/internal/runner"
)

// selection holds the file-picking flags shared by clean and list.
type selection struct {
	globs     []string
	filesFrom string
}

func selectionFlags(cmd *cobra.Command, sel *selection) {
	cmd.Flags().StringArrayVarP(&sel.globs, "glob", "g", nil, "discover files matching a glob pattern (repeatable)")
	cmd.Flags().StringVar(&sel.filesFrom, "files-from", "", "read target paths from a file, one per line")
}

// resolve builds the ordered target list from positional args, --glob
// patterns and --files-from. With nothing specified it falls back to
// the historical default list.
func (sel *selection) resolve(args []string) ([]string, error) {
	files := append([]string(nil), args...)

	if sel.filesFrom != "" {
		listed, err := readFileList(sel.filesFrom)
		if err != nil {
			return nil, err
		}

		files = append(files, listed...)
	}

	for _, pattern := range sel.globs {
		matched, err := expandGlob(pattern)
		if err != nil {
			return nil, err
		}

		files = append(files, matched...)
	}

	if len(files) == 0 {
		if len(sel.globs) > 0 || sel.filesFrom != "" {
			return nil, errNoFilesMatched
		}

		files = runner.DefaultFiles()
	}

	return dedupe(files), nil
}

// readFileList parses a target list file. Lines are split with shlex so
// quoted paths containing spaces survive; blank lines and lines
// starting with # are skipped.
func readFileList(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var files []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		words, err := shlex.Split(line)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		files = append(files, words...)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return files, nil
}

// expandGlob walks the working directory and returns files whose
// slash-separated relative path matches pattern. Hidden directories and
// node_modules are not descended into.
func expandGlob(pattern string) ([]string, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}

	var files []string

	err = filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()

		if d.IsDir() {
			if path != "." && (strings.HasPrefix(name, ".") || name == "node_modules") {
				return filepath.SkipDir
			}

			return nil
		}

		if g.Match(filepath.ToSlash(path)) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func dedupe(files []string) []string {
	seen := make(map[string]bool, len(files))
	out := files[:0]

	for _, f := range files {
		if seen[f] {
			continue
		}

		seen[f] = true
		out = append(out, f)
	}

	return out
}

var errNoFilesMatched = fmt.Errorf("no files matched")
