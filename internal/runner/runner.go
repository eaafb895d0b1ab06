// Package runner drives skip-block removal over an ordered list of files.
package runner

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/unskip/unskip/internal/markdown"
	"github.com/unskip/unskip/internal/skip"
)

const fileMode = 0o644

// FS is the filesystem surface the runner needs. The os implementation
// is returned by [OSFS]; tests substitute an in-memory filesystem.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// StatusFunc receives per-file progress lines.
type StatusFunc func(format string, args ...interface{})

// Status classifies the outcome for one file.
type Status int

const (
	StatusProcessed Status = iota
	StatusNotFound
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusProcessed:
		return "processed"
	case StatusNotFound:
		return "not found"
	case StatusFailed:
		return "failed"
	}

	return "unknown"
}

// Result is the outcome for one file in the list.
type Result struct {
	Path       string
	Status     Status
	Removed    int
	Suspicious int
	Err        error
}

// Run processes paths in order: stat, read, remove skip blocks, write
// back when anything changed. A missing file is reported and skipped; a
// read or write failure is reported and does not stop the remaining
// files. With dryRun set, nothing is written. Markdown files have only
// their fenced test snippets rewritten.
func Run(fsys FS, paths []string, dryRun bool, status StatusFunc) []Result {
	results := make([]Result, 0, len(paths))

	for _, p := range paths {
		res := processFile(fsys, p, dryRun)
		results = append(results, res)

		switch res.Status {
		case StatusNotFound:
			status("File not found: %s\n", p)
		case StatusFailed:
			status("Error: %s: %v\n", p, res.Err)
		case StatusProcessed:
			status("Processed: %s\n", p)

			if res.Suspicious > 0 {
				status("warning: %d suspicious removal(s) in %s\n", res.Suspicious, p)
			}
		}
	}

	status("Done!\n")

	return results
}

func processFile(fsys FS, name string, dryRun bool) Result {
	res := Result{Path: name}

	if _, err := fsys.Stat(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Status = StatusNotFound
		} else {
			res.Status = StatusFailed
			res.Err = err
		}

		return res
	}

	src, err := fsys.ReadFile(name)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err

		return res
	}

	out, removed, suspicious, err := rewrite(name, src)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err

		return res
	}

	res.Removed = removed
	res.Suspicious = suspicious

	if removed == 0 || dryRun {
		return res
	}

	if err := fsys.WriteFile(name, out, fileMode); err != nil {
		res.Status = StatusFailed
		res.Err = err
	}

	return res
}

func rewrite(name string, src []byte) ([]byte, int, int, error) {
	if !isMarkdown(name) {
		out, removed, suspicious := skip.Remove(src)

		return out, removed, suspicious, nil
	}

	var removed, suspicious int

	modified, out, err := markdown.Rewrite(src, nil, func(code []byte) []byte {
		clean, n, s := skip.Remove(code)
		removed += n
		suspicious += s

		return clean
	})
	if err != nil {
		return nil, 0, 0, err
	}

	if !modified {
		out = src
	}

	return out, removed, suspicious, nil
}

func isMarkdown(name string) bool {
	switch path.Ext(filepath.ToSlash(name)) {
	case ".md", ".markdown":
		return true
	}

	return false
}

// DefaultFiles is the historical target list the tool was written for.
func DefaultFiles() []string {
	names := []string{
		"tests/smart-suggestions.test.js",
		"tests/security/comprehensive-security.test.js",
		"tests/security/auth-penetration.test.js",
		"tests/privacy/privacy-validation-focused.test.js",
		"tests/privacy/account-deletion-privacy.test.js",
		"tests/data-loss-prevention.test.js",
		"tests/data-loss-prevention-simple.test.js",
	}

	files := make([]string, len(names))
	for i, name := range names {
		files[i] = filepath.FromSlash(name)
	}

	return files
}
