// Package artifact removes the transient output a development tree accumulates:
// bytecode caches, editor backup and autosave files, the coverage database and
// the HTML coverage report.
//
// Artifacts are described by glob patterns relative to the project root and
// matched with doublestar over an [afero.Fs], so the same code runs against the
// real tree and an in-memory one in tests. Removal is best-effort: a path that
// is already gone is not an error, and a failure on one path does not stop the
// others.
package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// Result describes one clean pass.
type Result struct {
	// Removed lists the paths deleted, relative to the root, in removal order.
	Removed []string

	// Err combines every pattern or removal failure. Missing paths never appear here.
	Err error
}

// Collect returns the paths in fsys matching any of patterns, sorted and
// de-duplicated. A path below another matched directory is dropped, since
// removing the directory removes it too.
func Collect(fsys afero.Fs, patterns []string) ([]string, error) {
	iofs := afero.NewIOFS(fsys)

	var (
		matches []string
		errs    error
	)
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		pattern = path.Clean(pattern)
		if pattern == "." || pattern == ".." || strings.HasPrefix(pattern, "../") || path.IsAbs(pattern) {
			errs = multierr.Append(errs, fmt.Errorf("artifact pattern %q must stay inside the project root", pattern))
			continue
		}
		found, err := doublestar.Glob(iofs, pattern)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("bad artifact pattern %q: %w", pattern, err))
			continue
		}
		matches = append(matches, found...)
	}

	matches = lo.Uniq(matches)
	sort.Strings(matches)

	return pruneNested(matches), errs
}

// pruneNested drops paths that live inside another path of the sorted list.
func pruneNested(sorted []string) []string {
	var out []string
	for _, p := range sorted {
		if len(out) > 0 && strings.HasPrefix(p, out[len(out)-1]+"/") {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Remove deletes every path, recursively. Paths that no longer exist are skipped
// silently.
func Remove(fsys afero.Fs, paths []string) ([]string, error) {
	var (
		removed []string
		errs    error
	)
	for _, p := range paths {
		if _, err := fsys.Stat(p); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = multierr.Append(errs, fmt.Errorf("failed to stat %s: %w", p, err))
			}
			continue
		}
		if err := fsys.RemoveAll(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = multierr.Append(errs, fmt.Errorf("failed to remove %s: %w", p, err))
			continue
		}
		removed = append(removed, p)
	}
	return removed, errs
}

// Clean collects and removes every artifact matching patterns.
func Clean(fsys afero.Fs, patterns []string) Result {
	paths, collectErr := Collect(fsys, patterns)
	removed, removeErr := Remove(fsys, paths)
	return Result{
		Removed: removed,
		Err:     multierr.Combine(collectErr, removeErr),
	}
}

// Errors splits a combined error into its individual failures.
func Errors(err error) []error {
	return multierr.Errors(err)
}
