// Package coverage selects the sources measured by the coverage command and
// builds the invocations of the coverage wrapper.
//
// The selection policy: every file below the package directory, recursively,
// whose name has the source extension, starts with a lowercase letter and whose
// stem does not end in "_test". Everything else (private modules, test modules,
// non-source files) is left out of the reports.
package coverage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// testSuffix marks test modules, which are excluded from the reports.
const testSuffix = "_test"

// ErrNoSources is returned when the package directory holds no selectable file.
var ErrNoSources = errors.New("no source files selected")

// Select walks pkgDir in fsys and returns the selected files, sorted, as paths
// joined onto pkgDir.
func Select(fsys afero.Fs, pkgDir, ext string) ([]string, error) {
	var files []string
	err := afero.Walk(fsys, pkgDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan package %s: %w", pkgDir, err)
	}

	selected := lo.Filter(files, func(path string, _ int) bool {
		return Selected(filepath.Base(path), ext)
	})
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSources, pkgDir)
	}

	sort.Strings(selected)
	return selected, nil
}

// Selected reports whether a file name passes the selection policy.
func Selected(name, ext string) bool {
	if ext == "" || filepath.Ext(name) != ext {
		return false
	}

	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		return false
	}

	first, _ := utf8.DecodeRuneInString(stem)
	if !unicode.IsLower(first) {
		return false
	}

	return !strings.HasSuffix(stem, testSuffix)
}
