package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devflow/internal/config"
)

var sourceFiles = []string{
	"runtests.py",
	"setup.py",
	"asyncio/events.py",
	"asyncio/tasks.py",
	"tests/test_events.py",
}

var artifactFiles = []string{
	"__pycache__/runtests.cpython-312.pyc",
	"asyncio/__pycache__/events.cpython-312.pyc",
	"setup.pyc",
	"asyncio/events.pyo",
	"runtests.py~",
	"asyncio/tasks.py~",
	".hidden~",
	"tests/.test_events.py~",
	"@autosave",
	"tests/@autosave",
	"#events.py#",
	"asyncio/#tasks.py#",
	"setup.py.orig",
	"asyncio/events.py.orig",
	".coverage",
	"htmlcov/index.html",
	"htmlcov/asyncio_events_py.html",
}

func defaultTargets() []string {
	return config.DefaultConfig().CleanTargets()
}

func writeTree(t *testing.T, fsys afero.Fs, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, fsys.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, afero.WriteFile(fsys, p, []byte("x"), 0644))
	}
}

// snapshot lists every file and directory in fsys.
func snapshot(t *testing.T, fsys afero.Fs) []string {
	t.Helper()
	var paths []string
	err := afero.Walk(fsys, ".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(path))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(paths)
	return paths
}

func TestClean_RemovesArtifactSet(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, sourceFiles...)
	writeTree(t, fsys, artifactFiles...)

	result := Clean(fsys, defaultTargets())

	require.NoError(t, result.Err)
	for _, p := range sourceFiles {
		exists, err := afero.Exists(fsys, p)
		require.NoError(t, err)
		assert.True(t, exists, "source file %s must survive", p)
	}
	for _, p := range artifactFiles {
		exists, err := afero.Exists(fsys, p)
		require.NoError(t, err)
		assert.False(t, exists, "artifact %s must be removed", p)
	}

	assert.Contains(t, result.Removed, "__pycache__")
	assert.Contains(t, result.Removed, "asyncio/__pycache__")
	assert.Contains(t, result.Removed, "htmlcov")
	assert.NotContains(t, result.Removed, "htmlcov/index.html", "nested paths are covered by their directory")
}

func TestClean_OnlyOneLevelDeep(t *testing.T) {
	fsys := afero.NewMemMapFs()
	deep := []string{
		"asyncio/windows/__pycache__/x.pyc",
		"asyncio/windows/overlapped.py~",
		"asyncio/windows/#x#",
	}
	writeTree(t, fsys, deep...)

	result := Clean(fsys, defaultTargets())

	require.NoError(t, result.Err)
	assert.Empty(t, result.Removed)
	for _, p := range deep {
		exists, err := afero.Exists(fsys, p)
		require.NoError(t, err)
		assert.True(t, exists, "%s is deeper than the artifact set reaches", p)
	}
}

func TestClean_PristineTree(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, sourceFiles...)
	before := snapshot(t, fsys)

	result := Clean(fsys, defaultTargets())

	assert.NoError(t, result.Err)
	assert.Empty(t, result.Removed)
	assert.Equal(t, before, snapshot(t, fsys))
}

func TestClean_EmptyTree(t *testing.T) {
	result := Clean(afero.NewMemMapFs(), defaultTargets())

	assert.NoError(t, result.Err)
	assert.Empty(t, result.Removed)
}

func TestClean_Idempotent(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, sourceFiles...)
	writeTree(t, fsys, artifactFiles...)

	first := Clean(fsys, defaultTargets())
	require.NoError(t, first.Err)
	afterOnce := snapshot(t, fsys)

	second := Clean(fsys, defaultTargets())
	require.NoError(t, second.Err)

	assert.Empty(t, second.Removed)
	assert.Equal(t, afterOnce, snapshot(t, fsys))
}

func TestClean_ExtraPaths(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, "build/lib/asyncio/events.py", "dist/asyncio-3.4.3.tar.gz", "setup.py")

	result := Clean(fsys, []string{"build", "dist"})

	require.NoError(t, result.Err)
	assert.Equal(t, []string{"build", "dist"}, result.Removed)
	exists, _ := afero.Exists(fsys, "setup.py")
	assert.True(t, exists)
}

func TestClean_RealFilesystem(t *testing.T) {
	root := t.TempDir()
	fsys := afero.NewBasePathFs(afero.NewOsFs(), root)
	writeTree(t, fsys, sourceFiles...)
	writeTree(t, fsys, artifactFiles...)

	result := Clean(fsys, defaultTargets())
	require.NoError(t, result.Err)

	for _, p := range artifactFiles {
		_, err := os.Stat(filepath.Join(root, filepath.FromSlash(p)))
		assert.True(t, errors.Is(err, os.ErrNotExist), "%s should be gone", p)
	}
	for _, p := range sourceFiles {
		_, err := os.Stat(filepath.Join(root, filepath.FromSlash(p)))
		assert.NoError(t, err)
	}
}

func TestCollect_RejectsPatternsOutsideRoot(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, "setup.py")

	for _, pattern := range []string{".", "..", "../outside", "/etc/passwd"} {
		t.Run(pattern, func(t *testing.T) {
			paths, err := Collect(fsys, []string{pattern})

			require.Error(t, err)
			assert.Contains(t, err.Error(), "must stay inside the project root")
			assert.Empty(t, paths)
		})
	}
}

func TestCollect_SkipsBlankPatterns(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, "setup.py")

	paths, err := Collect(fsys, []string{"", "  "})

	assert.NoError(t, err)
	assert.Empty(t, paths)
}

func TestCollect_BadPatternDoesNotStopOthers(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, ".coverage")

	paths, err := Collect(fsys, []string{"[", ".coverage"})

	require.Error(t, err)
	assert.Len(t, Errors(err), 1)
	assert.Equal(t, []string{".coverage"}, paths)
}

func TestRemove_MissingPathsAreNotErrors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, ".coverage")

	removed, err := Remove(fsys, []string{"htmlcov", ".coverage", "__pycache__"})

	assert.NoError(t, err)
	assert.Equal(t, []string{".coverage"}, removed)
}

func TestRemove_ReportsFailures(t *testing.T) {
	base := afero.NewMemMapFs()
	writeTree(t, base, ".coverage", "htmlcov/index.html")
	fsys := afero.NewReadOnlyFs(base)

	removed, err := Remove(fsys, []string{".coverage", "htmlcov"})

	require.Error(t, err)
	assert.Len(t, Errors(err), 2)
	assert.Empty(t, removed)
}

func TestPruneNested(t *testing.T) {
	got := pruneNested([]string{
		"__pycache__",
		"__pycache__/a.pyc",
		"__pycache__x",
		"htmlcov",
		"htmlcov/index.html",
	})

	assert.Equal(t, []string{"__pycache__", "__pycache__x", "htmlcov"}, got)
}
