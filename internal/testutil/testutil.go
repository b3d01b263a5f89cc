// Package testutil holds helpers shared by the focus tests.
package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/andromeda/focus/internal/osutil"
)

// GoldenTest produces the output compared against testdata/<name>.golden.
// A nil output asserts that no golden file exists.
type GoldenTest interface {
	Output() ([]byte, string)
}

// CompareGoldenFile verifies that the output of an operation matches
// the expected output.
func CompareGoldenFile(t *testing.T, tc GoldenTest) {
	t.Helper()

	if runtime.GOOS == osutil.Windows {
		// golden files use LF line endings
		t.Skip("skipping golden file test in Windows")
	}

	output, name := tc.Output()

	if output == nil {
		f := filepath.Join("testdata", name+".golden")
		if _, err := os.Stat(f); err == nil || errors.Is(err, os.ErrExist) {
			t.Fatalf("expected no output, but golden file exists: %s", f)
		}

		return
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata"))
	g.Assert(t, name, output)
}

// TempFile writes content to name inside a fresh temporary directory and
// returns the full path.
func TempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)

	if err := os.WriteFile(path, []byte(content), osutil.FilePermission); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}

	return path
}
