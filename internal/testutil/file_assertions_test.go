package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileAssertions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "a.txt"), []byte("first second third"), 0o600))

	NewFileAssertions(t, dir).
		AssertDirExists("sub").
		AssertFileExists("sub/a.txt").
		AssertNotExists("sub/b.txt").
		AssertFileContains("sub/a.txt", "second").
		AssertFileNotContains("sub/a.txt", "fourth").
		AssertFileEquals("sub/a.txt", "first second third").
		AssertOrder("sub/a.txt", "first", "second", "third").
		AssertMinFileCount("sub", 1)
}
