package static

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	p := IconPath("focus-test")
	require.NotEmpty(t, p)

	b, err := os.ReadFile(p)
	require.NoError(t, err)

	want, err := embeddedFiles.ReadFile(filesDir + "/" + iconName)
	require.NoError(t, err)

	assert.Equal(t, want, b)
	assert.Equal(t, iconName, filepath.Base(p))
}

func TestInstallKeepsExistingFiles(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	dest, err := xdg.DataFile(filepath.Join("focus-test", iconName))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dest, []byte("custom"), 0o600))

	require.NoError(t, Install("focus-test"))

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "custom", string(b))
}
