// Package static embeds the files focus needs at runtime and copies them to
// the data directory on first use.
package static

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/andromeda/focus/internal/osutil"
)

const (
	filesDir = "files"
	iconName = "icon.png"
)

//go:embed files/*
var embeddedFiles embed.FS

// Install copies every embedded file into the focus data directory under
// dir. Files that already exist are left alone.
func Install(dir string) error {
	return fs.WalkDir(
		embeddedFiles,
		filesDir,
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				return nil
			}

			b, err := embeddedFiles.ReadFile(path)
			if err != nil {
				return err
			}

			// embed paths always use forward slashes
			stripped := strings.TrimPrefix(path, filesDir+"/")

			destPath, err := xdg.DataFile(filepath.Join(dir, stripped))
			if err != nil {
				return err
			}

			if _, err := os.Stat(destPath); os.IsNotExist(err) {
				if err := os.MkdirAll(filepath.Dir(destPath), osutil.DirPermission); err != nil {
					return err
				}

				if err := os.WriteFile(destPath, b, osutil.FilePermission); err != nil {
					return err
				}
			}

			return nil
		},
	)
}

// IconPath installs the embedded files if needed and returns the location of
// the notification icon. An empty string means no icon is available.
func IconPath(dir string) string {
	if err := Install(dir); err != nil {
		return ""
	}

	p, err := xdg.SearchDataFile(filepath.Join(dir, iconName))
	if err != nil {
		return ""
	}

	return p
}
