// Package osutil holds operating system constants shared by focus packages.
package osutil

import "io/fs"

// Windows is the runtime.GOOS value on Windows.
const Windows = "windows"

type exitCode int

// ExitError is the process status after a failed command.
const ExitError exitCode = 1

const (
	// DirPermission is used for the data and state directories.
	DirPermission fs.FileMode = 0o755
	// FilePermission keeps the database and state files private to the user.
	FilePermission fs.FileMode = 0o600
)
