// Package report prints user facing messages on the command-line.
package report

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/andromeda/focus/internal/osutil"
)

// Status prints a flow status line.
func Status(msg string) {
	if msg == "" {
		return
	}

	pterm.Info.Println(msg)
}

// Error prints err without exiting.
func Error(err error) {
	pterm.Error.Println(err)
}

// Quit prints err and exits with a non-zero status.
func Quit(err error) {
	Error(err)
	os.Exit(int(osutil.ExitError))
}
