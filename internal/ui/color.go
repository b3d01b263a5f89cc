// Package ui holds the colours and tables shared by the focus commands.
package ui

import (
	"github.com/pterm/pterm"

	"github.com/andromeda/focus/internal/models"
)

// DarkTheme switches every colour to its light variant, which reads better
// on a dark terminal background.
var DarkTheme bool

func paint(light, dark pterm.Color, a any) string {
	if DarkTheme {
		return dark.Sprint(a)
	}

	return light.Sprint(a)
}

// Heading colours a section title.
func Heading(a any) string {
	return paint(pterm.FgBlue, pterm.FgLightBlue, a)
}

// Value colours a measured quantity such as minutes or a session count.
func Value(a any) string {
	return paint(pterm.FgGreen, pterm.FgLightGreen, a)
}

// Accent colours a name the reader should notice.
func Accent(a any) string {
	return paint(pterm.FgMagenta, pterm.FgLightMagenta, a)
}

// SessionStatus colours a session status.
func SessionStatus(s models.Status) string {
	switch s {
	case models.StatusCompleted:
		return Value(s)
	case models.StatusPaused:
		return Accent(s)
	default:
		return paint(pterm.FgCyan, pterm.FgLightCyan, s)
	}
}
