package ui

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andromeda/focus/internal/models"
)

func TestSessionStatusWithoutColor(t *testing.T) {
	pterm.DisableColor()
	t.Cleanup(pterm.EnableColor)

	for _, s := range []models.Status{
		models.StatusCompleted,
		models.StatusPaused,
		models.StatusOngoing,
	} {
		assert.Equal(t, string(s), SessionStatus(s))
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer

	err := PrintTable(&buf, []string{"ID", "NAME"}, [][]string{
		{"1", "Deep Work"},
		{"2", "Reading"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Deep Work")
	assert.Contains(t, out, "Reading")
}
