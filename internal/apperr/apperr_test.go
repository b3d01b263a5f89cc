package apperr_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andromeda/focus/internal/apperr"
)

var errSample = &apperr.Error{
	Message: "%s duration must be between %v and %v",
}

func TestFmt(t *testing.T) {
	err := errSample.Fmt("work", 1, 720)

	assert.Equal(t, "work duration must be between 1 and 720", err.Error())
	assert.ErrorIs(t, err, errSample)
	assert.Empty(t, errSample.Context, "Fmt must not mutate the template")
}

func TestWrap(t *testing.T) {
	base := &apperr.Error{Message: "reading config file failed"}

	err := base.Wrap(io.ErrUnexpectedEOF)

	assert.Equal(t, "reading config file failed: unexpected EOF", err.Error())
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.True(t, errors.Is(err, base))
}
