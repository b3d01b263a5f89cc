package ui

import "github.com/andromeda/focus/internal/apperr"

var errRenderTable = &apperr.Error{
	Message: "failed to render table",
}
