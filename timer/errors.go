package timer

import "github.com/andromeda/focus/internal/apperr"

var (
	ErrNoCategory = &apperr.Error{
		Message: "please select a category first",
	}

	ErrStartSession = &apperr.Error{
		Message: "pomodoro error: cannot start session",
	}

	ErrBreakNotPausable = &apperr.Error{
		Message: "breaks cannot be paused",
	}

	ErrNotRunning = &apperr.Error{
		Message: "no pomodoro is running",
	}

	errUnknownAction = &apperr.Error{
		Message: "unknown pomodoro action: %q",
	}
)
