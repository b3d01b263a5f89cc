package config

import "github.com/andromeda/focus/internal/apperr"

var (
	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errPrompt = &apperr.Error{
		Message: "first run prompt failed",
	}

	errUnknownPreset = &apperr.Error{
		Message: "unknown preset %q (expected classic, short, long or custom)",
	}

	errInvalidDuration = &apperr.Error{
		Message: "%s duration must be between %d and %d minutes",
	}

	errInvalidCycles = &apperr.Error{
		Message: "cycles before a long break must be between %d and %d",
	}

	errInvalidBaseURL = &apperr.Error{
		Message: "api base url %q must be an http or https url",
	}

	errInvalidPort = &apperr.Error{
		Message: "server port must be between 1 and 65535, got %d",
	}

	errInvalidLogLevel = &apperr.Error{
		Message: "unknown log level %q (expected debug, info, warn or error)",
	}

	errInvalidSince = &apperr.Error{
		Message: "unable to parse --since value %q",
	}
)
