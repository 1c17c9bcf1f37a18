package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyAttempts is returned when a submission is still rejected after
	// the configured number of attempts.
	ErrTooManyAttempts = errors.New("tui: too many rejected submissions")
)
