package main

import (
	"errors"

	apperrors "github.com/odvcencio/podium/pkg/errors"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
	exitConfig = 3
)

type exitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e exitError) Unwrap() error {
	return e.err
}

func (e exitError) ExitCode() int {
	if e.code == 0 {
		return exitFailed
	}
	return e.code
}

func withExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return exitError{code: code, err: err}
}

// exitCodeForError maps an error to the process exit status: usage
// problems exit 2, unreadable or invalid decks and style sheets exit 3,
// and render failures exit 1.
func exitCodeForError(err error) int {
	if err == nil {
		return exitOK
	}
	var coded exitCoder
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	switch {
	case apperrors.IsCode(err, apperrors.ErrCodeInvalidInput):
		return exitUsage
	case apperrors.IsCode(err, apperrors.ErrCodeConfigLoad),
		apperrors.IsCode(err, apperrors.ErrCodeConfigParse),
		apperrors.IsCode(err, apperrors.ErrCodeConfigInvalid):
		return exitConfig
	default:
		return exitFailed
	}
}
