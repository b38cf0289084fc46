package cli

import (
	"errors"

	"github.com/woolly-dev/woolly/internal/logging"
	"github.com/woolly-dev/woolly/internal/tui"
	"github.com/woolly-dev/woolly/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitErr carries the exit code a command failed with.
type exitErr struct {
	code int
	err  error
}

func (e *exitErr) Error() string { return e.err.Error() }
func (e *exitErr) Unwrap() error { return e.err }

func userError(err error) error { return &exitErr{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitErr{code: exitSysError, err: err} }

// userErrors are failures caused by what the user asked for.
var userErrors = []error{
	types.ErrNotFound,
	types.ErrConflict,
	types.ErrInvalidMode,
	types.ErrInvalidName,
	types.ErrInvalidPlan,
	types.ErrDuplicatePhase,
	types.ErrDuplicateTaskID,
	types.ErrInvalidTaskID,
	types.ErrInvalidColumn,
	types.ErrInvalidPriority,
	types.ErrCardNotFound,
	types.ErrNotEditable,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrRemoteEmpty,
	logging.ErrUnknownLevel,
	logging.ErrUnknownFormat,
	tui.ErrAborted,
}

// exitCode maps err to a process exit code. Untagged errors come from
// cobra's flag and argument checks and count as user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var e *exitErr
	if errors.As(err, &e) {
		return e.code
	}
	return exitUserError
}

// classify tags err with the exit code its sentinel implies; unknown
// errors are system errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var e *exitErr
	if errors.As(err, &e) {
		return err
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return userError(err)
		}
	}
	return sysError(err)
}
