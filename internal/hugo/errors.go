package hugo

import "errors"

var (
	// ErrBinaryNotFound indicates the hugo executable was not detected on PATH.
	ErrBinaryNotFound = errors.New("hugo binary not found")
	// ErrExecutionFailed indicates the hugo command returned a non-zero exit
	// status. The *exec.ExitError stays in the wrap chain so callers can
	// propagate the child's exit code.
	ErrExecutionFailed = errors.New("hugo execution failed")
)
