package cmd

import (
	"errors"
	"fmt"
)

// Exit codes of the grep command, as in GNU grep.
const (
	exitMatch   = 0
	exitNoMatch = 1
	exitTrouble = 2
)

// grepExit carries a grep exit code out of cobra. The error itself has
// already been reported on stderr when code is exitTrouble.
type grepExit struct {
	code  int
	query string
	cause error
}

func (e grepExit) Error() string {
	switch e.code {
	case exitMatch:
		return ""
	case exitNoMatch:
		if e.query != "" {
			return fmt.Sprintf("no match for %q", e.query)
		}
		return "no match"
	}
	if e.cause != nil {
		return "grep: " + e.cause.Error()
	}
	return fmt.Sprintf("grep failed (exit %d)", e.code)
}

func (e grepExit) Unwrap() error { return e.cause }

// GrepExitCode returns the exit code carried by err, or -1 when err did not
// come from grep.
func GrepExitCode(err error) int {
	var ge grepExit
	if errors.As(err, &ge) {
		return ge.code
	}
	return -1
}
