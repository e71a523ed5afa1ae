// Package main provides mermaid-store, a command-line host for the diagram
// store. Each store operation is exposed as a subcommand.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mesh-intelligence/mermaid-ui/internal/archive"
	"github.com/mesh-intelligence/mermaid-ui/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	var se systemError
	if !a.started && !errors.As(err, &se) {
		err = userError{err}
	}
	fmt.Fprintln(stderr, "mermaid-store:", err)
	return exitCode(err)
}

// userError marks errors caused by bad input rather than a storage failure.
type userError struct{ err error }

func (e userError) Error() string { return e.err.Error() }
func (e userError) Unwrap() error { return e.err }

// systemError marks failures that are never the user's fault, even when
// they happen before a command runs.
type systemError struct{ err error }

func (e systemError) Error() string { return e.err.Error() }
func (e systemError) Unwrap() error { return e.err }

// exitCode maps an error returned by a command to a process exit code.
func exitCode(err error) int {
	var ue userError
	var se systemError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &se):
		return exitSysError
	case errors.As(err, &ue),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrConstraint),
		errors.Is(err, archive.ErrInvalidArchive):
		return exitUserError
	default:
		return exitSysError
	}
}
