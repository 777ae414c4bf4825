package vcs

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by toolchain operations.
//
// These errors can be checked using errors.Is() for proper error handling:
//
//	if errors.Is(err, vcs.ErrToolchainNotFound) {
//	    // offer to download git
//	}
var (
	// ErrToolchainNotFound is returned when no candidate location holds
	// a working git binary.
	ErrToolchainNotFound = errors.New("git toolchain not found")

	// ErrConfigWriteFailed is returned when a global configuration write
	// exits non-zero or cannot be spawned.
	ErrConfigWriteFailed = errors.New("git config write failed")

	// ErrNoToolchain is returned when an operation needs a located
	// toolchain but none is available.
	ErrNoToolchain = errors.New("no git toolchain located")

	// ErrNotInRepo is returned when no working tree encloses a path.
	ErrNotInRepo = errors.New("not in a git working tree")

	// ErrTimeout is returned when a git invocation exceeds its timeout.
	ErrTimeout = errors.New("operation timed out")
)

// NotFoundError lists the locations probed before giving up.
type NotFoundError struct {
	Candidates []string
}

func (e *NotFoundError) Error() string {
	if len(e.Candidates) == 0 {
		return ErrToolchainNotFound.Error()
	}
	return fmt.Sprintf("%s (tried %s)", ErrToolchainNotFound, strings.Join(e.Candidates, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrToolchainNotFound
}

// ConfigWriteError carries the failing key and the process diagnostic.
type ConfigWriteError struct {
	Key      string
	ExitCode int
	Err      error
}

func (e *ConfigWriteError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s: %s (exit %d): %v", ErrConfigWriteFailed, e.Key, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrConfigWriteFailed, e.Key, e.Err)
}

func (e *ConfigWriteError) Unwrap() error {
	return e.Err
}

func (e *ConfigWriteError) Is(target error) bool {
	return target == ErrConfigWriteFailed
}

// IsNotFound returns true if the error reports a missing toolchain.
func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, ErrToolchainNotFound)
}

// IsFatal returns true if the error cannot be recovered from during
// activation. A missing toolchain is routed to recovery and is not fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	if IsNotFound(err) {
		return false
	}

	// Configuration writes are downgraded to a boolean by their callers
	if errors.Is(err, ErrConfigWriteFailed) {
		return false
	}

	return true
}
