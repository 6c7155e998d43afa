package config

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by ConfigNotFoundError via errors.Is.
var ErrNotFound = errors.New("config file not found")

// PermissionError is returned when the config file or its directory
// cannot be read or written.
type PermissionError struct {
	Path    string
	Op      string // "read" or "write"
	Fix     string // Suggested fix command
	Details string // Additional context
}

func (e *PermissionError) Error() string {
	msg := fmt.Sprintf("permission denied (cannot %s config): %s\n", e.Op, e.Path)
	if e.Details != "" {
		msg += e.Details + "\n"
	}
	msg += "💡 Fix: " + e.Fix
	return msg
}

// ConfigNotFoundError is returned when no config file exists at Path.
type ConfigNotFoundError struct {
	Path string
	Hint string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("%v: %s\n\n💡 %s", ErrNotFound, e.Path, e.Hint)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *ConfigNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidConfigError represents malformed or out-of-range config.
type InvalidConfigError struct {
	Path    string
	Message string
	Hint    string
}

func (e *InvalidConfigError) Error() string {
	msg := fmt.Sprintf("invalid config: %s\n", e.Path)
	if e.Message != "" {
		msg += e.Message + "\n"
	}
	if e.Hint != "" {
		msg += "💡 " + e.Hint
	}
	return msg
}
