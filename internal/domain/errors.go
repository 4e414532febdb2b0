// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates the single-running-task slot is already taken.
var ErrConflict = errors.New("a task is already running")

// ErrValidation indicates malformed or out-of-range input.
var ErrValidation = errors.New("invalid input")

// ErrInvalidState indicates the operation is not valid for the task's current status.
var ErrInvalidState = errors.New("invalid state")
