package Models

import "errors"

// ErrNotFound covers both unknown ids and ids owned by another organization,
// so cross-tenant probes cannot distinguish the two.
var ErrNotFound = errors.New("record not found")

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }
