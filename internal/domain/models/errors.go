package models

import "errors"

// Sentinel errors shared by all services. Handlers translate these into HTTP
// statuses with errors.Is; services wrap them with context via fmt.Errorf.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrStorageFailure    = errors.New("storage failure")
)
