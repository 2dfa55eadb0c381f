package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and storage backends
// return these (optionally wrapped) so services can translate them into
// domain errors with caller-facing messages.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: row or blob does not exist in the store
// - ErrConflict: uniqueness constraint would be violated
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: backend temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors
// directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
