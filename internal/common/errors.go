// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Caller input errors, rejected before any I/O.
	ErrInvalidSelection = errors.New("invalid category selection")
	ErrInvalidPeriod    = errors.New("invalid fiscal period")
	ErrInvalidSegment   = errors.New("invalid path segment")

	// Catalog consistency errors.
	ErrOrphanCatalogNode     = errors.New("catalog node has no parent")
	ErrDuplicateCatalogEntry = errors.New("duplicate catalog entry")
	ErrUnknownCategory       = errors.New("unknown category")
	ErrUnknownSubtype        = errors.New("unknown subtype")
	ErrUnknownAccount        = errors.New("unknown account")

	// Transient storage errors. The original file is always intact and the
	// operation is safe to retry.
	ErrDriveUnavailable = errors.New("destination drive unavailable")
	ErrPartialWriteIO   = errors.New("partial write to destination")

	// ErrIntegrityMismatch means the copy hashed differently than the source.
	// The original is intact; log it as a storage-reliability signal.
	ErrIntegrityMismatch = errors.New("copy integrity mismatch")

	// ErrSchemaMigration is fatal: the ledger cannot open.
	ErrSchemaMigration = errors.New("ledger schema migration failed")
)

// LedgerWarning wraps a ledger-write failure that happened after a successful
// move. The file is already correctly placed, so callers must treat it as a
// recoverable inconsistency rather than a move failure.
type LedgerWarning struct {
	Err error
}

func (e *LedgerWarning) Error() string {
	return fmt.Sprintf("file moved but ledger write failed: %v", e.Err)
}

func (e *LedgerWarning) Unwrap() error {
	return e.Err
}

// NewLedgerWarning tags a post-move ledger error as non-fatal.
func NewLedgerWarning(err error) error {
	return &LedgerWarning{Err: err}
}

// IsLedgerWarning reports whether err is a post-move ledger-write warning.
func IsLedgerWarning(err error) bool {
	var lw *LedgerWarning
	return errors.As(err, &lw)
}

// IsRetryable determines if an error should trigger a retry. Only transient
// storage failures and integrity mismatches qualify; everything else needs
// operator input or is fatal.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrDriveUnavailable) ||
		errors.Is(err, ErrPartialWriteIO) ||
		errors.Is(err, ErrIntegrityMismatch)
}
