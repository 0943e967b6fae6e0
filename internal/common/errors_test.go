package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrDriveUnavailable))
	assert.True(t, IsRetryable(ErrPartialWriteIO))
	assert.True(t, IsRetryable(ErrIntegrityMismatch))
	assert.True(t, IsRetryable(fmt.Errorf("%w: network share gone", ErrDriveUnavailable)))

	assert.False(t, IsRetryable(ErrInvalidSelection))
	assert.False(t, IsRetryable(ErrUnknownCategory))
	assert.False(t, IsRetryable(ErrSchemaMigration))
	assert.False(t, IsRetryable(errors.New("something else")))
	assert.False(t, IsRetryable(nil))
}

func TestLedgerWarning(t *testing.T) {
	cause := errors.New("database is locked")
	err := NewLedgerWarning(cause)

	assert.True(t, IsLedgerWarning(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "file moved but ledger write failed")

	// A wrapped warning is still recognizable.
	wrapped := fmt.Errorf("classify: %w", err)
	assert.True(t, IsLedgerWarning(wrapped))

	assert.False(t, IsLedgerWarning(cause))
	assert.False(t, IsLedgerWarning(nil))
}
