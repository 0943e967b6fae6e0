package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmonterocr/archivador/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrInvalidRecord = errors.New("invalid classification record")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateRecord(rec *model.ClassificationRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if !model.IsValidClave(rec.Clave) {
		return fmt.Errorf("%w: clave must be 50 digits, got %q", ErrInvalidRecord, rec.Clave)
	}
	if rec.Estado == "" {
		return fmt.Errorf("%w: missing estado", ErrInvalidRecord)
	}
	if rec.Categoria == "" {
		return fmt.Errorf("%w: missing categoria", ErrInvalidRecord)
	}
	return nil
}
