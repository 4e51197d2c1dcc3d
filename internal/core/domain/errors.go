package domain

import (
	"errors"
	"fmt"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrInvalidInput   = errors.New("invalid input")
	// ErrNoTextLayer marks a PDF without an extractable text layer
	// (scanned/image-only or corrupt). Distinct from a report in which
	// no test entries were recognized, which is a normal zero-count outcome.
	ErrNoTextLayer = errors.New("no extractable text layer")
	ErrTemporary   = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
