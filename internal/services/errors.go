package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for the migration error taxonomy. A malformed bundle is
// fatal for that bundle; note and resource failures are recoverable and the
// pipeline continues past them.
var (
	ErrMalformedBundle = errors.New("malformed bundle")
	ErrNote            = errors.New("note failure")
	ErrResource        = errors.New("resource failure")
	ErrConfiguration   = errors.New("configuration error")
	ErrPersistence     = errors.New("persistence error")
	ErrTransient       = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Recoverable reports whether the pipeline may continue past the error.
// Bundle, configuration, and persistence failures abort their unit of work.
func Recoverable(err error) bool {
	switch {
	case errors.Is(err, ErrNote), errors.Is(err, ErrResource):
		return true
	default:
		return false
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
