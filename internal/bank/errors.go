package bank

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a topic or level does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmpty is returned when a level exists but has no questions yet.
	ErrEmpty = errors.New("level has no questions")

	// ErrInvalid is matched by every *InvalidError.
	ErrInvalid = errors.New("invalid question bank")

	// ErrDataUnavailable is returned when the data source can't be read.
	ErrDataUnavailable = errors.New("question data unavailable")
)

// InvalidError describes a malformed question or topic source.
type InvalidError struct {
	Source   string
	Problems []string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Source, strings.Join(e.Problems, "; "))
}

func (e *InvalidError) Is(target error) bool {
	return target == ErrInvalid
}

// unavailable wraps a read failure so it matches ErrDataUnavailable.
func unavailable(source string, err error) error {
	return fmt.Errorf("%w: read %s: %w", ErrDataUnavailable, source, err)
}
