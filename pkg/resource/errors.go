package resource

import (
	"errors"
	"fmt"
)

var (
	ErrDataUnavailable = errors.New("resource data unavailable")
	ErrInvalidFilter   = errors.New("invalid filter")
	ErrUnknownCategory = errors.New("unknown category")
	ErrRecordNotFound  = errors.New("record not found")
)

// DataUnavailableError is returned when a category has no remote, cached or
// local copy at all.
type DataUnavailableError struct {
	Category Category
	Cause    error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("no data available for category %s: %v", e.Category, e.Cause)
}

func (e *DataUnavailableError) Unwrap() []error {
	return []error{ErrDataUnavailable, e.Cause}
}

// InvalidFilterError rejects a malformed explicit filter value. The session
// keeps its previous filters when this is returned.
type InvalidFilterError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid %s filter %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidFilterError) Unwrap() error {
	return ErrInvalidFilter
}
