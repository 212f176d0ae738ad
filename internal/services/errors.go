package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/diewo77/hotel-backoffice/validation"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrCheckoutBlocked   = errors.New("checkout blocked by outstanding balance")
	ErrConflict          = errors.New("conflict")
	ErrEmptyCart         = errors.New("empty cart")
)

// ValidationError reports field-level failures. Codes are translated by the
// HTTP layer; Args carries format arguments for codes that need them.
type ValidationError struct {
	Violations validation.Violations
	Args       map[string][]any
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f, code := range e.Violations {
		fields = append(fields, f+"="+code)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

func newValidationError(v validation.Violations) *ValidationError {
	return &ValidationError{Violations: v}
}

func fieldError(field, code string, args ...any) *ValidationError {
	e := &ValidationError{Violations: validation.Violations{field: code}}
	if len(args) > 0 {
		e.Args = map[string][]any{field: args}
	}
	return e
}

// IsValidation unwraps err into a *ValidationError.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// notFound maps gorm's missing-record error to ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("load %s: %w", what, err)
}

// paginate applies limit and offset when they are set.
func paginate(q *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	return q
}
