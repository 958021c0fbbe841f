// Package errors provides enhanced error handling for audioio with
// component and category metadata for diagnostics. It wraps the standard
// errors package, so callers can use it as a drop-in replacement.
package errors

import (
	"errors"
	"fmt"
	"maps"
	"time"
)

// ErrorCategory represents a class of failure for grouping and reporting.
type ErrorCategory string

// Error categories used across the audioio packages.
const (
	CategoryValidation  ErrorCategory = "validation"
	CategoryDeviceQuery ErrorCategory = "device-query"
	CategoryNegotiation ErrorCategory = "format-negotiation"
	CategoryResource    ErrorCategory = "resource"
	CategoryState       ErrorCategory = "state"
	CategoryTiming      ErrorCategory = "timing"
	CategoryFileIO      ErrorCategory = "file-io"
	CategoryGeneric     ErrorCategory = "generic"
)

// ComponentUnknown is used when no component was set on the builder.
const ComponentUnknown = "unknown"

// EnhancedError carries an underlying error plus component, category and
// free-form context. It is immutable after Build.
type EnhancedError struct {
	Err       error
	Component string
	Category  ErrorCategory
	Context   map[string]any
	Timestamp time.Time
}

// Error implements the error interface.
func (ee *EnhancedError) Error() string {
	return ee.Err.Error()
}

// Unwrap implements the error unwrapping interface.
func (ee *EnhancedError) Unwrap() error {
	return ee.Err
}

// Is reports category equality against another EnhancedError, falling back
// to standard unwrapping for any other target.
func (ee *EnhancedError) Is(target error) bool {
	if other, ok := target.(*EnhancedError); ok {
		return ee.Category == other.Category
	}
	return errors.Is(ee.Err, target)
}

// GetContext returns a copy of the context map.
func (ee *EnhancedError) GetContext() map[string]any {
	if ee.Context == nil {
		return nil
	}
	cp := make(map[string]any, len(ee.Context))
	maps.Copy(cp, ee.Context)
	return cp
}

// ErrorBuilder provides a fluent interface for creating enhanced errors.
type ErrorBuilder struct {
	err       error
	component string
	category  ErrorCategory
	context   map[string]any
}

// New starts building an enhanced error around err. A nil err yields a
// generic error derived from the category at Build time.
func New(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// Newf starts building an enhanced error from a formatted message.
func Newf(format string, args ...any) *ErrorBuilder {
	return &ErrorBuilder{err: fmt.Errorf(format, args...)}
}

// Component records the component where the error occurred.
func (eb *ErrorBuilder) Component(component string) *ErrorBuilder {
	eb.component = component
	return eb
}

// Category records the error category.
func (eb *ErrorBuilder) Category(category ErrorCategory) *ErrorBuilder {
	eb.category = category
	return eb
}

// Context adds a key/value pair of diagnostic context.
func (eb *ErrorBuilder) Context(key string, value any) *ErrorBuilder {
	if eb.context == nil {
		eb.context = make(map[string]any)
	}
	eb.context[key] = value
	return eb
}

// Build finalizes the enhanced error.
func (eb *ErrorBuilder) Build() *EnhancedError {
	err := eb.err
	if err == nil {
		err = fmt.Errorf("%s error", categoryOrGeneric(eb.category))
	}
	component := eb.component
	if component == "" {
		component = ComponentUnknown
	}
	category := eb.category
	if category == "" {
		category = CategoryGeneric
	}
	return &EnhancedError{
		Err:       err,
		Component: component,
		Category:  category,
		Context:   eb.context,
		Timestamp: time.Now(),
	}
}

func categoryOrGeneric(c ErrorCategory) ErrorCategory {
	if c == "" {
		return CategoryGeneric
	}
	return c
}

// Standard library pass-throughs so callers need only one errors import.

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling Unwrap on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join wraps a sequence of errors into one.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
