// Package errors provides structured error handling for collapsible
// containers and the documents they live in.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConstruction indicates a controller could not be created.
	KindConstruction
	// KindMeasurement indicates the layout oracle reported an unusable height.
	KindMeasurement
	// KindConfig indicates an invalid scene or option set.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConstruction:
		return "construction"
	case KindMeasurement:
		return "measurement"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error is a structured error raised while operating on an element.
type Error struct {
	// Op is the operation that failed (e.g., "collapsible.Expand").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Element is the id of the element involved, if any.
	Element string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("%s [%s] element=%s: %v", e.Op, e.Kind, e.Element, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ConstructionError reports a target that cannot be turned into a controller.
type ConstructionError struct {
	// Target is the value that was passed in.
	Target any
	// Reason describes what was wrong with it.
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("cannot construct collapsible from %T: %s", e.Target, e.Reason)
}

// MeasurementError reports a computed value that is not a pixel length.
type MeasurementError struct {
	// Element is the id of the measured element.
	Element string
	// Property is the computed style property that was read.
	Property string
	// Value is the raw computed value.
	Value string
}

func (e *MeasurementError) Error() string {
	return fmt.Sprintf("cannot measure %s of %s: %q is not a pixel value", e.Property, e.Element, e.Value)
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked.
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// IsMeasurement reports whether err wraps a MeasurementError.
func IsMeasurement(err error) bool {
	var m *MeasurementError
	return stderrors.As(err, &m)
}

// IsConstruction reports whether err wraps a ConstructionError.
func IsConstruction(err error) bool {
	var c *ConstructionError
	return stderrors.As(err, &c)
}

// ErrorHandler receives errors reported outside a direct call path, such as
// toggles triggered by click events.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
