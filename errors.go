package didi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// Typed errors below wrap these so callers can match with errors.Is.

var (
	// Configuration errors.
	ErrConfigUnset       = errors.New("config has not been set")
	ErrAttributeNotFound = errors.New("attribute not found")

	// Maker errors.
	ErrNilMaker         = errors.New("maker cannot be nil")
	ErrArgumentNotFound = errors.New("argument not found")
	ErrNilProvider      = errors.New("argument is a nil provider")

	// Lifecycle errors.
	ErrNilComposer    = errors.New("composer cannot be nil")
	ErrComposerClosed = errors.New("composer has been closed")
)

var (
	_ error = (*AttributeError)(nil)
	_ error = (*ArgumentError)(nil)
	_ error = (*ConstructorError)(nil)
	_ error = (*DisposalError)(nil)
	_ error = (*KindError)(nil)
)

// AttributeError reports a failed attribute lookup on a config slot, either
// through an AttrRef or through Config.Attr on a set slot.
type AttributeError struct {
	Slot  string
	Name  string
	Cause error
}

func (e *AttributeError) Error() string {
	if errors.Is(e.Cause, ErrConfigUnset) {
		return fmt.Sprintf("config %q: cannot read %q before the config is set", e.Slot, e.Name)
	}
	return fmt.Sprintf("config %q has no attribute %q", e.Slot, e.Name)
}

func (e *AttributeError) Unwrap() error {
	return e.Cause
}

// ArgumentError reports a keyword argument that a maker asked for but could
// not be read, either because it was never declared or because its resolved
// value has the wrong type.
type ArgumentError struct {
	Provider string
	Name     string
	Expected reflect.Type
	Actual   reflect.Type
	Cause    error
}

func (e *ArgumentError) Error() string {
	var b strings.Builder
	b.WriteString("argument ")
	b.WriteString(fmt.Sprintf("%q", e.Name))
	if e.Provider != "" {
		b.WriteString(fmt.Sprintf(" of %s", e.Provider))
	}

	switch {
	case e.Cause != nil && e.Expected == nil:
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	case e.Expected != nil:
		b.WriteString(fmt.Sprintf(": expected %s, got %s", formatType(e.Expected), formatType(e.Actual)))
	}

	return b.String()
}

func (e *ArgumentError) Unwrap() error {
	return e.Cause
}

// ConstructorError reports a constructor that Construct cannot adapt.
type ConstructorError struct {
	Constructor reflect.Type
	Reason      string
}

func (e *ConstructorError) Error() string {
	return fmt.Sprintf("invalid constructor %s: %s", formatType(e.Constructor), e.Reason)
}

// DisposalError aggregates teardown failures from Composer.Close.
type DisposalError struct {
	Composer string
	Errors   []error
}

func (e *DisposalError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("composer %s teardown failed: %v", e.Composer, e.Errors[0])
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("composer %s teardown failed with %d errors:", e.Composer, len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
	}
	return sb.String()
}

func (e *DisposalError) Unwrap() []error {
	return e.Errors
}

// KindError indicates an invalid provider kind value.
type KindError struct {
	Value any
}

func (e *KindError) Error() string {
	return fmt.Sprintf("invalid provider kind: %v", e.Value)
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Slice:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "[]" + elem.Name()
		}
		return t.String()
	case reflect.Func:
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
