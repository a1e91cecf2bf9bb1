package mapper

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrMappingNotRegistered is returned when no plan is stored for a type pair.
	ErrMappingNotRegistered = errors.New("type is not registered")

	// ErrTypeMismatch is returned when a mapper is registered under a type
	// pair it was not built for.
	ErrTypeMismatch = errors.New("mapper type mismatch")

	// ErrNotPointer is returned when an untyped destination cannot be
	// written through because it is not a pointer.
	ErrNotPointer = errors.New("destination must be a non-nil pointer to a struct")
)

// NotRegisteredError identifies the type pair that has no registered plan.
type NotRegisteredError struct {
	Source      reflect.Type
	Destination reflect.Type
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("mapping from %v to %v: %v", e.Source, e.Destination, ErrMappingNotRegistered)
}

func (e *NotRegisteredError) Is(target error) bool {
	return target == ErrMappingNotRegistered
}

// TypeMismatchError reports a mapper registered under the wrong type pair.
type TypeMismatchError struct {
	Key    TypePair
	Mapper TypePair
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("mapper for %s registered as %s", e.Mapper, e.Key)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
