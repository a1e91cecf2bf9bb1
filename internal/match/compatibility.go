package match

import (
	"encoding"
	"reflect"
)

// TypeCompatibility represents the level of compatibility between two types.
type TypeCompatibility int

const (
	// TypeIncompatible means the types cannot be converted.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means conversion requires a converter function.
	TypeNeedsTransform
	// TypeConvertible means types are convertible using Go's type conversion.
	TypeConvertible
	// TypeAssignable means the source type can be directly assigned to the target.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

const (
	VerdictIdentical      = "identical"
	VerdictAssignable     = "assignable"
	VerdictConvertible    = "convertible"
	VerdictNeedsTransform = "needs_transform"
	VerdictIncompatible   = "incompatible"
)

var (
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeConvertible:
		return VerdictConvertible
	case TypeNeedsTransform:
		return VerdictNeedsTransform
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return "unknown"
	}
}

// Score returns a numeric score for sorting (higher is better).
func (c TypeCompatibility) Score() int {
	return int(c)
}

// IsDirect reports whether a source value can be stored into the target as is.
func (c TypeCompatibility) IsDirect() bool {
	return c >= TypeAssignable
}

// TypeCompatibilityResult contains detailed information about type compatibility.
type TypeCompatibilityResult struct {
	Compatibility TypeCompatibility
	Reason        string // Human-readable explanation
	SourceType    string // String representation of source type
	TargetType    string // String representation of target type
}

// ScoreTypeCompatibility determines the compatibility between a source and target type.
func ScoreTypeCompatibility(source, target reflect.Type) TypeCompatibilityResult {
	result := TypeCompatibilityResult{
		SourceType: source.String(),
		TargetType: target.String(),
	}

	switch {
	case source == target:
		result.Compatibility = TypeIdentical
		result.Reason = "types are identical"
	case source.AssignableTo(target):
		// includes interface satisfaction and unnamed/named pairs
		result.Compatibility = TypeAssignable
		result.Reason = "source is assignable to target"
	case source.ConvertibleTo(target):
		// numeric conversions, string/[]byte, named types sharing an underlying type
		result.Compatibility = TypeConvertible
		result.Reason = "source is convertible to target"
	case needsTransform(source, target):
		result.Compatibility = TypeNeedsTransform
		result.Reason = "types require a converter"
	default:
		result.Compatibility = TypeIncompatible
		result.Reason = "types are not compatible"
	}

	return result
}

// needsTransform checks for cases where types might be convertible via a converter.
func needsTransform(source, target reflect.Type) bool {
	sourceIsPtr := source.Kind() == reflect.Pointer
	targetIsPtr := target.Kind() == reflect.Pointer

	// *T -> T (dereference possible if not nil)
	if sourceIsPtr && !targetIsPtr && reachable(source.Elem(), target) {
		return true
	}

	// T -> *T (take address)
	if !sourceIsPtr && targetIsPtr && reachable(source, target.Elem()) {
		return true
	}

	// Textual encodings
	if source.Implements(textMarshalerType) || reflect.PointerTo(source).Implements(textMarshalerType) {
		if target.Kind() == reflect.String {
			return true
		}
	}

	if source.Kind() == reflect.String && reflect.PointerTo(target).Implements(textUnmarshalerType) {
		return true
	}

	// Slice to slice with different element types
	if source.Kind() == reflect.Slice && target.Kind() == reflect.Slice {
		elemCompat := ScoreTypeCompatibility(source.Elem(), target.Elem())
		if elemCompat.Compatibility >= TypeNeedsTransform {
			return true
		}
	}

	// Struct to struct (might have compatible fields)
	return source.Kind() == reflect.Struct && target.Kind() == reflect.Struct
}

func reachable(source, target reflect.Type) bool {
	return source == target || source.AssignableTo(target) || source.ConvertibleTo(target)
}
