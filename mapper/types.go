package mapper

import (
	"reflect"

	"instant-mapper/internal/analyze"
	"instant-mapper/internal/diagnostic"
	"instant-mapper/internal/match"
	"instant-mapper/internal/plan"
	"instant-mapper/primitive"
)

// Collaborators and compiled plan details, re-exported for callers.
type (
	AccessorFactory   = plan.AccessorFactory
	ConverterProvider = plan.ConverterProvider
	Converter         = primitive.Converter
	FieldInfo         = analyze.FieldInfo
	FieldOp           = plan.FieldOp
	Diagnostics       = diagnostic.Diagnostics
	MatchMode         = match.Mode
)

const (
	MatchCaseInsensitive = match.ModeCaseInsensitive
	MatchNormalized      = match.ModeNormalized
)

// TypePair is the registry key: an ordered (source, destination) pair.
// A->B and B->A are different pairs.
type TypePair struct {
	Source      reflect.Type
	Destination reflect.Type
}

// PairOf returns the TypePair of S and D.
func PairOf[S, D any]() TypePair {
	return TypePair{Source: reflect.TypeFor[S](), Destination: reflect.TypeFor[D]()}
}

func (p TypePair) String() string {
	return analyze.IDOf(p.Source).Short() + "->" + analyze.IDOf(p.Destination).Short()
}

// TypedMapper maps between statically known types.
type TypedMapper[S, D any] interface {
	Map(src *S) *D
	MapInto(src *S, dst *D)
	Types() TypePair
}

// UntypedMapper maps values whose types are only known at run time.
type UntypedMapper interface {
	MapValue(src any) (any, error)
	MapValueInto(src, dst any) error
	Types() TypePair
}

// isAbsent reports whether v is nil or a nil pointer.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// valueType returns the type of v, looking through one pointer.
func valueType(v any) reflect.Type {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}

	return t
}
