package mapper

import (
	"reflect"

	"instant-mapper/internal/plan"
)

// Plan is the compiled mapping from S to D. It implements both
// TypedMapper[S, D] and UntypedMapper, is never modified after Compile and
// is safe for concurrent use.
type Plan[S, D any] struct {
	compiled *plan.Plan
	pair     TypePair
}

var (
	_ TypedMapper[struct{}, struct{}] = (*Plan[struct{}, struct{}])(nil)
	_ UntypedMapper                   = (*Plan[struct{}, struct{}])(nil)
)

// Compile builds the plan mapping S onto D without registering it.
// S and D must be struct types.
func Compile[S, D any](opts ...Option) (*Plan[S, D], error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}

	return compile[S, D](s)
}

func compile[S, D any](s *settings) (*Plan[S, D], error) {
	pair := PairOf[S, D]()

	compiled, err := plan.Compile(pair.Source, pair.Destination, s.planConfig(pair))
	if err != nil {
		return nil, err
	}

	return &Plan[S, D]{compiled: compiled, pair: pair}, nil
}

// Types returns the pair the plan was compiled for.
func (p *Plan[S, D]) Types() TypePair {
	return p.pair
}

// Fields returns the compiled field operations in execution order.
func (p *Plan[S, D]) Fields() []FieldOp {
	return p.compiled.Fields()
}

// Diagnostics explains which fields were mapped, converted or dropped.
func (p *Plan[S, D]) Diagnostics() Diagnostics {
	return p.compiled.Diagnostics()
}

// Map returns a new D populated from src, or nil when src is nil.
func (p *Plan[S, D]) Map(src *S) *D {
	if src == nil {
		return nil
	}

	dst, _ := p.compiled.CreateAndMap(reflect.ValueOf(src)).Interface().(*D)

	return dst
}

// MapInto copies src into dst. Either being nil is a no-op.
func (p *Plan[S, D]) MapInto(src *S, dst *D) {
	if src == nil || dst == nil {
		return
	}

	p.compiled.MapInto(reflect.ValueOf(src), reflect.ValueOf(dst))
}

// MapValue maps src, given as S or *S, and returns a *D.
// A nil src returns nil.
func (p *Plan[S, D]) MapValue(src any) (any, error) {
	if isAbsent(src) {
		return nil, nil
	}

	s, err := p.source(src)
	if err != nil {
		return nil, err
	}

	return p.Map(s), nil
}

// MapValueInto copies src, given as S or *S, into dst, which must be a *D.
// A nil src or dst is a no-op.
func (p *Plan[S, D]) MapValueInto(src, dst any) error {
	if isAbsent(src) || isAbsent(dst) {
		return nil
	}

	s, err := p.source(src)
	if err != nil {
		return err
	}

	d, ok := dst.(*D)
	if !ok {
		if reflect.TypeOf(dst).Kind() != reflect.Pointer {
			return ErrNotPointer
		}

		return &TypeMismatchError{Key: TypePair{Source: valueType(src), Destination: valueType(dst)}, Mapper: p.pair}
	}

	p.MapInto(s, d)

	return nil
}

func (p *Plan[S, D]) source(src any) (*S, error) {
	switch v := src.(type) {
	case *S:
		return v, nil
	case S:
		return &v, nil
	default:
		return nil, &TypeMismatchError{
			Key:    TypePair{Source: valueType(src), Destination: p.pair.Destination},
			Mapper: p.pair,
		}
	}
}
