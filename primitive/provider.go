package primitive

import (
	"encoding"
	"reflect"
)

var (
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Provider hands out converters between field types, restricted to a set of
// conversion categories.
//
// Lookup order for a (src, dst) pair:
//  1. the exact kind pair (int64 -> string, string -> time.Time, ...);
//  2. the underlying kind pair for named types (type Cents int64);
//  3. encoding.TextMarshaler / TextUnmarshaler (CategoryText);
//  4. pointer dereference or address-of around any of the above (CategoryPointer).
type Provider struct {
	allowed CategoryEnum
	pairs   map[ConversionPair]struct{}
}

// NewProvider creates a provider limited to the allowed categories.
func NewProvider(allowed CategoryEnum) *Provider {
	return &Provider{
		allowed: allowed,
		pairs:   allowedSet(allowed),
	}
}

// Allowed returns the categories the provider was created with.
func (p *Provider) Allowed() CategoryEnum {
	return p.allowed
}

// Converter returns a converter from src to dst, or false when no enabled
// category covers the pair.
func (p *Provider) Converter(src, dst reflect.Type) (Converter, bool) {
	if src == nil || dst == nil {
		return nil, false
	}

	from, to := FromReflectType(src), FromReflectType(dst)
	if c := p.kindConverter(from, to, src, dst); c != nil {
		return c, true
	}

	if !isTimeKind(from) && !isTimeKind(to) {
		baseFrom, baseTo := BaseKind(src), BaseKind(dst)
		if baseFrom != from || baseTo != to {
			if c := p.kindConverter(baseFrom, baseTo, src, dst); c != nil {
				return c, true
			}
		}
	}

	if p.allowed.Has(CategoryText) {
		if c := textConverter(src, dst); c != nil {
			return c, true
		}
	}

	if p.allowed.Has(CategoryPointer) {
		if c := p.pointerConverter(src, dst); c != nil {
			return c, true
		}
	}

	return nil, false
}

func isTimeKind(k KindEnum) bool {
	return k == KindTime || k == KindDuration
}

func (p *Provider) kindConverter(from, to KindEnum, src, dst reflect.Type) Converter {
	if from == 0 || to == 0 {
		return nil
	}

	pair := ConversionPair{from, to}
	if _, ok := p.pairs[pair]; !ok {
		return nil
	}

	build, ok := builders[pair]
	if !ok {
		return nil
	}

	return build(src, dst)
}

func textConverter(src, dst reflect.Type) Converter {
	if src.Kind() == reflect.Pointer || src.Kind() == reflect.Interface {
		return nil
	}

	if dst.Kind() == reflect.String {
		switch {
		case src.Implements(textMarshalerType):
			return func(v reflect.Value) reflect.Value {
				return marshalText(v, dst)
			}
		case reflect.PointerTo(src).Implements(textMarshalerType):
			return func(v reflect.Value) reflect.Value {
				ptr := reflect.New(src)
				ptr.Elem().Set(v)

				return marshalText(ptr, dst)
			}
		}
	}

	if src.Kind() == reflect.String && dst.Kind() != reflect.Pointer &&
		reflect.PointerTo(dst).Implements(textUnmarshalerType) {
		return func(v reflect.Value) reflect.Value {
			ptr := reflect.New(dst)
			if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(v.String())); err != nil {
				return reflect.Zero(dst)
			}

			return ptr.Elem()
		}
	}

	return nil
}

func marshalText(v reflect.Value, dst reflect.Type) reflect.Value {
	text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return reflect.Zero(dst)
	}

	return stringValue(string(text), dst)
}

func (p *Provider) pointerConverter(src, dst reflect.Type) Converter {
	srcPtr, dstPtr := src.Kind() == reflect.Pointer, dst.Kind() == reflect.Pointer

	switch {
	case srcPtr && !dstPtr:
		inner := p.step(src.Elem(), dst)
		if inner == nil {
			return nil
		}

		return func(v reflect.Value) reflect.Value {
			if v.IsNil() {
				return reflect.Zero(dst)
			}

			return inner(v.Elem())
		}
	case !srcPtr && dstPtr:
		inner := p.step(src, dst.Elem())
		if inner == nil {
			return nil
		}

		return func(v reflect.Value) reflect.Value {
			ptr := reflect.New(dst.Elem())
			ptr.Elem().Set(inner(v))

			return ptr
		}
	case srcPtr && dstPtr:
		inner := p.step(src.Elem(), dst.Elem())
		if inner == nil {
			return nil
		}

		return func(v reflect.Value) reflect.Value {
			if v.IsNil() {
				return reflect.Zero(dst)
			}

			ptr := reflect.New(dst.Elem())
			ptr.Elem().Set(inner(v.Elem()))

			return ptr
		}
	default:
		return nil
	}
}

// step converts between the types behind a pointer: a plain copy when
// assignable, otherwise any converter the provider knows.
func (p *Provider) step(src, dst reflect.Type) Converter {
	if src.AssignableTo(dst) {
		return func(v reflect.Value) reflect.Value { return v }
	}

	c, ok := p.Converter(src, dst)
	if !ok {
		return nil
	}

	return c
}
