package plan

import (
	"errors"
	"reflect"
	"slices"

	"instant-mapper/internal/accessor"
	"instant-mapper/internal/analyze"
	"instant-mapper/internal/common"
	"instant-mapper/internal/diagnostic"
	"instant-mapper/internal/mapping"
	"instant-mapper/internal/match"
	"instant-mapper/primitive"
)

var (
	// ErrNotStruct is returned when the source or target is not a struct type.
	ErrNotStruct = analyze.ErrNotStruct
	// ErrDuplicateField is returned when two target fields share a matching key.
	ErrDuplicateField = errors.New("duplicate target field")
)

// AccessorFactory produces the field read/write operations and the target
// constructor a plan runs with.
type AccessorFactory interface {
	Getter(field analyze.FieldInfo) accessor.Getter
	Setter(field analyze.FieldInfo) accessor.Setter
	Constructor(t reflect.Type) accessor.Constructor
}

// ConverterProvider produces converters between field types.
type ConverterProvider interface {
	Converter(src, dst reflect.Type) (primitive.Converter, bool)
}

// Config holds the collaborators and options used by Compile.
type Config struct {
	// Accessors defaults to accessor.Reflect.
	Accessors AccessorFactory
	// Converters defaults to a primitive provider with every category enabled.
	Converters ConverterProvider
	// Matching selects how field names are compared.
	Matching match.Mode
	// Overrides holds the mapping file entry for the pair, if any.
	Overrides *mapping.TypeMapping
}

func (c Config) withDefaults() Config {
	if c.Accessors == nil {
		c.Accessors = accessor.Reflect{}
	}

	if c.Converters == nil {
		c.Converters = primitive.NewProvider(primitive.CategoryAll)
	}

	return c
}

// Strategy describes how a field value is carried over.
type Strategy int

const (
	// StrategyDirectAssign - direct assignment (types are identical or assignable).
	StrategyDirectAssign Strategy = iota
	// StrategyConvert - the value passes through a converter.
	StrategyConvert
)

// String returns a human-readable strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyDirectAssign:
		return "direct_assign"
	case StrategyConvert:
		return "convert"
	default:
		return common.UnknownStr
	}
}

// FieldOp is one compiled field-copy operation.
type FieldOp struct {
	// Source field read from.
	Source analyze.FieldInfo
	// Target field written to.
	Target analyze.FieldInfo
	// Strategy used to carry the value over.
	Strategy Strategy
	// Explanation describes why this operation was chosen.
	Explanation string

	get     accessor.Getter
	set     accessor.Setter
	convert primitive.Converter
}

func (op *FieldOp) apply(src, dst reflect.Value) {
	v := op.get(src)
	if op.convert != nil {
		v = op.convert(v)
	}

	op.set(dst, v)
}

// Plan is the compiled mapping of one source struct type onto one target
// struct type.
type Plan struct {
	source    *analyze.TypeInfo
	target    *analyze.TypeInfo
	construct accessor.Constructor
	ops       []FieldOp
	diags     diagnostic.Diagnostics
}

// Source returns the source struct type.
func (p *Plan) Source() reflect.Type {
	return p.source.Type
}

// Target returns the target struct type.
func (p *Plan) Target() reflect.Type {
	return p.target.Type
}

// TypePair returns the "store.Order->warehouse.Order" label of the plan.
func (p *Plan) TypePair() string {
	return typePairString(p.source.ID, p.target.ID)
}

// Fields returns a copy of the compiled operations in execution order.
func (p *Plan) Fields() []FieldOp {
	return slices.Clone(p.ops)
}

// Diagnostics returns the decisions made while compiling the plan.
func (p *Plan) Diagnostics() diagnostic.Diagnostics {
	return p.diags
}

// New returns a pointer to a new zero target value.
func (p *Plan) New() reflect.Value {
	return p.construct()
}

// CreateAndMap constructs a new target and copies every compiled field of
// src into it. src is a source struct or a pointer to one; the result is a
// pointer to the target.
func (p *Plan) CreateAndMap(src reflect.Value) reflect.Value {
	dst := p.New()
	p.MapInto(src, dst)

	return dst
}

// MapInto copies every compiled field of src into the target dst points to.
// A nil src or dst pointer leaves everything untouched.
func (p *Plan) MapInto(src, dst reflect.Value) {
	if src.Kind() == reflect.Pointer {
		if src.IsNil() {
			return
		}

		src = src.Elem()
	}

	if dst.Kind() != reflect.Pointer || dst.IsNil() {
		return
	}

	dst = dst.Elem()

	for i := range p.ops {
		p.ops[i].apply(src, dst)
	}
}

func typePairString(src, dst analyze.TypeID) string {
	return src.Short() + "->" + dst.Short()
}
