package mapper

import (
	"fmt"
	"log/slog"
	"maps"
	"reflect"

	"instant-mapper/internal/analyze"
	"instant-mapper/internal/mapping"
	"instant-mapper/internal/match"
	"instant-mapper/internal/plan"
	"instant-mapper/primitive"
)

// Option configures a Factory or a single plan compilation.
type Option func(*settings)

type settings struct {
	logger     *slog.Logger
	accessors  AccessorFactory
	converters ConverterProvider
	custom     map[TypePair]Converter
	config     *mapping.MappingFile

	categories    primitive.CategoryEnum
	categoriesSet bool
	matching      match.Mode
	matchingSet   bool

	err error
}

func newSettings(opts []Option) (*settings, error) {
	s := &settings{
		logger: slog.New(slog.DiscardHandler),
		custom: map[TypePair]Converter{},
	}

	s.apply(opts)

	return s, s.err
}

func (s *settings) apply(opts []Option) {
	for _, opt := range opts {
		opt(s)
	}
}

// with returns a copy of s with opts applied on top.
func (s *settings) with(opts []Option) (*settings, error) {
	if len(opts) == 0 {
		return s, nil
	}

	c := *s
	c.custom = maps.Clone(s.custom)
	c.apply(opts)

	return &c, c.err
}

func (s *settings) mode() match.Mode {
	if s.matchingSet {
		return s.matching
	}

	mode, err := s.config.Mode()
	if err != nil {
		return match.ModeCaseInsensitive
	}

	return mode
}

func (s *settings) provider() ConverterProvider {
	base := s.converters
	if base == nil {
		allowed := s.categories
		if !s.categoriesSet {
			var err error
			if allowed, err = s.config.CategorySet(); err != nil {
				allowed = primitive.CategoryAll
			}
		}

		base = primitive.NewProvider(allowed)
	}

	if len(s.custom) == 0 {
		return base
	}

	return overlay{custom: s.custom, next: base}
}

func (s *settings) planConfig(pair TypePair) plan.Config {
	return plan.Config{
		Accessors:  s.accessors,
		Converters: s.provider(),
		Matching:   s.mode(),
		Overrides:  s.config.Find(analyze.IDOf(pair.Source), analyze.IDOf(pair.Destination)),
	}
}

// overlay serves registered custom converters before the base provider.
type overlay struct {
	custom map[TypePair]Converter
	next   ConverterProvider
}

func (o overlay) Converter(src, dst reflect.Type) (Converter, bool) {
	if c, ok := o.custom[TypePair{Source: src, Destination: dst}]; ok {
		return c, true
	}

	return o.next.Converter(src, dst)
}

// WithLogger sets the logger registration and dropped fields are reported to.
// Defaults to discarding everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCategories restricts the built-in converters to the given categories.
// Overrides the mapping file's "categories".
func WithCategories(categories primitive.CategoryEnum) Option {
	return func(s *settings) {
		s.categories = categories
		s.categoriesSet = true
	}
}

// WithMatching selects how field names are compared.
// Overrides the mapping file's "matching".
func WithMatching(mode MatchMode) Option {
	return func(s *settings) {
		s.matching = mode
		s.matchingSet = true
	}
}

// WithAccessorFactory replaces the reflection based field accessors.
func WithAccessorFactory(accessors AccessorFactory) Option {
	return func(s *settings) { s.accessors = accessors }
}

// WithConverterProvider replaces the built-in converters. Converters added
// with WithConverter are still consulted first.
func WithConverterProvider(provider ConverterProvider) Option {
	return func(s *settings) { s.converters = provider }
}

// WithConverter registers fn for fields of type F copied into fields of type T.
// It is consulted before the built-in converters; fields whose types are
// already assignable are copied directly and never reach it.
func WithConverter[F, T any](fn func(F) T) Option {
	pair := PairOf[F, T]()

	return func(s *settings) {
		s.custom[pair] = func(v reflect.Value) reflect.Value {
			var in F
			reflect.ValueOf(&in).Elem().Set(v)

			out := fn(in)

			return reflect.ValueOf(&out).Elem()
		}
	}
}

// WithConfigFile loads mapping overrides from a YAML mapping file.
func WithConfigFile(path string) Option {
	return func(s *settings) {
		mf, err := mapping.LoadFile(path)
		if err != nil {
			s.err = err
			return
		}

		s.useConfig(mf, path)
	}
}

// WithConfigData loads mapping overrides from YAML data.
func WithConfigData(data []byte) Option {
	return func(s *settings) {
		mf, err := mapping.Parse(data)
		if err != nil {
			s.err = err
			return
		}

		s.useConfig(mf, "<data>")
	}
}

func (s *settings) useConfig(mf *mapping.MappingFile, origin string) {
	if diags := mapping.Validate(mf); diags.HasErrors() {
		s.err = fmt.Errorf("invalid mapping file %s: %w", origin, diags.Error())
		return
	}

	s.config = mf
}
