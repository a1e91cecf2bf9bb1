package mapper

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"

	"instant-mapper/internal/diagnostic"
)

// Metric keys maintained by a Factory.
const (
	RegisteredTotal = metricz.Key("mapper.registered.total")
	DuplicatesTotal = metricz.Key("mapper.duplicates.total")
	HitsTotal       = metricz.Key("mapper.hits.total")
	MissesTotal     = metricz.Key("mapper.misses.total")
	DroppedTotal    = metricz.Key("mapper.fields.dropped.total")
	PairsCount      = metricz.Key("mapper.pairs")
)

// Span keys and tags recorded while compiling plans.
const (
	CompileSpan = tracez.Key("mapper.compile")

	TagPair    = tracez.Tag("mapper.pair")
	TagFields  = tracez.Tag("mapper.fields")
	TagDropped = tracez.Tag("mapper.dropped")
	TagError   = tracez.Tag("mapper.error")
)

// EventRegistered is emitted once per newly stored pair.
const EventRegistered = hookz.Key("mapper.registered")

// RegisteredEvent describes a pair added to a Factory.
type RegisteredEvent struct {
	Pair      TypePair
	Fields    int // compiled field operations, when known
	Dropped   int // fields left unmapped, when known
	Timestamp time.Time
}

// Factory is the registry of compiled mappings keyed by TypePair.
//
// Entries are added at most once per pair and never replaced or removed.
// All methods are safe for concurrent use; registering the same pair from
// several goroutines stores exactly one mapper.
type Factory struct {
	plans    sync.Map // TypePair -> UntypedMapper
	count    atomic.Int64
	settings *settings
	log      *slog.Logger
	metrics  *metricz.Registry
	tracer   *tracez.Tracer
	hooks    *hookz.Hooks[RegisteredEvent]
	emit     func(context.Context, hookz.Key, RegisteredEvent) error
}

// New creates an empty Factory. Options apply to every plan it compiles.
func New(opts ...Option) (*Factory, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}

	registry := metricz.New()
	registry.Counter(RegisteredTotal)
	registry.Counter(DuplicatesTotal)
	registry.Counter(HitsTotal)
	registry.Counter(MissesTotal)
	registry.Counter(DroppedTotal)
	registry.Gauge(PairsCount)

	f := &Factory{
		settings: s,
		log:      s.logger,
		metrics:  registry,
		tracer:   tracez.New(),
		hooks:    hookz.New[RegisteredEvent](),
	}
	f.emit = func(ctx context.Context, key hookz.Key, e RegisteredEvent) error {
		return f.hooks.Emit(ctx, key, e)
	}

	return f, nil
}

// Metrics returns the factory's metrics registry.
func (f *Factory) Metrics() *metricz.Registry {
	return f.metrics
}

// Tracer returns the tracer recording plan compilation.
func (f *Factory) Tracer() *tracez.Tracer {
	return f.tracer
}

// OnRegistered registers a handler called asynchronously for every pair
// the factory stores.
func (f *Factory) OnRegistered(handler func(context.Context, RegisteredEvent) error) error {
	_, err := f.hooks.Hook(EventRegistered, handler)
	return err
}

// Close shuts down the tracer and event hooks. Registered mappers keep
// working.
func (f *Factory) Close() error {
	f.tracer.Close()
	f.hooks.Close()

	return nil
}

// Register stores m under the (src, dst) pair unless the pair already has a
// mapper, in which case the existing one is kept and false is returned.
// m must have been built for exactly that pair.
func (f *Factory) Register(src, dst reflect.Type, m UntypedMapper) (bool, error) {
	key := TypePair{Source: src, Destination: dst}

	if m == nil {
		return false, &TypeMismatchError{Key: key}
	}

	if got := m.Types(); got != key {
		return false, &TypeMismatchError{Key: key, Mapper: got}
	}

	if _, loaded := f.plans.LoadOrStore(key, m); loaded {
		f.duplicate(key)
		return false, nil
	}

	f.metrics.Counter(RegisteredTotal).Inc()
	f.metrics.Gauge(PairsCount).Set(float64(f.count.Add(1)))
	f.log.Debug("mapper.register.ok", slog.String("pair", key.String()))

	event := RegisteredEvent{Pair: key, Timestamp: time.Now()}
	if c, ok := m.(compiled); ok {
		event.Fields = len(c.Fields())
		event.Dropped = len(dropped(c.Diagnostics()))
	}

	if err := f.emit(context.Background(), EventRegistered, event); err != nil {
		f.log.Debug("mapper.register.emit",
			slog.String("pair", key.String()), slog.String("error", err.Error()))
	}

	return true, nil
}

// compiled is implemented by plans that expose their field operations.
type compiled interface {
	Fields() []FieldOp
	Diagnostics() Diagnostics
}

// dropped returns the warnings for source fields left out of a plan.
// Mapping file warnings such as unknown_field name no plan field.
func dropped(d Diagnostics) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic

	for _, w := range d.Warnings {
		switch w.Code {
		case diagnostic.CodeNoMatch, diagnostic.CodeNoConversion, diagnostic.CodeNotReadable,
			diagnostic.CodeNotWritable, diagnostic.CodeDuplicateTarget:
			out = append(out, w)
		}
	}

	return out
}

func (f *Factory) duplicate(key TypePair) {
	f.metrics.Counter(DuplicatesTotal).Inc()
	f.log.Debug("mapper.register.duplicate", slog.String("pair", key.String()))
}

// Lookup returns the mapper registered for (src, dst).
func (f *Factory) Lookup(src, dst reflect.Type) (UntypedMapper, bool) {
	m, ok := f.plans.Load(TypePair{Source: src, Destination: dst})
	if !ok {
		return nil, false
	}

	return m.(UntypedMapper), true
}

func (f *Factory) resolve(src, dst reflect.Type) (UntypedMapper, error) {
	m, ok := f.Lookup(src, dst)
	if !ok {
		f.metrics.Counter(MissesTotal).Inc()
		f.log.Debug("mapper.lookup.miss",
			slog.String("source", fmt.Sprint(src)), slog.String("destination", fmt.Sprint(dst)))

		return nil, &NotRegisteredError{Source: src, Destination: dst}
	}

	f.metrics.Counter(HitsTotal).Inc()

	return m, nil
}

// Pairs lists every registered pair, sorted by name.
func (f *Factory) Pairs() []TypePair {
	var pairs []TypePair

	f.plans.Range(func(key, _ any) bool {
		pairs = append(pairs, key.(TypePair))
		return true
	})

	slices.SortFunc(pairs, func(a, b TypePair) int {
		return strings.Compare(a.String(), b.String())
	})

	return pairs
}

// Len returns the number of registered pairs.
func (f *Factory) Len() int {
	return int(f.count.Load())
}

// MapInto copies src into dst using the mapper registered for their runtime
// types. src may be a struct or a pointer to one; dst must be a pointer.
// A nil src or dst is a no-op.
func (f *Factory) MapInto(src, dst any) error {
	if isAbsent(src) || isAbsent(dst) {
		return nil
	}

	if reflect.TypeOf(dst).Kind() != reflect.Pointer {
		return fmt.Errorf("%w: got %T", ErrNotPointer, dst)
	}

	m, err := f.resolve(valueType(src), valueType(dst))
	if err != nil {
		return err
	}

	return m.MapValueInto(src, dst)
}

// Register compiles the plan mapping S onto D with the factory's options,
// plus opts for this pair only, and stores it. Registering a pair that is
// already present keeps the existing plan and is not an error.
func Register[S, D any](f *Factory, opts ...Option) error {
	pair := PairOf[S, D]()
	if _, ok := f.Lookup(pair.Source, pair.Destination); ok {
		f.duplicate(pair)
		return nil
	}

	s, err := f.settings.with(opts)
	if err != nil {
		return err
	}

	_, span := f.tracer.StartSpan(context.Background(), CompileSpan)
	defer span.Finish()
	span.SetTag(TagPair, pair.String())

	p, err := compile[S, D](s)
	if err != nil {
		span.SetTag(TagError, err.Error())
		return fmt.Errorf("compile %s: %w", pair, err)
	}

	span.SetTag(TagFields, strconv.Itoa(len(p.Fields())))
	span.SetTag(TagDropped, strconv.Itoa(len(dropped(p.Diagnostics()))))

	added, err := f.Register(pair.Source, pair.Destination, p)
	if err != nil || !added {
		return err
	}

	for _, w := range dropped(p.Diagnostics()) {
		f.metrics.Counter(DroppedTotal).Inc()
		s.logger.Debug("mapper.field.dropped",
			slog.String("pair", pair.String()),
			slog.String("field", w.Field),
			slog.String("code", w.Code),
			slog.String("reason", w.Message))
	}

	return nil
}

// Map maps src onto a new D using the plan registered for (S, D).
// A nil src returns nil without error.
func Map[S, D any](f *Factory, src *S) (*D, error) {
	if src == nil {
		return nil, nil
	}

	m, err := f.resolve(reflect.TypeFor[S](), reflect.TypeFor[D]())
	if err != nil {
		return nil, err
	}

	if typed, ok := m.(TypedMapper[S, D]); ok {
		return typed.Map(src), nil
	}

	out, err := m.MapValue(src)
	if err != nil {
		return nil, err
	}

	dst, _ := out.(*D)

	return dst, nil
}

// MapInto copies src into dst using the plan registered for (S, D).
// A nil src or dst is a no-op.
func MapInto[S, D any](f *Factory, src *S, dst *D) error {
	if src == nil || dst == nil {
		return nil
	}

	m, err := f.resolve(reflect.TypeFor[S](), reflect.TypeFor[D]())
	if err != nil {
		return err
	}

	if typed, ok := m.(TypedMapper[S, D]); ok {
		typed.MapInto(src, dst)
		return nil
	}

	return m.MapValueInto(src, dst)
}

// MapAs maps src onto a new D, choosing the plan by the runtime type of src.
// src may be a struct or a pointer to one. A nil src returns nil.
func MapAs[D any](f *Factory, src any) (*D, error) {
	if isAbsent(src) {
		return nil, nil
	}

	m, err := f.resolve(valueType(src), reflect.TypeFor[D]())
	if err != nil {
		return nil, err
	}

	out, err := m.MapValue(src)
	if err != nil {
		return nil, err
	}

	dst, ok := out.(*D)
	if !ok && out != nil {
		return nil, fmt.Errorf("%w: %s produced %T", ErrTypeMismatch, m.Types(), out)
	}

	return dst, nil
}
