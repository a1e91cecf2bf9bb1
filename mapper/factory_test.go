package mapper_test

import (
	"bytes"
	"context"
	"log/slog"
	"reflect"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/tracez"

	"instant-mapper/mapper"
	"instant-mapper/primitive"
	"instant-mapper/store"
	"instant-mapper/warehouse"
)

type (
	Source struct {
		Id   int
		Name string
	}
	Destination struct {
		Id   int
		Name string
	}
	CodeSource struct {
		Code int
	}
	CodeDestination struct {
		Code string
	}
	ExtraSource struct {
		Extra int
	}
	EmptyDestination struct{}
)

func newFactory(t *testing.T, opts ...mapper.Option) *mapper.Factory {
	t.Helper()

	f, err := mapper.New(opts...)
	require.NoError(t, err)

	return f
}

func TestMap_SameShape(t *testing.T) {
	f := newFactory(t)
	require.NoError(t, mapper.Register[Source, Destination](f))

	got, err := mapper.Map[Source, Destination](f, &Source{Id: 1, Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, &Destination{Id: 1, Name: "a"}, got)
}

func TestMap_ConvertsIntToString(t *testing.T) {
	f := newFactory(t)
	require.NoError(t, mapper.Register[CodeSource, CodeDestination](f))

	got, err := mapper.Map[CodeSource, CodeDestination](f, &CodeSource{Code: 42})
	require.NoError(t, err)
	assert.Equal(t, &CodeDestination{Code: "42"}, got)
}

func TestMap_DropsUnmatchedField(t *testing.T) {
	f := newFactory(t)
	require.NoError(t, mapper.Register[ExtraSource, EmptyDestination](f))

	got, err := mapper.Map[ExtraSource, EmptyDestination](f, &ExtraSource{Extra: 9})
	require.NoError(t, err)
	assert.Equal(t, &EmptyDestination{}, got)
}

func TestMap_NilSource(t *testing.T) {
	f := newFactory(t)

	got, err := mapper.Map[Source, Destination](f, nil)
	require.NoError(t, err, "nil source short-circuits before lookup")
	assert.Nil(t, got)

	gotAs, err := mapper.MapAs[Destination](f, nil)
	require.NoError(t, err)
	assert.Nil(t, gotAs)

	gotAs, err = mapper.MapAs[Destination](f, (*Source)(nil))
	require.NoError(t, err)
	assert.Nil(t, gotAs)
}

func TestMapInto_NilIsNoop(t *testing.T) {
	f := newFactory(t)
	require.NoError(t, mapper.Register[Source, Destination](f))

	dst := &Destination{Id: 7, Name: "kept"}

	require.NoError(t, mapper.MapInto[Source, Destination](f, nil, dst))
	require.NoError(t, f.MapInto(nil, dst))
	require.NoError(t, f.MapInto((*Source)(nil), dst))
	assert.Equal(t, &Destination{Id: 7, Name: "kept"}, dst)

	require.NoError(t, mapper.MapInto[Source, Destination](f, &Source{Id: 1}, nil))
	require.NoError(t, f.MapInto(&Source{Id: 1}, nil))
	require.NoError(t, f.MapInto(&Source{Id: 1}, (*Destination)(nil)))
}

func TestUnregisteredPair(t *testing.T) {
	f := newFactory(t)
	require.NoError(t, mapper.Register[Source, Destination](f))

	_, err := mapper.Map[Destination, Source](f, &Destination{Id: 1})
	require.ErrorIs(t, err, mapper.ErrMappingNotRegistered)

	var notRegistered *mapper.NotRegisteredError
	require.ErrorAs(t, err, &notRegistered)
	assert.Equal(t, reflect.TypeFor[Destination](), notRegistered.Source)
	assert.Equal(t, reflect.TypeFor[Source](), notRegistered.Destination)
	assert.Contains(t, err.Error(), "type is not registered")

	dst := &CodeDestination{Code: "untouched"}
	err = mapper.MapInto[Source, CodeDestination](f, &Source{Id: 1}, dst)
	require.ErrorIs(t, err, mapper.ErrMappingNotRegistered)
	assert.Equal(t, "untouched", dst.Code)

	err = f.MapInto(&Source{Id: 1}, dst)
	require.ErrorIs(t, err, mapper.ErrMappingNotRegistered)
	assert.Equal(t, "untouched", dst.Code)

	_, err = mapper.MapAs[CodeDestination](f, Source{Id: 1})
	require.ErrorIs(t, err, mapper.ErrMappingNotRegistered)
}

func TestUntypedEntryPoints(t *testing.T) {
	f := newFactory(t)
	require.NoError(t, mapper.Register[Source, Destination](f))

	var src any = Source{Id: 3, Name: "by value"}

	got, err := mapper.MapAs[Destination](f, src)
	require.NoError(t, err)
	assert.Equal(t, &Destination{Id: 3, Name: "by value"}, got)

	got, err = mapper.MapAs[Destination](f, &Source{Id: 4, Name: "by pointer"})
	require.NoError(t, err)
	assert.Equal(t, &Destination{Id: 4, Name: "by pointer"}, got)

	var dst Destination
	require.NoError(t, f.MapInto(src, &dst))
	assert.Equal(t, Destination{Id: 3, Name: "by value"}, dst)

	err = f.MapInto(src, dst)
	require.ErrorIs(t, err, mapper.ErrNotPointer)
}

func TestRegister_FirstWins(t *testing.T) {
	f := newFactory(t)

	require.NoError(t, mapper.Register[CodeSource, CodeDestination](f))
	require.NoError(t, mapper.Register[CodeSource, CodeDestination](f,
		mapper.WithConverter(func(int) string { return "second" })))

	got, err := mapper.Map[CodeSource, CodeDestination](f, &CodeSource{Code: 5})
	require.NoError(t, err)
	assert.Equal(t, "5", got.Code, "second registration is ignored")

	assert.Equal(t, 1, f.Len())
	assert.InDelta(t, 1, f.Metrics().Counter(mapper.RegisteredTotal).Value(), 0)
	assert.InDelta(t, 1, f.Metrics().Counter(mapper.DuplicatesTotal).Value(), 0)
}

func TestRegister_ReflectLevel(t *testing.T) {
	f := newFactory(t)

	p, err := mapper.Compile[Source, Destination]()
	require.NoError(t, err)

	src, dst := reflect.TypeFor[Source](), reflect.TypeFor[Destination]()

	added, err := f.Register(src, dst, p)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = f.Register(src, dst, p)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = f.Register(dst, src, p)
	require.ErrorIs(t, err, mapper.ErrTypeMismatch)

	var mismatch *mapper.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, mapper.PairOf[Source, Destination](), mismatch.Mapper)

	_, err = f.Register(src, dst, nil)
	require.ErrorIs(t, err, mapper.ErrTypeMismatch)

	m, ok := f.Lookup(src, dst)
	require.True(t, ok)
	assert.Same(t, p, m)

	_, ok = f.Lookup(dst, src)
	assert.False(t, ok)
}

func TestRegister_ConcurrentFirstRegistration(t *testing.T) {
	f := newFactory(t)

	plans := make([]*mapper.Plan[Source, Destination], 16)
	for i := range plans {
		p, err := mapper.Compile[Source, Destination]()
		require.NoError(t, err)

		plans[i] = p
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		added int
	)

	src, dst := reflect.TypeFor[Source](), reflect.TypeFor[Destination]()

	for _, p := range plans {
		wg.Add(1)

		go func() {
			defer wg.Done()

			ok, err := f.Register(src, dst, p)
			assert.NoError(t, err)

			if ok {
				mu.Lock()
				added++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, added)
	assert.Equal(t, 1, f.Len())
	assert.InDelta(t, float64(len(plans)-1), f.Metrics().Counter(mapper.DuplicatesTotal).Value(), 0)
}

func TestConcurrentMapping(t *testing.T) {
	f := newFactory(t)
	require.NoError(t, mapper.Register[CodeSource, CodeDestination](f))

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			got, err := mapper.Map[CodeSource, CodeDestination](f, &CodeSource{Code: i})
			if assert.NoError(t, err) {
				assert.Equal(t, strconv.Itoa(i), got.Code)
			}
		}()
	}

	wg.Wait()
	assert.InDelta(t, 64, f.Metrics().Counter(mapper.HitsTotal).Value(), 0)
}

func TestMetrics_HitsAndMisses(t *testing.T) {
	f := newFactory(t)
	require.NoError(t, mapper.Register[Source, Destination](f))

	_, _ = mapper.Map[Source, Destination](f, &Source{})
	_, _ = mapper.Map[Source, Destination](f, &Source{})
	_, _ = mapper.Map[Destination, Source](f, &Destination{})
	_, _ = mapper.Map[Source, Destination](f, nil)

	assert.InDelta(t, 2, f.Metrics().Counter(mapper.HitsTotal).Value(), 0)
	assert.InDelta(t, 1, f.Metrics().Counter(mapper.MissesTotal).Value(), 0)
	assert.InDelta(t, 1, f.Metrics().Gauge(mapper.PairsCount).Value(), 0)
}

func TestMapIntoMatchesMap(t *testing.T) {
	f := newFactory(t)
	require.NoError(t, mapper.Register[store.Order, warehouse.Order](f))

	in := &store.Order{
		ID:          uuid.NewString(),
		CustomerID:  uuid.NewString(),
		OrderNumber: "SO-7",
		Status:      "SHIPPED",
		TotalCents:  "990",
		Paid:        1,
		OrderedAt:   "2024-01-02T03:04:05Z",
		ShipWithin:  "24h",
	}

	created, err := mapper.Map[store.Order, warehouse.Order](f, in)
	require.NoError(t, err)

	var into warehouse.Order
	require.NoError(t, mapper.MapInto(f, in, &into))

	assert.Equal(t, created, &into)
	assert.Equal(t, warehouse.StatusShipped, into.Status)
	assert.Equal(t, 24*time.Hour, into.ShipWithin)
}

func TestPairs(t *testing.T) {
	f := newFactory(t)
	require.NoError(t, mapper.Register[store.Product, warehouse.Product](f))
	require.NoError(t, mapper.Register[store.Order, warehouse.Order](f))

	pairs := f.Pairs()
	require.Len(t, pairs, 2)
	assert.Equal(t, "store.Order->warehouse.Order", pairs[0].String())
	assert.Equal(t, "store.Product->warehouse.Product", pairs[1].String())
}

func TestRegister_CompileErrors(t *testing.T) {
	type dupes struct {
		Name string
		NAME string
	}

	f := newFactory(t)

	err := mapper.Register[Source, dupes](f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate target field")
	assert.Equal(t, 0, f.Len())

	err = mapper.Register[Source, string](f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a struct")
}

func TestOptions_Categories(t *testing.T) {
	f := newFactory(t, mapper.WithCategories(primitive.CategorySafeNumber))
	require.NoError(t, mapper.Register[CodeSource, CodeDestination](f))

	got, err := mapper.Map[CodeSource, CodeDestination](f, &CodeSource{Code: 42})
	require.NoError(t, err)
	assert.Empty(t, got.Code, "int to string is not a safe number conversion")
	assert.InDelta(t, 1, f.Metrics().Counter(mapper.DroppedTotal).Value(), 0)
}

func TestOptions_CustomConverter(t *testing.T) {
	f := newFactory(t, mapper.WithConverter(func(code int) string {
		return "#" + strconv.Itoa(code)
	}))
	require.NoError(t, mapper.Register[CodeSource, CodeDestination](f))

	got, err := mapper.Map[CodeSource, CodeDestination](f, &CodeSource{Code: 7})
	require.NoError(t, err)
	assert.Equal(t, "#7", got.Code)
}

func TestOptions_PerPairOverridesDoNotLeak(t *testing.T) {
	f := newFactory(t)

	require.NoError(t, mapper.Register[CodeSource, CodeDestination](f,
		mapper.WithConverter(func(int) string { return "custom" })))

	type otherDestination struct {
		Code string
	}

	require.NoError(t, mapper.Register[CodeSource, otherDestination](f))

	got, err := mapper.Map[CodeSource, otherDestination](f, &CodeSource{Code: 1})
	require.NoError(t, err)
	assert.Equal(t, "1", got.Code)
}

func TestOptions_Matching(t *testing.T) {
	type snake struct {
		OrderID string `mapper:"order_id"`
	}

	type camel struct {
		OrderId string
	}

	f := newFactory(t, mapper.WithMatching(mapper.MatchNormalized))
	require.NoError(t, mapper.Register[snake, camel](f))

	got, err := mapper.Map[snake, camel](f, &snake{OrderID: "X"})
	require.NoError(t, err)
	assert.Equal(t, "X", got.OrderId)
}

func TestOptions_ConfigData(t *testing.T) {
	config := []byte(`
version: "1"
mappings:
  - source: mapper_test.Source
    target: mapper_test.Destination
    121:
      Id: Id
    ignore: Name
`)

	f := newFactory(t, mapper.WithConfigData(config))
	require.NoError(t, mapper.Register[Source, Destination](f))

	got, err := mapper.Map[Source, Destination](f, &Source{Id: 2, Name: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, &Destination{Id: 2}, got)
}

func TestOptions_ConfigFile(t *testing.T) {
	f := newFactory(t, mapper.WithConfigFile("testdata/orders.yaml"))
	require.NoError(t, mapper.Register[store.Order, warehouse.Order](f))

	got, err := mapper.Map[store.Order, warehouse.Order](f, &store.Order{
		OrderNumber: "SO-1",
		Currency:    "USD",
		Paid:        1,
	})
	require.NoError(t, err)
	assert.Equal(t, "SO-1", got.Signature, "renamed by the mapping file")
	assert.Empty(t, got.OrderNumber)
	assert.Empty(t, got.Currency, "ignored by the mapping file")
	assert.False(t, got.Paid, "numeric_bool is not an enabled category")
}

func TestOptions_InvalidConfig(t *testing.T) {
	_, err := mapper.New(mapper.WithConfigData([]byte("version: \"9\"\n")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mapping file")

	_, err = mapper.New(mapper.WithConfigFile("testdata/missing.yaml"))
	require.Error(t, err)

	_, err = mapper.Compile[Source, Destination](mapper.WithConfigData([]byte("matching: [")))
	require.Error(t, err)
}

func TestOptions_Logger(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f := newFactory(t, mapper.WithLogger(logger))

	require.NoError(t, mapper.Register[ExtraSource, EmptyDestination](f))
	require.NoError(t, mapper.Register[ExtraSource, EmptyDestination](f))

	out := buf.String()
	assert.Contains(t, out, "mapper.register.ok")
	assert.Contains(t, out, "mapper.register.duplicate")
	assert.Contains(t, out, "mapper.field.dropped")
	assert.Contains(t, out, "field=Extra")
}

func TestPlan_UntypedMisuse(t *testing.T) {
	p, err := mapper.Compile[Source, Destination]()
	require.NoError(t, err)

	_, err = p.MapValue(CodeSource{})
	require.ErrorIs(t, err, mapper.ErrTypeMismatch)

	err = p.MapValueInto(&Source{}, &CodeDestination{})
	require.ErrorIs(t, err, mapper.ErrTypeMismatch)

	err = p.MapValueInto(&Source{}, Destination{})
	require.ErrorIs(t, err, mapper.ErrNotPointer)

	out, err := p.MapValue(nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	assert.NoError(t, p.MapValueInto(nil, nil))
}

func TestObservability_EventsAndSpans(t *testing.T) {
	f := newFactory(t)
	defer f.Close()

	events := make(chan mapper.RegisteredEvent, 4)
	require.NoError(t, f.OnRegistered(func(_ context.Context, e mapper.RegisteredEvent) error {
		events <- e
		return nil
	}))

	var (
		mu    sync.Mutex
		spans []tracez.Span
	)
	f.Tracer().OnSpanComplete(func(span tracez.Span) {
		mu.Lock()
		defer mu.Unlock()
		spans = append(spans, span)
	})

	require.NoError(t, mapper.Register[ExtraSource, EmptyDestination](f))
	require.NoError(t, mapper.Register[ExtraSource, EmptyDestination](f))

	select {
	case e := <-events:
		assert.Equal(t, mapper.PairOf[ExtraSource, EmptyDestination](), e.Pair)
		assert.Equal(t, 0, e.Fields)
		assert.Equal(t, 1, e.Dropped)
		assert.False(t, e.Timestamp.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("registered event not delivered")
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(spans) == 1
	}, 2*time.Second, 10*time.Millisecond, "duplicate registration does not compile")

	select {
	case e := <-events:
		t.Fatalf("unexpected second event for %s", e.Pair)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDropped_IgnoresMappingFileWarnings(t *testing.T) {
	config := []byte(`
mappings:
  - source: mapper_test.ExtraSource
    target: mapper_test.EmptyDestination
    ignore: Nmae
`)

	f := newFactory(t, mapper.WithConfigData(config))
	defer f.Close()

	events := make(chan mapper.RegisteredEvent, 1)
	require.NoError(t, f.OnRegistered(func(_ context.Context, e mapper.RegisteredEvent) error {
		events <- e
		return nil
	}))

	require.NoError(t, mapper.Register[ExtraSource, EmptyDestination](f))

	p, ok := f.Lookup(reflect.TypeFor[ExtraSource](), reflect.TypeFor[EmptyDestination]())
	require.True(t, ok)
	assert.Len(t, p.(*mapper.Plan[ExtraSource, EmptyDestination]).Diagnostics().Warnings, 2)

	assert.InDelta(t, 1, f.Metrics().Counter(mapper.DroppedTotal).Value(), 0)

	select {
	case e := <-events:
		assert.Equal(t, 1, e.Dropped)
	case <-time.After(2 * time.Second):
		t.Fatal("registered event not delivered")
	}
}
