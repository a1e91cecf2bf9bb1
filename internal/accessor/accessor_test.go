package accessor_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instant-mapper/internal/accessor"
	"instant-mapper/internal/analyze"
)

type Named struct {
	Name string
}

type Record struct {
	Named
	ID int
}

func field(t *testing.T, typ reflect.Type, name string) analyze.FieldInfo {
	t.Helper()

	info, err := analyze.Analyze(typ)
	require.NoError(t, err)

	f := info.Field(name)
	require.NotNil(t, f, "field %s", name)

	return *f
}

func TestReflect_GetterSetter(t *testing.T) {
	t.Parallel()

	typ := reflect.TypeFor[Record]()
	var factory accessor.Reflect

	id := field(t, typ, "ID")
	name := field(t, typ, "Name")

	rec := Record{Named: Named{Name: "a"}, ID: 7}
	v := reflect.ValueOf(&rec).Elem()

	assert.Equal(t, 7, factory.Getter(id)(v).Interface())
	assert.Equal(t, "a", factory.Getter(name)(v).Interface())

	factory.Setter(id)(v, reflect.ValueOf(9))
	factory.Setter(name)(v, reflect.ValueOf("b"))

	assert.Equal(t, Record{Named: Named{Name: "b"}, ID: 9}, rec)
}

func TestReflect_GetterOnValue(t *testing.T) {
	t.Parallel()

	var factory accessor.Reflect
	get := factory.Getter(field(t, reflect.TypeFor[Record](), "Name"))

	// source values need not be addressable
	got := get(reflect.ValueOf(Record{Named: Named{Name: "x"}}))
	assert.Equal(t, "x", got.String())
}

func TestReflect_Constructor(t *testing.T) {
	t.Parallel()

	var factory accessor.Reflect
	construct := factory.Constructor(reflect.TypeFor[Record]())

	first := construct()
	second := construct()

	require.Equal(t, reflect.Pointer, first.Kind())
	assert.IsType(t, &Record{}, first.Interface())
	assert.NotSame(t, first.Interface(), second.Interface())
}
