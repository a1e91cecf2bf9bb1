package mapping

import (
	"io/fs"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instant-mapper/internal/analyze"
	"instant-mapper/internal/diagnostic"
	"instant-mapper/internal/match"
	"instant-mapper/primitive"
	"instant-mapper/store"
	"instant-mapper/warehouse"
)

func TestParse(t *testing.T) {
	yaml := `
version: "1"
matching: normalized
categories: [safe_number, text]
mappings:
  - source: store.Order
    target: warehouse.Order
    121:
      OrderNumber: Reference
      Paid: Settled
    ignore:
      - Signature
`

	mf, err := Parse([]byte(yaml))
	require.NoError(t, err)
	require.NotNil(t, mf)

	assert.Equal(t, "1", mf.Version)
	assert.Equal(t, StringOrArray{"safe_number", "text"}, mf.Categories)
	require.Len(t, mf.TypeMappings, 1)

	tm := mf.TypeMappings[0]
	assert.Equal(t, "store.Order", tm.Source)
	assert.Equal(t, "warehouse.Order", tm.Target)
	assert.Len(t, tm.OneToOne, 2)
	assert.Equal(t, "Reference", tm.OneToOne["OrderNumber"])
	assert.Equal(t, StringOrArray{"Signature"}, tm.Ignore)

	mode, err := mf.Mode()
	require.NoError(t, err)
	assert.Equal(t, match.ModeNormalized, mode)

	set, err := mf.CategorySet()
	require.NoError(t, err)
	assert.Equal(t, primitive.CategorySafeNumber|primitive.CategoryText, set)
}

func TestParse_Defaults(t *testing.T) {
	mf, err := Parse([]byte("mappings: []\n"))
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, mf.Version)

	mode, err := mf.Mode()
	require.NoError(t, err)
	assert.Equal(t, match.ModeCaseInsensitive, mode)

	set, err := mf.CategorySet()
	require.NoError(t, err)
	assert.Equal(t, primitive.CategoryAll, set)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("mappings: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode mapping yaml")

	_, err = Parse([]byte("categories: {a: b}\n"))
	require.Error(t, err)

	_, err = Parse([]byte("mappings:\n  - source: a.A\n    target: b.B\n    rename: {X: Y}\n"))
	require.Error(t, err, "unknown keys are rejected")
}

func TestParse_Empty(t *testing.T) {
	mf, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, mf.Version)
	assert.Empty(t, mf.TypeMappings)
}

func TestParse_NamesAreTrimmed(t *testing.T) {
	mf, err := Parse([]byte(`
categories: " text "
mappings:
  - source: " store.Order "
    target: warehouse.Order
    121: {" OrderNumber ": " Signature "}
    ignore: [Currency, "  "]
`))
	require.NoError(t, err)

	assert.Equal(t, StringOrArray{"text"}, mf.Categories)

	tm := mf.TypeMappings[0]
	assert.Equal(t, "store.Order", tm.Source)
	assert.Equal(t, map[string]string{"OrderNumber": "Signature"}, tm.OneToOne)
	assert.Equal(t, StringOrArray{"Currency"}, tm.Ignore)
}

func TestLoadFile(t *testing.T) {
	mf, err := LoadFile("testdata/orders.yaml")
	require.NoError(t, err)
	assert.False(t, Validate(mf).HasErrors())

	orderSrc := analyze.IDOf(reflect.TypeFor[store.Order]())
	orderDst := analyze.IDOf(reflect.TypeFor[warehouse.Order]())

	tm := mf.Find(orderSrc, orderDst)
	require.NotNil(t, tm)
	assert.Equal(t, "store.Order", tm.Source)
	assert.Nil(t, mf.Find(orderDst, orderSrc), "pairs are directional")

	// Full import path form.
	productSrc := analyze.IDOf(reflect.TypeFor[store.Product]())
	productDst := analyze.IDOf(reflect.TypeFor[warehouse.Product]())

	tm = mf.Find(productSrc, productDst)
	require.NotNil(t, tm)
	assert.Equal(t, StringOrArray{"Description"}, tm.Ignore)

	_, err = LoadFile("testdata/missing.yaml")
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorContains(t, err, "open mapping file")
}

func TestTypeMapping_RenameAndIgnore(t *testing.T) {
	tm := &TypeMapping{
		OneToOne: map[string]string{"OrderNumber": "Reference", "paid_flag": "Settled"},
		Ignore:   StringOrArray{"Signature", "note"},
	}

	target, ok := tm.Rename(analyze.FieldInfo{Name: "OrderNumber", Key: "OrderNumber"})
	assert.True(t, ok)
	assert.Equal(t, "Reference", target)

	target, ok = tm.Rename(analyze.FieldInfo{Name: "Paid", Key: "paid_flag"})
	assert.True(t, ok)
	assert.Equal(t, "Settled", target)

	_, ok = tm.Rename(analyze.FieldInfo{Name: "Status", Key: "Status"})
	assert.False(t, ok)

	assert.True(t, tm.Ignores(analyze.FieldInfo{Name: "Signature", Key: "Signature"}))
	assert.True(t, tm.Ignores(analyze.FieldInfo{Name: "Note", Key: "note"}))
	assert.False(t, tm.Ignores(analyze.FieldInfo{Name: "Status", Key: "Status"}))

	var missing *TypeMapping

	_, ok = missing.Rename(analyze.FieldInfo{Name: "ID"})
	assert.False(t, ok)
	assert.False(t, missing.Ignores(analyze.FieldInfo{Name: "ID"}))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		codes []string
	}{
		{
			name:  "valid",
			yaml:  "version: \"1\"\nmappings:\n  - source: a.A\n    target: b.B\n",
			codes: nil,
		},
		{
			name:  "bad version",
			yaml:  "version: \"2\"\n",
			codes: []string{diagnostic.CodeInvalidConfig},
		},
		{
			name:  "bad matching",
			yaml:  "matching: fuzzy\n",
			codes: []string{diagnostic.CodeInvalidConfig},
		},
		{
			name:  "bad category",
			yaml:  "categories: telepathy\n",
			codes: []string{diagnostic.CodeInvalidConfig},
		},
		{
			name:  "missing target",
			yaml:  "mappings:\n  - source: a.A\n",
			codes: []string{diagnostic.CodeInvalidConfig},
		},
		{
			name:  "duplicate pair",
			yaml:  "mappings:\n  - {source: a.A, target: b.B}\n  - {source: a.A, target: b.B}\n",
			codes: []string{diagnostic.CodeInvalidConfig},
		},
		{
			name:  "duplicate 121 target",
			yaml:  "mappings:\n  - source: a.A\n    target: b.B\n    121: {X: Z, Y: Z}\n",
			codes: []string{diagnostic.CodeDuplicateTarget},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mf, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			res := Validate(mf)

			var codes []string
			for _, e := range res.Errors {
				codes = append(codes, e.Code)
			}

			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	res := Validate(nil)
	require.True(t, res.HasErrors())
	assert.ErrorContains(t, res.Error(), "mapping file is nil")
}

func TestMarshal_RoundTripsShorthand(t *testing.T) {
	mf := &MappingFile{
		Version: CurrentVersion,
		TypeMappings: []TypeMapping{{
			Source: "store.Order",
			Target: "warehouse.Order",
			Ignore: StringOrArray{"Signature"},
		}},
	}

	data, err := Marshal(mf)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ignore: Signature")
}
