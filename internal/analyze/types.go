package analyze

import (
	"errors"
	"path"
	"reflect"
	"strings"
)

// TagKey is the struct tag consulted for field access rules.
const TagKey = "mapper"

// ErrNotStruct is returned when a shape is not a struct type.
var ErrNotStruct = errors.New("shape is not a struct type")

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "instant-mapper/store"
	Name    string // e.g., "Order"
}

// IDOf returns the TypeID of t. Unnamed types use their reflect string as name.
func IDOf(t reflect.Type) TypeID {
	if t == nil {
		return TypeID{}
	}

	if t.Name() == "" {
		return TypeID{Name: t.String()}
	}

	return TypeID{PkgPath: t.PkgPath(), Name: t.Name()}
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the "<package alias>.<Name>" form, e.g. "store.Order".
func (t TypeID) Short() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return path.Base(t.PkgPath) + "." + t.Name
}

// Matches reports whether ref names this type, either by its full
// import path form or by its short form.
func (t TypeID) Matches(ref string) bool {
	ref = strings.TrimSpace(ref)

	return ref != "" && (ref == t.String() || ref == t.Short())
}

// TypeInfo describes a struct shape and its mappable fields.
type TypeInfo struct {
	ID     TypeID       // Unique identifier
	Type   reflect.Type // The struct type itself
	Fields []FieldInfo  // Mappable fields in declaration order
}

// Field returns the field with the given Go name, or nil.
func (t *TypeInfo) Field(name string) *FieldInfo {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}

	return nil
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Key      string            // Name used for matching (tag rename applied)
	Type     reflect.Type      // Field value type
	Tag      reflect.StructTag // Raw struct tag
	Index    []int             // Index sequence for reflect.Value.FieldByIndex
	Readable bool              // May be read when the shape is a source
	Writable bool              // May be written when the shape is a destination
	Promoted bool              // Promoted from an embedded struct
}
