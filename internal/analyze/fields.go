package analyze

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

var cache sync.Map // reflect.Type -> *TypeInfo

// Analyze returns the shape descriptor of the struct type t.
// Results are cached per type; the returned value must not be modified.
func Analyze(t reflect.Type) (*TypeInfo, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v", ErrNotStruct, t)
	}

	if info, ok := cache.Load(t); ok {
		return info.(*TypeInfo), nil
	}

	info := &TypeInfo{
		ID:     IDOf(t),
		Type:   t,
		Fields: Fields(t),
	}

	actual, _ := cache.LoadOrStore(t, info)

	return actual.(*TypeInfo), nil
}

// Fields enumerates the exported instance fields of a struct type, including
// fields promoted from embedded structs, in declaration order.
// Fields hidden behind embedded pointers are skipped since reaching them
// would require allocating or dereferencing on every access.
func Fields(t reflect.Type) []FieldInfo {
	var fields []FieldInfo

	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}

		if behindPointer(t, sf.Index) {
			continue
		}

		name, opts, skip := parseTag(sf.Tag.Get(TagKey))
		if skip {
			continue
		}

		field := FieldInfo{
			Name:     sf.Name,
			Key:      sf.Name,
			Type:     sf.Type,
			Tag:      sf.Tag,
			Index:    sf.Index,
			Readable: !opts.writeOnly,
			Writable: !opts.readOnly,
			Promoted: len(sf.Index) > 1,
		}

		if name != "" {
			field.Key = name
		}

		fields = append(fields, field)
	}

	return fields
}

// behindPointer reports whether any embedded step on the way to the field is a pointer.
func behindPointer(t reflect.Type, index []int) bool {
	for i := 1; i < len(index); i++ {
		if t.FieldByIndex(index[:i]).Type.Kind() == reflect.Pointer {
			return true
		}
	}

	return false
}

type tagOptions struct {
	readOnly  bool
	writeOnly bool
}

// parseTag splits `mapper:"name,opt,..."`. skip is true for "-".
func parseTag(tag string) (name string, opts tagOptions, skip bool) {
	if tag == "-" {
		return "", opts, true
	}

	parts := strings.Split(tag, ",")
	name = strings.TrimSpace(parts[0])

	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "readonly":
			opts.readOnly = true
		case "writeonly":
			opts.writeOnly = true
		}
	}

	return name, opts, false
}
