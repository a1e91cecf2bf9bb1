// Package analyze extracts shape descriptors from Go struct types.
//
// It walks a struct with reflection once and produces the field list the
// mapper works from: which fields exist, in which order, and whether each
// one may be read from or written to.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: a struct type together with its mappable fields
//   - FieldInfo: describes field name, matching key, type, index and access
//
// Field access is controlled with the `mapper` struct tag:
//
//	Name   string `mapper:"-"`          // never mapped
//	ID     string `mapper:"Key"`        // matched as "Key"
//	Total  int64  `mapper:",readonly"`  // read as a source, never written
//	Secret string `mapper:",writeonly"` // written as a destination, never read
package analyze
