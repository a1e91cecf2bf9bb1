// Package accessor builds field getters, field setters and shape
// constructors on top of reflection.
//
// Every function is built once per field and reused for every mapping call.
package accessor

import (
	"reflect"

	"instant-mapper/internal/analyze"
)

// Getter reads one field of a struct value.
type Getter func(instance reflect.Value) reflect.Value

// Setter writes one field of an addressable struct value.
type Setter func(instance, value reflect.Value)

// Constructor returns a pointer to a new zero instance of a shape.
type Constructor func() reflect.Value

// Reflect is the reflection-backed accessor factory.
type Reflect struct{}

// Getter returns a read operation for the field.
func (Reflect) Getter(field analyze.FieldInfo) Getter {
	if len(field.Index) == 1 {
		i := field.Index[0]

		return func(instance reflect.Value) reflect.Value {
			return instance.Field(i)
		}
	}

	index := field.Index

	return func(instance reflect.Value) reflect.Value {
		return instance.FieldByIndex(index)
	}
}

// Setter returns a write operation for the field.
// The instance passed to it must be addressable.
func (Reflect) Setter(field analyze.FieldInfo) Setter {
	if len(field.Index) == 1 {
		i := field.Index[0]

		return func(instance, value reflect.Value) {
			instance.Field(i).Set(value)
		}
	}

	index := field.Index

	return func(instance, value reflect.Value) {
		instance.FieldByIndex(index).Set(value)
	}
}

// Constructor returns a construction operation for the shape t.
func (Reflect) Constructor(t reflect.Type) Constructor {
	return func() reflect.Value {
		return reflect.New(t)
	}
}
