// Package mapper copies values between struct types whose fields overlap by name.
//
// A mapping is compiled once per (source, destination) type pair into an
// immutable Plan and stored in a Factory. Later calls look the plan up by the
// pair and run it, either with static types through the generic functions or
// with runtime types through the untyped ones:
//
//	f, _ := mapper.New()
//	_ = mapper.Register[store.Order, warehouse.Order](f)
//
//	order, err := mapper.Map[store.Order, warehouse.Order](f, &in)
//	order, err = mapper.MapAs[warehouse.Order](f, anyValue)
//	err = f.MapInto(anySource, &existing)
//
// Fields match by name ignoring case. When field types differ a converter is
// looked up; fields that cannot be converted are left out of the plan.
// A nil source is never an error: it maps to nil, or leaves the destination
// untouched. Calling with a pair that was never registered fails with
// ErrMappingNotRegistered and does not touch the destination.
//
// A Factory counts registrations, lookups and dropped fields in a metricz
// registry (Metrics), records a tracez span per compiled plan (Tracer) and
// emits a hookz event for every stored pair (OnRegistered).
package mapper
