// Package eval implements the evaluation engine (spec.md §4.7): the
// asynchronous, deduplicating lowering of GeometryNode values to kernel
// concretes, with at-most-one computation per fingerprint. It is the
// concrete implementation of geometry.EvaluationContext; pkg/geometry
// defines that interface instead of importing this package directly to
// avoid the import cycle a two-way dependency would create (geometry
// builds nodes the engine lowers; the engine builds geometries the
// caller handed it).
package eval
