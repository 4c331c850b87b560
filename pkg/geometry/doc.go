// Package geometry defines the composable Geometry3/Geometry2 protocol
// (spec.md §4.6): a value implementing Build lowers itself to a node
// plus auxiliary elements given an Environment and an EvaluationContext.
// The built-in combinators here (NodeBasedGeometry, EnvironmentModifier,
// PushEnvironment, GeometryExpressionTransformer,
// CachingPrimitiveTransformer, Measure, ReadPrimitive,
// CachedBoxedGeometry) are the primitive vocabulary every higher-level
// shape/transform/boolean constructor is expressed in terms of.
//
// EvaluationContext is declared here rather than in pkg/eval so that this
// package never imports its implementation: pkg/eval imports pkg/geometry
// (to build the Geometry values a design produces), and a Geometry's
// Build method needs a context to call back into the engine, so the
// context's shape has to live on this side of that edge.
package geometry
