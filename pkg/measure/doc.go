// Package measure implements spec.md §4.10: post-evaluation measurement
// and introspection over a concretized BuildResult3/BuildResult2 — bounds,
// volume, area, vertex/triangle counts — at a caller-chosen scope (the
// main node alone, the main node plus every solid part, or every
// cataloged part).
package measure
