// Package export assembles a build's concretized geometry and part
// catalog into the neutral tuples spec.md §4.11 describes
// ((MeshGL, materialMapping, partIdentity) per part) and hands them to
// one of three format-specific writers: binary STL (stl.go), 3MF
// (threemf.go, via github.com/hpinc/go3mf), or SVG for 2D builds
// (svg.go, via github.com/ajstarks/svgo). Assembling is format-agnostic
// (assemble.go); each writer only decides which parts to include and how
// to serialize the tuples it is handed.
package export
