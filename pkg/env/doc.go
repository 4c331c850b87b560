// Package env implements the persistent, copy-on-write environment that
// carries inherited state (segmentation policy, tolerance, current
// transform, material, and the other named settings) down through a scene
// graph. A child overlays its own bindings on top of its parent's; nothing
// is ever mutated in place.
package env
