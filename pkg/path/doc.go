// Package path computes sweep frames along a geom.Path3 (spec.md §4.9):
// a local basis at each sample point, carried forward by parallel
// transport, rolled so a chosen reference direction tracks a target,
// twist-damped, and (for adaptive segmentation) pruned along straight
// runs. pkg/geom already holds the path/curve value types themselves
// (Path3, BezierCurve3) — this package is the algorithm layered on top,
// grounded the same way pkg/segment layers a policy on top of pkg/geom's
// bare arithmetic.
package path
