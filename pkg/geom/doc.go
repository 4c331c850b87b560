// Package geom provides the immutable value algebra that every other
// package in solidgraph is built on: vectors, directions, affine
// transforms, bounding boxes, angles, colors, planes, lines, and Bézier
// curves/paths/patches. Everything here is a plain value; nothing holds
// a reference to mutable state.
package geom
