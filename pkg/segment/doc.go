// Package segment converts a segmentation policy (fixed count, or
// adaptive angle/size bounds) into concrete segment counts for circles,
// arcs, and lengths. Every function here is pure: the same policy and
// measurement always produce the same count, so two subtrees built under
// equivalent policies fingerprint identically.
package segment
