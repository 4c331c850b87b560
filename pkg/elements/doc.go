// Package elements carries the auxiliary, non-geometric side-products
// that ride alongside a node through evaluation: named output parts,
// anchor transforms, tags, and the per-triangle material mapping CSG
// must preserve. Unlike the node algebra these are not hashed into a
// fingerprint; they are merged structurally as subtrees combine.
package elements
