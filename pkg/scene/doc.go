// Package scene defines the immutable geometry node DAG: GeometryNode
// values for the 2D and 3D families, built exclusively through smart
// constructors that normalize trivial cases (identity transforms,
// singleton/empty booleans) so that two structurally equivalent subtrees
// always produce the same node value and the same fingerprint.
package scene
