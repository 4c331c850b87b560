//go:build !manifold

// Package manifold provides a CGo-based geometry kernel binding to the
// Manifold library. When the "manifold" build tag is not set, this stub
// package is compiled instead, returning an error from New3() and New2().
//
// Build with: go build -tags=manifold
package manifold

import "errors"

var errUnavailable = errors.New("manifold kernel not available: build with -tags=manifold")

// Kernel3 is the stub compiled without the "manifold" build tag.
type Kernel3 struct{}

// New3 returns an error indicating Manifold is not available.
// Build with -tags=manifold to enable.
func New3() (*Kernel3, error) { return nil, errUnavailable }

// Kernel2 is the stub compiled without the "manifold" build tag.
type Kernel2 struct{}

// New2 returns an error indicating Manifold is not available.
// Build with -tags=manifold to enable.
func New2() (*Kernel2, error) { return nil, errUnavailable }
