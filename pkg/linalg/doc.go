// Package linalg provides the dimension-generic vectors and homogeneous
// matrices the wireframe engine is built on.
//
// # Conventions
//
// A [Vector] of dimension D is an ordered list of D real components. A
// [Matrix] of dimension D is a (D+1)×(D+1) homogeneous transform stored
// row-major. The package uses the row-vector convention: a point p is
// transformed as
//
//	p' = [p, 1] · M
//
// so the translation lives in row D and the product A·B applies A first.
// Composing a chain of transforms therefore reads left to right in the
// order they take effect:
//
//	model := rotation.Mul(translation) // rotate, then move
//
// # Building Transforms
//
// Matrices are usually built with the constructors [Identity], [Rotation],
// [Translation], [Scale], [Perspective] and [LookAt], or loaded in place
// with the matching Load* methods when the storage is owned elsewhere (see
// [View] and the arena package).
//
// # Errors
//
// Operations return errors from [github.com/tesserapp/wireframe/pkg/errors]:
// mismatched dimensions yield DIMENSION_MISMATCH, LookAt and Cross outside
// three dimensions yield UNSUPPORTED_DIMENSION, and normalizing a
// zero-length vector yields DEGENERATE_VECTOR. Element accessors panic on
// out-of-range indices like slice indexing does.
package linalg
