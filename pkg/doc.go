// Package pkg provides the core libraries for Tesserapp, a wireframe engine
// for three- and four-dimensional geometry.
//
// # Overview
//
// Tesserapp keeps a scene of wireframe geometries, each with its own
// rotation and translation, composes their model matrices along a parent
// hierarchy and projects every line through an orbiting camera. Four
// dimensional geometries are first reduced to three dimensions by a
// pluggable visualizer. The pkg directory is organized into four areas:
//
//  1. Math - [linalg] vectors and homogeneous matrices
//  2. Scene - [geometry], [scene] and the [arena] of model matrices
//  3. Projection - [pipeline], [visualize] and [color]
//  4. Output - [render], [cache] and [config]
//
// # Architecture
//
// The data flow of one frame:
//
//	[config] scene file (TOML)
//	         ↓
//	    [geometry] shapes, transforms, parent links
//	         ↓
//	    [scene] registration, model matrix composition
//	         ↓
//	    [pipeline] model → visualize → view → projection → divide
//	         ↓
//	    [render] SVG/PNG/JSON/text, optionally through [cache]
//
// # Quick Start
//
// Build a scene with one tesseract and render it:
//
//	import (
//	    "github.com/tesserapp/wireframe/pkg/pipeline"
//	    "github.com/tesserapp/wireframe/pkg/render"
//	    "github.com/tesserapp/wireframe/pkg/scene"
//	)
//
//	m, _ := scene.New()
//	g, _ := m.NewGeometry("tesseract", 4)
//	_ = g.Tesseract(1)
//	_ = m.Register(g)
//
//	frame, _ := m.Render(pipeline.DefaultCamera())
//	svg := render.SVG(frame)
//
// # Main Packages
//
// ## Math
//
// [linalg] - Vectors and (D+1)×(D+1) homogeneous matrices in row-vector
// convention: rotations, translations, look-at views, perspective
// projection and inversion.
//
// ## Scene
//
// [geometry] - A named wireframe with positions, lines, color symbols and a
// transform. Geometries form a parent hierarchy and report every change
// through a batched [geometry.Notifier].
//
// [arena] - Fixed-stride storage for model matrices with slot reuse. Every
// registered geometry owns one slot.
//
// [scene] - The manager that owns the arena, registers geometries, walks the
// hierarchy parent-first and rewrites the vertex buffers when the scene
// changed. All access is serialized by one lock.
//
// [buffer] - Growable float buffers with a fixed component count, uploaded
// as-is to renderers.
//
// ## Projection
//
// [pipeline] - The camera and the projector that turns model matrices into
// normalized device coordinates.
//
// [visualize] - Strategies that reduce four-dimensional points to three
// dimensions: dropping q, perspective along q, or an oblique offset.
//
// [color] - Color symbols (primary, accent, axes, grid) and the tables that
// resolve them to RGB.
//
// [control] - Ranged controllers and time-based easing used by interactive
// front ends.
//
// ## Output
//
// [render] - Frame encoders (SVG, PNG, JSON, text canvas) and Graphviz
// diagrams of the geometry hierarchy.
//
// [cache] - Content-addressed storage of encoded frames: in memory, on disk
// or in Redis.
//
// [config] - TOML scene files and the built-in default scene.
//
// ## Infrastructure
//
// [errors] - Error codes shared by every package.
//
// [observability] - Hooks for logging and metrics around registration and
// frames.
//
// [buildinfo] - Version information injected at build time.
//
// [linalg]: https://pkg.go.dev/github.com/tesserapp/wireframe/pkg/linalg
// [geometry]: https://pkg.go.dev/github.com/tesserapp/wireframe/pkg/geometry
// [geometry.Notifier]: https://pkg.go.dev/github.com/tesserapp/wireframe/pkg/geometry#Notifier
// [arena]: https://pkg.go.dev/github.com/tesserapp/wireframe/pkg/arena
// [scene]: https://pkg.go.dev/github.com/tesserapp/wireframe/pkg/scene
// [buffer]: https://pkg.go.dev/github.com/tesserapp/wireframe/pkg/buffer
// [pipeline]: https://pkg.go.dev/github.com/tesserapp/wireframe/pkg/pipeline
// [visualize]: https://pkg.go.dev/github.com/tesserapp/wireframe/pkg/visualize
// [color]: https://pkg.go.dev/github.com/tesserapp/wireframe/pkg/color
// [control]: https://pkg.go.dev/github.com/tesserapp/wireframe/pkg/control
// [render]: https://pkg.go.dev/github.com/tesserapp/wireframe/pkg/render
// [cache]: https://pkg.go.dev/github.com/tesserapp/wireframe/pkg/cache
// [config]: https://pkg.go.dev/github.com/tesserapp/wireframe/pkg/config
// [errors]: https://pkg.go.dev/github.com/tesserapp/wireframe/pkg/errors
// [observability]: https://pkg.go.dev/github.com/tesserapp/wireframe/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/tesserapp/wireframe/pkg/buildinfo
package pkg
