// Package geometry models drawable wireframe objects in three or four
// dimensions.
//
// A [Geometry] is a list of positions plus a list of [Line]s connecting
// pairs of them. Each line carries a symbolic color from the color
// package. Geometries form a forest: a child's model matrix is its own
// local transform followed by its parent's global transform.
//
// # Lifecycle
//
// A new geometry can be shaped freely (positions, lines, colors,
// extrusion). Transform and hierarchy operations need a model matrix, which
// the geometry gets by [Geometry.Register]ing with a shared arena buffer;
// until then they fail with NOT_REGISTERED. [Geometry.Unregister] returns
// the slot to the buffer.
//
//	g, _ := geometry.New("cube", 4, geometry.WithColor(color.Accent))
//	_ = g.Cube(2)
//	_ = g.Register(buf)
//	_ = g.SetRotation(geometry.PlaneQ, math.Pi/4)
//	_ = g.ComputeModelMatrix()
//
// # Transforms
//
// Rotations are stored as one angle per plane. The X, Y and Z angles turn
// the YZ, ZX and XY planes; Q turns q toward x and exists only in four
// dimensions. The local transform is
//
//	R_X · R_Y · R_Z · R_Q · T
//
// in the row-vector convention of the linalg package, so the X rotation is
// applied first and the translation last.
//
// # Notifications
//
// Every geometry reports changes through a [Notifier]. Shape mutations
// raise [GeometryChanged], parent changes raise [HierarchyChanged] and
// transform setters raise [TransformChanged]. [Geometry.Batch] groups
// several mutations into one notification per kind. Geometries created
// with [WithNotifier] share a notifier, which lets one batch span many
// geometries.
//
// Geometries are not safe for concurrent use; the scene manager provides
// the lock.
package geometry
