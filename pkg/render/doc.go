// Package render turns projected frames into files and terminal output.
//
// # Overview
//
// A [pipeline.Frame] holds vertices in normalized device coordinates:
// x and y in [-1, 1] for everything inside the view, z in [0, 1] between
// the near and far plane. The sinks in this package map those coordinates
// onto a raster of a given size and draw every vertex pair as a line:
//
//	frame, _ := manager.Render(camera)
//	svg := render.SVG(frame, render.WithSize(800, 800))
//	png, err := render.PNG(frame, render.WithStrokeWidth(2))
//	txt := render.ASCII(frame, render.WithSize(80, 40)).String()
//	data, err := render.JSON(frame)
//
// Lines with an endpoint outside the depth range are dropped.
//
// # Hierarchy Diagrams
//
// [HierarchyDOT] describes the parent links of a scene's geometries as a
// Graphviz graph and [HierarchySVG] lays it out:
//
//	dot := render.HierarchyDOT(nodes, render.HierarchyOptions{Detailed: true})
//	svg, err := render.HierarchySVG(ctx, dot)
package render
