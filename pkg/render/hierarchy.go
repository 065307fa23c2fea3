package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/tesserapp/wireframe/pkg/geometry"
)

// Node is one geometry in a hierarchy diagram.
type Node struct {
	ID        string
	Name      string
	Parent    string // ID of the parent, empty for roots
	Dim       int
	Slot      int // model-matrix slot, -1 when unregistered
	Positions int
	Lines     int
}

// Nodes describes geometries for [HierarchyDOT]. Geometries must not be
// modified concurrently.
func Nodes(geoms []*geometry.Geometry) []Node {
	nodes := make([]Node, 0, len(geoms))
	for _, g := range geoms {
		n := Node{
			ID:        g.ID().String(),
			Name:      g.Name(),
			Dim:       g.Dim(),
			Slot:      -1,
			Positions: len(g.Positions()),
			Lines:     len(g.Lines()),
		}
		if p := g.Parent(); p != nil {
			n.Parent = p.ID().String()
		}
		if slot, err := g.ModelIndex(); err == nil {
			n.Slot = slot
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// HierarchyOptions configures [HierarchyDOT].
type HierarchyOptions struct {
	// Detailed adds dimension, slot and line counts to node labels.
	Detailed bool
}

// HierarchyDOT converts parent links to Graphviz DOT with edges from
// parent to child. Parents outside nodes are drawn dashed.
func HierarchyDOT(nodes []Node, opts HierarchyOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, nodeLabel(n, opts.Detailed))
	}
	for _, n := range nodes {
		if n.Parent != "" && !known[n.Parent] {
			known[n.Parent] = true
			fmt.Fprintf(&buf, "  %q [label=\"?\", style=\"rounded,dashed\"];\n", n.Parent)
		}
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		if n.Parent != "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.Parent, n.ID)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n Node, detailed bool) string {
	if !detailed {
		return n.Name
	}
	slot := "-"
	if n.Slot >= 0 {
		slot = fmt.Sprint(n.Slot)
	}
	parts := []string{
		n.Name,
		fmt.Sprintf("%dD, slot %s", n.Dim, slot),
		fmt.Sprintf("%d positions, %d lines", n.Positions, n.Lines),
	}
	return strings.Join(parts, "\n")
}

// HierarchySVG lays out a DOT graph with Graphviz.
func HierarchySVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
