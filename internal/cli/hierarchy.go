package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tesserapp/wireframe/pkg/render"
)

type hierarchyOpts struct {
	scene    sceneOpts
	output   string
	format   string // dot or svg
	detailed bool
}

// hierarchyCommand draws the parent links of a scene with Graphviz.
func (c *CLI) hierarchyCommand() *cobra.Command {
	opts := hierarchyOpts{format: "svg"}
	cmd := &cobra.Command{
		Use:   "hierarchy",
		Short: "Draw the geometry hierarchy of a scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHierarchy(cmd, &opts)
		},
	}
	opts.scene.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, stdout when empty")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show dimension, slot and line counts")
	return cmd
}

func (c *CLI) runHierarchy(cmd *cobra.Command, opts *hierarchyOpts) error {
	if opts.format != "svg" && opts.format != "dot" {
		return fmt.Errorf("invalid format: %s (must be 'svg' or 'dot')", opts.format)
	}
	prog := newProgress(c.Logger, "hierarchy")

	m, _, err := c.loadScene(cmd, &opts.scene)
	if err != nil {
		return err
	}
	geoms := m.Geometries()
	var nodes []render.Node
	_ = m.View(func() error {
		nodes = render.Nodes(geoms)
		return nil
	})

	dot := render.HierarchyDOT(nodes, render.HierarchyOptions{Detailed: opts.detailed})
	data := []byte(dot)
	if opts.format == "svg" {
		c.Logger.Debug("laying out hierarchy", "nodes", len(nodes))
		if data, err = render.HierarchySVG(cmd.Context(), dot); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if opts.output == "" {
		_, err := out.Write(data)
		return err
	}
	path := opts.output
	if filepath.Ext(path) == "" {
		path += "." + opts.format
	}
	if err := writeFile(cmd.Context(), path, data); err != nil {
		return err
	}
	prog.done("geometries", len(nodes), "format", opts.format)
	printSuccess(out, "hierarchy written")
	printFile(out, path)
	return nil
}
