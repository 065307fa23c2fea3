package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/geometry"
	"github.com/tesserapp/wireframe/pkg/linalg"
	"github.com/tesserapp/wireframe/pkg/scene"
)

type inspectOpts struct {
	scene  sceneOpts
	matrix string // geometry whose model matrix is printed
}

// inspectCommand lists the geometries of a scene and, on request, prints a
// model matrix.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List the geometries of a scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, &opts)
		},
	}
	opts.scene.addFlags(cmd)
	cmd.Flags().StringVar(&opts.matrix, "matrix", "", "print the model matrix of the named geometry")
	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, opts *inspectOpts) error {
	m, cam, err := c.loadScene(cmd, &opts.scene)
	if err != nil {
		return err
	}
	stats, err := m.Frame(cam)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	geoms := m.Geometries()
	var rows [][]string
	err = m.View(func() error {
		for _, g := range geoms {
			rows = append(rows, geometryRow(g))
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, StyleTitle.Render("Scene"))
	printKeyValue(out, "dimension", fmt.Sprintf("%dD", m.Dim()))
	printKeyValue(out, "geometries", StyleNumber.Render(fmt.Sprint(len(geoms))))
	printKeyValue(out, "vertices", StyleNumber.Render(fmt.Sprint(stats.Vertices)))
	printKeyValue(out, "camera", fmt.Sprintf("d=%s h=%s v=%s",
		linalg.FormatNumber(cam.Distance), linalg.FormatNumber(cam.Horizontal), linalg.FormatNumber(cam.Vertical)))
	fmt.Fprintln(out)
	fmt.Fprintln(out, geometryTable(rows))

	if opts.matrix == "" {
		return nil
	}
	return printModelMatrix(cmd, m, opts.matrix)
}

func geometryRow(g *geometry.Geometry) []string {
	slot := "-"
	if s, err := g.ModelIndex(); err == nil {
		slot = fmt.Sprint(s)
	}
	parent := "-"
	if p := g.Parent(); p != nil {
		parent = p.Name()
	}
	r := g.Rotation()
	rot := make([]string, 0, 4)
	for _, p := range geometry.Planes {
		if p == geometry.PlaneQ && !g.FourDimensional() {
			continue
		}
		rot = append(rot, linalg.FormatNumber(r.Angle(p)))
	}
	return []string{
		g.Name(),
		g.ID().String()[:8],
		fmt.Sprintf("%dD", g.Dim()),
		slot,
		fmt.Sprint(len(g.Positions())),
		fmt.Sprint(len(g.Lines())),
		parent,
		strings.Join(rot, " "),
		g.Translation().String(),
	}
}

func geometryTable(rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "ID", "Dim", "Slot", "Positions", "Lines", "Parent", "Rotation", "Translation").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 0:
				return StyleValue.Bold(true)
			case col == 1:
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func printModelMatrix(cmd *cobra.Command, m *scene.Manager, name string) error {
	g, ok := m.Lookup(name)
	if !ok {
		return wferr.New(wferr.CodeNotRegistered, "no geometry named %q", name)
	}
	var text string
	err := m.View(func() error {
		mat, err := g.GlobalMatrix()
		if err != nil {
			return err
		}
		text = mat.String()
		return nil
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, StyleTitle.Render("Model matrix of "+name))
	fmt.Fprintln(out, text)
	return nil
}
