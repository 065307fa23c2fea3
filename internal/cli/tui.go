package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tesserapp/wireframe/pkg/control"
	"github.com/tesserapp/wireframe/pkg/geometry"
	"github.com/tesserapp/wireframe/pkg/pipeline"
	"github.com/tesserapp/wireframe/pkg/render"
	"github.com/tesserapp/wireframe/pkg/scene"
)

// Panel styles
var (
	panelSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	panelNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	panelDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	panelStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

const (
	panelWidth   = 34
	tickInterval = time.Second / 30
	orbitStep    = math.Pi / 36
	zoomStep     = 1.1
	sliderWidth  = 12
)

// viewCommand opens an interactive terminal view of a scene.
func (c *CLI) viewCommand() *cobra.Command {
	var opts sceneOpts
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Explore a scene interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, cam, err := c.loadScene(cmd, &opts)
			if err != nil {
				return err
			}
			model, err := NewViewModel(m, cam)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	opts.addFlags(cmd)
	return cmd
}

// =============================================================================
// ViewModel - Interactive scene controller
// =============================================================================

// slider is one controller with the smoothed value it drives.
type slider struct {
	ctrl   *control.Controller
	smooth *control.Smoothed
	apply  func(g *geometry.Geometry, v float64) error
}

type tickMsg time.Time

// ViewModel is the bubbletea model for the view command. Rotation
// controllers are in units of π like the original seek bars.
type ViewModel struct {
	Manager  *scene.Manager
	Camera   pipeline.Camera
	Selected int
	Focus    int
	Width    int
	Height   int

	geoms   []*geometry.Geometry
	sliders []*slider
	canvas  *render.Canvas
	err     error
}

// NewViewModel creates a view over every geometry of m.
func NewViewModel(m *scene.Manager, cam pipeline.Camera) (*ViewModel, error) {
	v := &ViewModel{Manager: m, Camera: cam, Width: 100, Height: 30}
	v.refreshGeometries()

	specs := []struct {
		name     string
		min, max float64
		step     float64
		apply    func(g *geometry.Geometry, v float64) error
	}{
		{"rot x", -1, 1, 0.05, rotation(geometry.PlaneX)},
		{"rot y", -1, 1, 0.05, rotation(geometry.PlaneY)},
		{"rot z", -1, 1, 0.05, rotation(geometry.PlaneZ)},
		{"rot q", -1, 1, 0.05, rotation(geometry.PlaneQ)},
		{"move x", -5, 5, 0.1, translation(geometry.AxisX)},
		{"move y", -5, 5, 0.1, translation(geometry.AxisY)},
		{"move z", -5, 5, 0.1, translation(geometry.AxisZ)},
		{"move q", -5, 5, 0.1, translation(geometry.AxisQ)},
	}
	for _, s := range specs {
		sl := &slider{smooth: control.NewSmoothed(0, control.DefaultTransition), apply: s.apply}
		ctrl, err := control.NewController(s.name, s.min, s.max, 0, s.step, func(val float64) {
			sl.smooth.Set(val, time.Now())
		})
		if err != nil {
			return nil, err
		}
		sl.ctrl = ctrl
		v.sliders = append(v.sliders, sl)
	}
	v.syncSliders()
	v.redraw()
	return v, nil
}

func rotation(p geometry.Plane) func(*geometry.Geometry, float64) error {
	return func(g *geometry.Geometry, v float64) error {
		if p == geometry.PlaneQ && !g.FourDimensional() {
			return nil
		}
		return g.SetRotation(p, v*math.Pi)
	}
}

func translation(axis int) func(*geometry.Geometry, float64) error {
	return func(g *geometry.Geometry, v float64) error {
		if axis >= g.Dim() {
			return nil
		}
		return g.SetTranslation(axis, v)
	}
}

func (v *ViewModel) selected() *geometry.Geometry {
	if len(v.geoms) == 0 {
		return nil
	}
	return v.geoms[v.Selected%len(v.geoms)]
}

// refreshGeometries lists the controllable geometries; the grid is not one.
func (v *ViewModel) refreshGeometries() {
	v.geoms = v.geoms[:0]
	for _, g := range v.Manager.Geometries() {
		if g.Name() != scene.GridName {
			v.geoms = append(v.geoms, g)
		}
	}
}

// syncSliders moves the sliders to the selected geometry's transform
// without easing.
func (v *ViewModel) syncSliders() {
	g := v.selected()
	if g == nil {
		return
	}
	var values [8]float64
	_ = v.Manager.View(func() error {
		r := g.Rotation()
		t := g.Translation()
		for i, p := range geometry.Planes {
			values[i] = math.Remainder(r.Angle(p)/math.Pi, 2)
		}
		for axis := range min(len(t), 4) {
			values[4+axis] = t[axis]
		}
		return nil
	})
	for i, sl := range v.sliders {
		sl.ctrl.Set(values[i])
		sl.smooth = control.NewSmoothed(sl.ctrl.Value(), control.DefaultTransition)
	}
}

// step applies the eased slider values to the selected geometry.
func (v *ViewModel) step(now time.Time) {
	g := v.selected()
	if g == nil {
		return
	}
	v.err = v.Manager.Update(func() error {
		for _, sl := range v.sliders {
			if err := sl.apply(g, sl.smooth.Value(now)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (v *ViewModel) canvasSize() (w, h int) {
	return max(v.Width-panelWidth-2, 10), max(v.Height-2, 5)
}

func (v *ViewModel) redraw() {
	w, h := v.canvasSize()
	cam := v.Camera
	cam.AspectRatio = float64(w) / float64(2*h)
	frame, err := v.Manager.Render(cam)
	if err != nil {
		v.err = err
		return
	}
	v.canvas = render.ASCII(frame, render.WithSize(w, h))
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (v *ViewModel) Init() tea.Cmd {
	return tick()
}

func (v *ViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return v, tea.Quit
		case "tab":
			if len(v.geoms) > 0 {
				v.Selected = (v.Selected + 1) % len(v.geoms)
				v.syncSliders()
			}
		case "up", "k":
			if v.Focus > 0 {
				v.Focus--
			}
		case "down", "j":
			if v.Focus < len(v.sliders)-1 {
				v.Focus++
			}
		case "left", "h":
			v.sliders[v.Focus].ctrl.Step(-1)
		case "right", "l":
			v.sliders[v.Focus].ctrl.Step(1)
		case "0":
			v.sliders[v.Focus].ctrl.Set(0)
		case "a":
			v.Camera = v.Camera.Orbit(-orbitStep, 0)
		case "d":
			v.Camera = v.Camera.Orbit(orbitStep, 0)
		case "w":
			v.Camera = v.Camera.Orbit(0, orbitStep)
		case "s":
			v.Camera = v.Camera.Orbit(0, -orbitStep)
		case "+", "=":
			v.Camera = v.Camera.Zoom(1 / zoomStep)
		case "-":
			v.Camera = v.Camera.Zoom(zoomStep)
		case "g":
			v.err = v.Manager.EnableGrid(!v.Manager.GridEnabled())
		}
		v.redraw()
	case tea.WindowSizeMsg:
		v.Width, v.Height = msg.Width, msg.Height
		v.redraw()
	case tickMsg:
		v.step(time.Time(msg))
		v.redraw()
		return v, tick()
	}
	return v, nil
}

func (v *ViewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName))
	b.WriteString("\n")
	if g := v.selected(); g != nil {
		b.WriteString(panelNormalStyle.Render(g.Name()))
		b.WriteString(panelDimStyle.Render(fmt.Sprintf("  %dD  [%d/%d]", g.Dim(), v.Selected%len(v.geoms)+1, len(v.geoms))))
	}
	b.WriteString("\n\n")

	for i, sl := range v.sliders {
		cursor := "  "
		style := panelNormalStyle
		if i == v.Focus {
			cursor = "▸ "
			style = panelSelectedStyle
		}
		filled := int(math.Round(sl.ctrl.Normalized() * sliderWidth))
		bar := strings.Repeat("━", filled) + panelDimStyle.Render(strings.Repeat("─", sliderWidth-filled))
		b.WriteString(cursor + style.Render(fmt.Sprintf("%-7s", sl.ctrl.Name())) + " " + bar + " " + StyleNumber.Render(fmt.Sprintf("%5.2f", sl.ctrl.Value())))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(panelDimStyle.Render(fmt.Sprintf("camera d=%.2f h=%.2f v=%.2f", v.Camera.Distance, v.Camera.Horizontal, v.Camera.Vertical)))
	b.WriteString("\n")
	grid := "off"
	if v.Manager.GridEnabled() {
		grid = "on"
	}
	b.WriteString(panelDimStyle.Render(fmt.Sprintf("grid %s  vertices %d", grid, v.Manager.VertexCount())))
	b.WriteString("\n\n")
	b.WriteString(panelDimStyle.Render("tab geometry  ↑/↓ control  ←/→ adjust\n0 reset  wasd orbit  +/- zoom\ng grid  q quit"))
	if v.err != nil {
		b.WriteString("\n\n" + styleIconError.Render(iconError+" "+v.err.Error()))
	}

	panel := panelStyle.Width(panelWidth - 4).Render(b.String())
	canvas := ""
	if v.canvas != nil {
		canvas = styleCanvas(v.canvas)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panel, canvas)
}
