package cli

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tesserapp/wireframe/pkg/color"
	"github.com/tesserapp/wireframe/pkg/config"
	"github.com/tesserapp/wireframe/pkg/geometry"
	"github.com/tesserapp/wireframe/pkg/render"
)

func newTestView(t *testing.T) *ViewModel {
	t.Helper()
	cfg := config.Default()
	m, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	v, err := NewViewModel(m, cfg.CameraValue())
	if err != nil {
		t.Fatalf("NewViewModel() error: %v", err)
	}
	return v
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewModelSyncsSliders(t *testing.T) {
	v := newTestView(t)
	if got := v.sliders[7].ctrl.Value(); got != 3.7 {
		t.Errorf("move q = %v, want 3.7 from the featured geometry", got)
	}

	v.Update(key("tab"))
	if v.selected().Name() != "Axis" {
		t.Fatalf("selected = %s, want Axis", v.selected().Name())
	}
	if got := v.sliders[7].ctrl.Value(); got != 0 {
		t.Errorf("move q = %v, want 0 for the axis", got)
	}
}

func TestViewModelAppliesSmoothedRotation(t *testing.T) {
	v := newTestView(t)
	for range 4 {
		v.Update(key("right")) // rot x += 0.05 each
	}
	g := v.selected()

	v.step(time.Now().Add(time.Second))
	var angle float64
	_ = v.Manager.View(func() error {
		angle = g.Rotation().Angle(geometry.PlaneX)
		return nil
	})
	if math.Abs(angle-0.2*math.Pi) > 1e-9 {
		t.Errorf("x rotation = %v, want %v", angle, 0.2*math.Pi)
	}
}

func TestViewModelKeys(t *testing.T) {
	v := newTestView(t)
	d := v.Camera.Distance

	v.Update(key("+"))
	if v.Camera.Distance >= d {
		t.Errorf("zoom in: distance %v, want < %v", v.Camera.Distance, d)
	}
	v.Update(key("g"))
	if !v.Manager.GridEnabled() {
		t.Error("g should enable the grid")
	}
	v.Update(key("down"))
	if v.Focus != 1 {
		t.Errorf("focus = %d, want 1", v.Focus)
	}
	if _, cmd := v.Update(key("q")); cmd == nil {
		t.Error("q should return a quit command")
	}

	v.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if !strings.Contains(v.View(), "Featured Geometry") {
		t.Error("view should name the selected geometry")
	}
}

func TestStyleCanvas(t *testing.T) {
	accent := color.DefaultTable().Resolve(color.Accent)
	c := &render.Canvas{Width: 4, Height: 1, Cells: [][]render.Cell{{
		{Rune: '*', Color: accent}, {Rune: '*', Color: accent}, {Rune: ' '}, {Rune: 'x'},
	}}}
	out := styleCanvas(c)
	if !strings.Contains(out, "**") || !strings.Contains(out, "x") {
		t.Errorf("styleCanvas() = %q", out)
	}
}
