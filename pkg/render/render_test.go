package render

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/tesserapp/wireframe/pkg/color"
	"github.com/tesserapp/wireframe/pkg/pipeline"
)

func testFrame() pipeline.Frame {
	accent := color.DefaultTable().Resolve(color.Accent)
	x := color.DefaultTable().Resolve(color.AxisX)
	return pipeline.Frame{
		Camera: pipeline.DefaultCamera(),
		Vertices: []pipeline.Vertex{
			// Horizontal line through the centre.
			{Position: [3]float64{-0.5, 0, 0.5}, Color: accent, Symbol: color.Accent},
			{Position: [3]float64{0.5, 0, 0.5}, Color: accent, Symbol: color.Accent},
			// Vertical line on the left edge.
			{Position: [3]float64{-1, 1, 0.5}, Color: x, Symbol: color.AxisX, ModelIndex: 1},
			{Position: [3]float64{-1, -1, 0.5}, Color: x, Symbol: color.AxisX, ModelIndex: 1},
			// Behind the camera.
			{Position: [3]float64{0, 0, -0.5}, Color: x, Symbol: color.AxisX},
			{Position: [3]float64{0, 1, 0.5}, Color: x, Symbol: color.AxisX},
		},
	}
}

func TestToRaster(t *testing.T) {
	tests := []struct {
		p      [3]float64
		wx, wy float64
	}{
		{[3]float64{-1, 1, 0}, 0, 0},
		{[3]float64{1, -1, 0}, 100, 50},
		{[3]float64{0, 0, 0}, 50, 25},
	}
	for _, tt := range tests {
		x, y := toRaster(tt.p, 100, 50)
		if x != tt.wx || y != tt.wy {
			t.Errorf("toRaster(%v) = (%v, %v), want (%v, %v)", tt.p, x, y, tt.wx, tt.wy)
		}
	}
}

func TestSVG(t *testing.T) {
	svg := string(SVG(testFrame(), WithSize(200, 100), WithBackground(color.RGB{R: 1, G: 1, B: 1})))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 100"`) {
		t.Errorf("unexpected header: %.80s", svg)
	}
	if got := strings.Count(svg, "<line "); got != 2 {
		t.Errorf("line count = %d, want 2 (clipped line dropped)", got)
	}
	if !strings.Contains(svg, `x1="50.00" y1="50.00" x2="150.00" y2="50.00" stroke="#ff5722"`) {
		t.Errorf("centre line missing:\n%s", svg)
	}
	if !strings.Contains(svg, `fill="#ffffff"`) {
		t.Error("background missing")
	}
}

func TestPNG(t *testing.T) {
	data, err := PNG(testFrame(), WithSize(64, 32), WithStrokeWidth(2))
	if err != nil {
		t.Fatalf("PNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Fatalf("bounds = %v, want 64x32", b)
	}

	// The centre line runs along y = 16 from x = 16 to x = 48.
	_, _, _, a := img.At(32, 16).RGBA()
	if a == 0 {
		t.Error("pixel on centre line is transparent")
	}
	_, _, _, a = img.At(32, 4).RGBA()
	if a != 0 {
		t.Error("pixel away from all lines is painted")
	}
}

func TestJSON(t *testing.T) {
	data, err := JSON(testFrame())
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Vertices != 6 {
		t.Errorf("Vertices = %d, want 6", out.Vertices)
	}
	if len(out.Lines) != 3 {
		t.Fatalf("Lines = %d, want 3", len(out.Lines))
	}
	if out.Lines[0].Color != "#ff5722" || out.Lines[0].Symbol != "accent" {
		t.Errorf("Lines[0] color = %s/%s, want #ff5722/accent", out.Lines[0].Color, out.Lines[0].Symbol)
	}
	if out.Lines[1].Model != 1 {
		t.Errorf("Lines[1].Model = %d, want 1", out.Lines[1].Model)
	}
}

func TestASCII(t *testing.T) {
	c := ASCII(testFrame(), WithSize(20, 10))
	rows := strings.Split(c.String(), "\n")
	if len(rows) != 10 {
		t.Fatalf("rows = %d, want 10", len(rows))
	}
	if got := rows[5]; !strings.Contains(got, "**********") {
		t.Errorf("row 5 = %q, want accent line", got)
	}
	for y := range 10 {
		if c.Cells[y][0].Rune != 'x' {
			t.Errorf("cell (0,%d) = %q, want 'x'", y, c.Cells[y][0].Rune)
		}
	}
	if c.Cells[5][10].Symbol != color.Accent {
		t.Errorf("cell symbol = %q, want accent", c.Cells[5][10].Symbol)
	}
}

func TestHierarchyDOT(t *testing.T) {
	nodes := []Node{
		{ID: "a", Name: "root", Dim: 4, Slot: 0, Positions: 16, Lines: 32},
		{ID: "b", Name: "child", Parent: "a", Dim: 3, Slot: 1},
		{ID: "c", Name: "orphan", Parent: "z", Dim: 3, Slot: -1},
	}
	dot := HierarchyDOT(nodes, HierarchyOptions{Detailed: true})

	for _, want := range []string{
		`"a" -> "b";`,
		`"z" -> "c";`,
		`"z" [label="?", style="rounded,dashed"];`,
		`4D, slot 0`,
		`3D, slot -`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	plain := HierarchyDOT(nodes, HierarchyOptions{})
	if !strings.Contains(plain, `"a" [label="root"];`) {
		t.Errorf("plain label missing:\n%s", plain)
	}
}
