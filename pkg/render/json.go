package render

import (
	"encoding/json"

	"github.com/tesserapp/wireframe/pkg/pipeline"
)

type jsonOutput struct {
	Camera   pipeline.Camera `json:"camera"`
	Vertices int             `json:"vertices"`
	Lines    []jsonLine      `json:"lines"`
}

type jsonLine struct {
	From   [3]float64 `json:"from"`
	To     [3]float64 `json:"to"`
	Color  string     `json:"color"`
	Symbol string     `json:"symbol"`
	Model  int        `json:"model"`
}

// JSON encodes the frame as lines in normalized device coordinates with
// resolved colors. Nothing is clipped.
func JSON(f pipeline.Frame) ([]byte, error) {
	out := jsonOutput{
		Camera:   f.Camera,
		Vertices: len(f.Vertices),
		Lines:    make([]jsonLine, 0, f.LineCount()),
	}
	for a, b := range f.Lines() {
		out.Lines = append(out.Lines, jsonLine{
			From:   a.Position,
			To:     b.Position,
			Color:  a.Color.Hex(),
			Symbol: string(a.Symbol),
			Model:  a.ModelIndex,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
