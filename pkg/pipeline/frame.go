package pipeline

import "iter"

// Frame is a finished set of projected vertices together with the camera
// they were produced for.
type Frame struct {
	Camera   Camera   `json:"camera"`
	Vertices []Vertex `json:"vertices"`
}

// Lines returns the frame's vertex pairs.
func (f Frame) Lines() iter.Seq2[Vertex, Vertex] {
	return func(yield func(Vertex, Vertex) bool) {
		for i := 0; i+1 < len(f.Vertices); i += 2 {
			if !yield(f.Vertices[i], f.Vertices[i+1]) {
				return
			}
		}
	}
}

// LineCount returns the number of lines in the frame.
func (f Frame) LineCount() int { return len(f.Vertices) / 2 }
