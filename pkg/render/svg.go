package render

import (
	"bytes"
	"fmt"

	"github.com/tesserapp/wireframe/pkg/pipeline"
)

// SVG renders the frame as a standalone SVG document.
func SVG(f pipeline.Frame, opts ...Option) []byte {
	o := newOptions(opts)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		o.width, o.height, o.width, o.height)
	if o.background != nil {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", o.background.Hex())
	}
	fmt.Fprintf(&buf, `  <g fill="none" stroke-width="%.2f" stroke-linecap="round">`+"\n", o.strokeWidth)
	for s := range segments(f, o.width, o.height) {
		fmt.Fprintf(&buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" class="%s"/>`+"\n",
			s.x1, s.y1, s.x2, s.y2, s.color.Hex(), s.symbol)
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}
