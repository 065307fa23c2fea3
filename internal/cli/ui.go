package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tesserapp/wireframe/pkg/color"
	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/render"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // Teal - primary actions
	colorGreen = lipgloss.Color("35")  // Green - success
	colorRed   = lipgloss.Color("167") // Soft red - errors
	colorWhite = lipgloss.Color("255") // Bright white - values
	colorGray  = lipgloss.Color("245") // Gray - secondary text
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// PrintError prints err without its error code prefix.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+wferr.UserMessage(err))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Canvas
// =============================================================================

// styleCanvas renders a character canvas with each run of equally colored
// cells wrapped in one lipgloss style.
func styleCanvas(c *render.Canvas) string {
	var b strings.Builder
	for y, row := range c.Cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run []rune
		var runColor color.RGB
		flush := func() {
			if len(run) == 0 {
				return
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(runColor.Hex()))
			b.WriteString(style.Render(string(run)))
			run = run[:0]
		}
		for _, cell := range row {
			if cell.Rune == ' ' {
				flush()
				b.WriteByte(' ')
				continue
			}
			if len(run) > 0 && cell.Color != runColor {
				flush()
			}
			runColor = cell.Color
			run = append(run, cell.Rune)
		}
		flush()
	}
	return b.String()
}
