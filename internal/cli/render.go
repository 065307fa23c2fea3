package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tesserapp/wireframe/pkg/color"
	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/pipeline"
	"github.com/tesserapp/wireframe/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	scene       sceneOpts
	output      string   // output file (single format) or base path (multiple)
	formats     []string // svg, png, json, txt
	width       int      // raster width in pixels (txt: columns)
	height      int      // raster height in pixels (txt: rows)
	strokeWidth float64  // line width in pixels
	background  string   // background color, empty for transparent
}

// renderCommand creates the render command for writing a single frame to
// files.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		width:       render.DefaultWidth,
		height:      render.DefaultHeight,
		strokeWidth: render.DefaultStrokeWidth,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame of a scene to SVG, PNG, JSON or text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, &opts)
		},
	}

	opts.scene.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json, txt (comma-separated)")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "frame width")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "frame height")
	cmd.Flags().Float64Var(&opts.strokeWidth, "stroke", opts.strokeWidth, "line width")
	cmd.Flags().StringVar(&opts.background, "background", "", "background color (#rrggbb), transparent when empty")

	return cmd
}

// parseFormats parses the --format flag. If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{defaultFormat}
	}
	return strings.Split(s, ",")
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !pipeline.ValidFormats[f] {
			return wferr.New(wferr.CodeInvalidConfig, "invalid format: %s (must be 'svg', 'png', 'json' or 'txt')", f)
		}
	}
	return nil
}

func (c *CLI) runRender(cmd *cobra.Command, opts *renderOpts) error {
	prog := newProgress(c.Logger, "render")

	if opts.width <= 0 || opts.height <= 0 {
		return wferr.New(wferr.CodeInvalidRange, "frame size must be positive (got %dx%d)", opts.width, opts.height)
	}
	rasterOpts := []render.Option{
		render.WithSize(opts.width, opts.height),
		render.WithStrokeWidth(opts.strokeWidth),
	}
	if opts.background != "" {
		bg, err := color.ParseHex(opts.background)
		if err != nil {
			return err
		}
		rasterOpts = append(rasterOpts, render.WithBackground(bg))
	}

	m, cam, err := c.loadScene(cmd, &opts.scene)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var written []string
	for _, format := range opts.formats {
		// Text cells are about twice as high as wide.
		cam.AspectRatio = float64(opts.width) / float64(opts.height)
		if format == pipeline.FormatASCII {
			cam.AspectRatio /= 2
		}
		frame, err := m.Render(cam)
		if err != nil {
			return err
		}
		data, err := encodeFrame(format, frame, rasterOpts)
		if err != nil {
			return err
		}

		path := outputPath(opts.output, format, len(opts.formats) > 1)
		if path == "" {
			if _, err := out.Write(data); err != nil {
				return err
			}
			continue
		}
		if err := writeFile(cmd.Context(), path, data); err != nil {
			return err
		}
		written = append(written, path)
	}

	if len(written) > 0 {
		prog.done("files", len(written))
		for _, p := range written {
			printFile(out, p)
		}
	}
	return nil
}

func encodeFrame(format string, frame pipeline.Frame, opts []render.Option) ([]byte, error) {
	switch format {
	case pipeline.FormatPNG:
		return render.PNG(frame, opts...)
	case pipeline.FormatJSON:
		return render.JSON(frame)
	case pipeline.FormatASCII:
		return []byte(render.ASCII(frame, opts...).String() + "\n"), nil
	default:
		return render.SVG(frame, opts...), nil
	}
}

// outputPath derives the file for one format. With several formats the
// output is a base path and each file gets its format's extension. An
// empty result means stdout.
func outputPath(output, format string, multiple bool) string {
	switch {
	case output == "" && !multiple:
		return ""
	case output == "":
		return "frame." + format
	case multiple:
		return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
	}
	return output
}

func writeFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
