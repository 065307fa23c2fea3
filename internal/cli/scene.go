package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tesserapp/wireframe/pkg/config"
	"github.com/tesserapp/wireframe/pkg/pipeline"
	"github.com/tesserapp/wireframe/pkg/scene"
	"github.com/tesserapp/wireframe/pkg/visualize"
)

// sceneOpts holds the flags shared by every command that builds a scene.
type sceneOpts struct {
	file       string  // TOML scene file, empty for the built-in scene
	grid       bool    // register the grid geometry
	visualizer string  // override [visualizer] kind
	distance   float64 // camera distance
	horizontal float64 // camera azimuth in radians
	vertical   float64 // camera elevation in radians
}

func (o *sceneOpts) addFlags(cmd *cobra.Command) {
	def := pipeline.DefaultCamera()
	cmd.Flags().StringVarP(&o.file, "scene", "s", "", "scene file (TOML); built-in scene when empty")
	cmd.Flags().BoolVar(&o.grid, "grid", false, "show the unit grid")
	cmd.Flags().StringVar(&o.visualizer, "visualizer", "", "four-dimension strategy: "+strings.Join(visualize.Names(), ", "))
	cmd.Flags().Float64Var(&o.distance, "distance", def.Distance, "camera distance")
	cmd.Flags().Float64Var(&o.horizontal, "horizontal", def.Horizontal, "camera azimuth (radians)")
	cmd.Flags().Float64Var(&o.vertical, "vertical", def.Vertical, "camera elevation (radians)")
}

// loadScene builds the scene and the camera. Camera flags given on the command
// line win over the scene file.
func (c *CLI) loadScene(cmd *cobra.Command, o *sceneOpts) (*scene.Manager, pipeline.Camera, error) {
	cfg := config.Default()
	if o.file != "" {
		var err error
		if cfg, err = config.Load(o.file); err != nil {
			return nil, pipeline.Camera{}, err
		}
	}
	if o.visualizer != "" {
		cfg.Visualizer.Kind = o.visualizer
	}
	if o.grid {
		cfg.Scene.Grid = true
	}

	m, err := cfg.Build(scene.WithLogger(c.Logger))
	if err != nil {
		return nil, pipeline.Camera{}, err
	}

	cam := cfg.CameraValue()
	flags := cmd.Flags()
	if flags.Changed("distance") {
		cam.Distance = o.distance
	}
	if flags.Changed("horizontal") {
		cam.Horizontal = o.horizontal
	}
	if flags.Changed("vertical") {
		cam.Vertical = o.vertical
	}
	if err := cam.Validate(); err != nil {
		return nil, pipeline.Camera{}, err
	}

	c.Logger.Debug("scene loaded", "file", o.file, "geometries", len(m.Geometries()), "grid", m.GridEnabled())
	return m, cam, nil
}
