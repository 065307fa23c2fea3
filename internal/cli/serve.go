package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/tesserapp/wireframe/pkg/buildinfo"
	"github.com/tesserapp/wireframe/pkg/cache"
	"github.com/tesserapp/wireframe/pkg/control"
	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/geometry"
	"github.com/tesserapp/wireframe/pkg/pipeline"
	"github.com/tesserapp/wireframe/pkg/render"
	"github.com/tesserapp/wireframe/pkg/scene"
)

const shutdownTimeout = 5 * time.Second

type serveOpts struct {
	scene    sceneOpts
	addr     string
	spin     float64 // radians per second, 0 disables
	plane    string  // rotation plane for --spin
	geometry string  // geometry for --spin, first one when empty
	cache    string  // cache backend, see cache.Open
	cacheTTL time.Duration
}

// serveCommand starts a read-only HTTP preview of a scene.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: "localhost:8080", plane: "q", cacheTTL: cache.DefaultTTL}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered frames of a scene over HTTP",
		Long: `Serve rendered frames of a scene over HTTP.

Endpoints:
  GET /healthz              build information
  GET /frame.{svg,png,json,txt}
                            current frame; query parameters width, height,
                            distance, horizontal and vertical adjust it
  GET /geometries           registered geometries
  GET /geometries/{name}    one geometry
  GET /hierarchy.dot        geometry hierarchy as Graphviz DOT

Encoded frames can be cached by content with --cache: "memory", a
directory, or a redis:// URL shared between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &opts)
		},
	}
	opts.scene.addFlags(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().Float64Var(&opts.spin, "spin", 0, "rotate a geometry at this speed (radians per second)")
	cmd.Flags().StringVar(&opts.plane, "plane", opts.plane, "rotation plane for --spin: x, y, z, q")
	cmd.Flags().StringVar(&opts.geometry, "geometry", "", "geometry to spin (default: first registered)")
	cmd.Flags().StringVar(&opts.cache, "cache", "", "frame cache: memory, a directory or redis://host:port/db")
	cmd.Flags().DurationVar(&opts.cacheTTL, "cache-ttl", opts.cacheTTL, "lifetime of cached frames")
	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts *serveOpts) error {
	m, cam, err := c.loadScene(cmd, &opts.scene)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := cache.Open(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer store.Close()

	if opts.spin != 0 {
		sp, err := newSpinner(m, opts)
		if err != nil {
			return err
		}
		go sp.run(ctx, c.Logger)
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           newFrameServer(m, cam, store, opts.cacheTTL, c.Logger).routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	c.Logger.Info("Serving frames", "addr", "http://"+opts.addr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	c.Logger.Info("Server stopped")
	return nil
}

// =============================================================================
// Spinner - rotates one geometry while frames are served
// =============================================================================

type spinner struct {
	manager *scene.Manager
	target  *geometry.Geometry
	plane   geometry.Plane
	speed   float64
}

func parsePlane(s string) (geometry.Plane, error) {
	for _, p := range geometry.Planes {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, wferr.New(wferr.CodeInvalidConfig, "unknown rotation plane %q (want x, y, z or q)", s)
}

func newSpinner(m *scene.Manager, opts *serveOpts) (*spinner, error) {
	plane, err := parsePlane(opts.plane)
	if err != nil {
		return nil, err
	}
	var target *geometry.Geometry
	if opts.geometry != "" {
		g, ok := m.Lookup(opts.geometry)
		if !ok {
			return nil, wferr.New(wferr.CodeNotRegistered, "no geometry named %q", opts.geometry)
		}
		target = g
	} else if geoms := m.Geometries(); len(geoms) > 0 {
		target = geoms[0]
	}
	if target == nil {
		return nil, wferr.New(wferr.CodeNotRegistered, "scene has no geometry to spin")
	}
	if plane == geometry.PlaneQ && !target.FourDimensional() {
		return nil, wferr.New(wferr.CodeUnsupportedDimension, "geometry %q is 3D and has no q rotation", target.Name())
	}
	return &spinner{manager: m, target: target, plane: plane, speed: opts.spin}, nil
}

// run rotates the target by the angle elapsed since the previous tick until
// ctx is done.
func (s *spinner) run(ctx context.Context, logger *log.Logger) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	start := time.Now()
	angle := control.NewDeltanizer(0)
	logger.Debug("spinning", "geometry", s.target.Name(), "plane", s.plane, "speed", s.speed)
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			angle.Set(s.speed * now.Sub(start).Seconds())
			err := s.manager.Update(func() error {
				return s.target.Rotate(s.plane, angle.Delta())
			})
			if err != nil {
				logger.Error("spin stopped", "err", err)
				return
			}
		}
	}
}

// =============================================================================
// HTTP handlers
// =============================================================================

type frameServer struct {
	manager *scene.Manager
	camera  pipeline.Camera
	cache   cache.Cache
	ttl     time.Duration
	logger  *log.Logger
}

func newFrameServer(m *scene.Manager, cam pipeline.Camera, store cache.Cache, ttl time.Duration, logger *log.Logger) *frameServer {
	return &frameServer{manager: m, camera: cam, cache: store, ttl: ttl, logger: logger}
}

func (s *frameServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/frame.{format}", s.handleFrame)
	r.Get("/geometries", s.handleGeometries)
	r.Get("/geometries/{name}", s.handleGeometry)
	r.Get("/hierarchy.dot", s.handleHierarchy)
	return r
}

func (s *frameServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := s.logger.With("request", middleware.GetReqID(r.Context()))
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(withLogger(r.Context(), l)))
		l.Debug("served", "method", r.Method, "path", r.URL.Path, "took", time.Since(start).Round(time.Microsecond))
	})
}

func (s *frameServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *frameServer) handleFrame(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if !pipeline.ValidFormats[format] {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	width, err := queryInt(q.Get("width"), render.DefaultWidth)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	height, err := queryInt(q.Get("height"), render.DefaultHeight)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cam := s.camera
	for name, dst := range map[string]*float64{
		"distance":   &cam.Distance,
		"horizontal": &cam.Horizontal,
		"vertical":   &cam.Vertical,
	} {
		if *dst, err = queryFloat(q.Get(name), *dst); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	cam.AspectRatio = float64(width) / float64(height)
	if format == pipeline.FormatASCII {
		cam.AspectRatio /= 2
	}

	frame, err := s.manager.Render(cam)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, hit, err := s.encode(r.Context(), format, frame, width, height)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	status := "miss"
	if hit {
		status = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", status)
	_, _ = w.Write(data)
}

// encode returns the cached artifact for the frame or encodes and stores
// it. Cache failures are logged, never returned.
func (s *frameServer) encode(ctx context.Context, format string, frame pipeline.Frame, width, height int) ([]byte, bool, error) {
	logger := loggerFromContext(ctx)
	key := cache.ArtifactKey(cache.FrameHash(frame), cache.ArtifactOpts{Format: format, Width: width, Height: height})
	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "err", err)
	}
	if hit {
		return data, true, nil
	}

	data, err = encodeFrame(format, frame, []render.Option{render.WithSize(width, height)})
	if err != nil {
		return nil, false, err
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		logger.Warn("cache write failed", "err", err)
	}
	return data, false, nil
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:   "image/svg+xml",
	pipeline.FormatPNG:   "image/png",
	pipeline.FormatJSON:  "application/json",
	pipeline.FormatASCII: "text/plain; charset=utf-8",
}

type geometryJSON struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Dim         int       `json:"dim"`
	Slot        int       `json:"slot"`
	Parent      string    `json:"parent,omitempty"`
	Positions   int       `json:"positions"`
	Lines       int       `json:"lines"`
	Rotation    []float64 `json:"rotation"`
	Translation []float64 `json:"translation"`
}

func describe(g *geometry.Geometry) geometryJSON {
	out := geometryJSON{
		ID:          g.ID().String(),
		Name:        g.Name(),
		Dim:         g.Dim(),
		Slot:        -1,
		Positions:   len(g.Positions()),
		Lines:       len(g.Lines()),
		Translation: g.Translation(),
	}
	if slot, err := g.ModelIndex(); err == nil {
		out.Slot = slot
	}
	if p := g.Parent(); p != nil {
		out.Parent = p.Name()
	}
	r := g.Rotation()
	for _, p := range geometry.Planes {
		out.Rotation = append(out.Rotation, r.Angle(p))
	}
	return out
}

func (s *frameServer) handleGeometries(w http.ResponseWriter, r *http.Request) {
	geoms := s.manager.Geometries()
	out := make([]geometryJSON, 0, len(geoms))
	_ = s.manager.View(func() error {
		for _, g := range geoms {
			out = append(out, describe(g))
		}
		return nil
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *frameServer) handleGeometry(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	g, ok := s.manager.Lookup(name)
	if !ok {
		s.fail(w, r, wferr.New(wferr.CodeNotRegistered, "no geometry named %q", name))
		return
	}
	var out geometryJSON
	_ = s.manager.View(func() error {
		out = describe(g)
		return nil
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *frameServer) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	geoms := s.manager.Geometries()
	var nodes []render.Node
	_ = s.manager.View(func() error {
		nodes = render.Nodes(geoms)
		return nil
	})
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(render.HierarchyDOT(nodes, render.HierarchyOptions{Detailed: true})))
}

// fail maps error codes to HTTP statuses.
func (s *frameServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch wferr.GetCode(err) {
	case wferr.CodeInvalidRange, wferr.CodeInvalidConfig:
		status = http.StatusBadRequest
	case wferr.CodeNotRegistered:
		status = http.StatusNotFound
	}
	loggerFromContext(r.Context()).Warn("request failed", "status", status, "err", err)
	writeJSON(w, status, map[string]string{
		"error": wferr.UserMessage(err),
		"code":  string(wferr.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func queryInt(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 || v > 8192 {
		return 0, wferr.New(wferr.CodeInvalidRange, "invalid size %q", s)
	}
	return v, nil
}

func queryFloat(s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, wferr.New(wferr.CodeInvalidRange, "invalid number %q", s)
	}
	return v, nil
}
