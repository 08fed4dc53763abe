// Package render draws the hero network: a seeded spring layout written as
// an SVG document, optionally rasterised to PNG through headless Chrome.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/xkilldash9x/heronet/api/schemas"
	"github.com/xkilldash9x/heronet/internal/config"
	"github.com/xkilldash9x/heronet/internal/knowledgegraph"
)

// DefaultTitle heads every drawing.
const DefaultTitle = "Superhero Network"

// Options controls one rendering.
type Options struct {
	Title      string
	Output     string
	PNG        bool
	PNGOutput  string
	Seed       int64
	Width      int
	Height     int
	Iterations int
	Timeout    time.Duration
}

// OptionsFromConfig maps the render section of the configuration.
func OptionsFromConfig(cfg config.RenderConfig) Options {
	return Options{
		Title:      DefaultTitle,
		Output:     cfg.Output,
		PNG:        cfg.PNG,
		PNGOutput:  cfg.PNGOutput,
		Seed:       cfg.Seed,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Iterations: cfg.Iterations,
		Timeout:    cfg.Timeout,
	}
}

// Artifact lists the files a rendering produced. PNGPath is empty when no
// PNG was written.
type Artifact struct {
	SVGPath string
	PNGPath string
}

// Renderer writes drawings of a graph.
type Renderer struct {
	opts   Options
	raster Rasterizer
	log    *zap.Logger
}

// New returns a Renderer. raster may be nil, in which case only the SVG is
// produced and a requested PNG is reported as unavailable.
func New(opts Options, raster Rasterizer, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	return &Renderer{opts: opts, raster: raster, log: logger.Named("render")}
}

// Render lays out g, labels nodes with hero names and writes the artefacts.
// Any failure is wrapped in schemas.ErrRenderUnavailable. When only the PNG
// step fails, the returned Artifact still names the SVG that was written.
func (r *Renderer) Render(ctx context.Context, g *knowledgegraph.Graph, heroes []schemas.Hero) (Artifact, error) {
	var artifact Artifact

	labels := make(map[int64]string, len(heroes))
	for _, h := range heroes {
		if _, seen := labels[h.ID]; !seen {
			labels[h.ID] = h.Name
		}
	}
	nodes := g.Nodes()
	edges := g.Edges()
	scene := Scene{
		Title:     r.opts.Title,
		Width:     r.opts.Width,
		Height:    r.opts.Height,
		Nodes:     nodes,
		Edges:     edges,
		Positions: SpringLayout(nodes, edges, r.opts.Seed, r.opts.Iterations),
		Labels:    labels,
	}

	svg, err := BuildSVG(scene).WriteToBytes()
	if err != nil {
		return artifact, fmt.Errorf("%w: encoding svg: %v", schemas.ErrRenderUnavailable, err)
	}
	svgPath, err := writeFile(r.opts.Output, svg)
	if err != nil {
		return artifact, fmt.Errorf("%w: %v", schemas.ErrRenderUnavailable, err)
	}
	artifact.SVGPath = svgPath
	r.log.Info("Network drawing written", zap.String("path", svgPath),
		zap.Int("nodes", len(nodes)), zap.Int("edges", len(edges)))

	if !r.opts.PNG {
		return artifact, nil
	}
	if r.raster == nil {
		return artifact, fmt.Errorf("%w: no rasterizer configured", schemas.ErrRenderUnavailable)
	}

	rasterCtx := ctx
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		rasterCtx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}
	png, err := r.raster.Rasterize(rasterCtx, svg, r.opts.Width, r.opts.Height)
	if err != nil {
		r.log.Warn("PNG rasterization failed", zap.Error(err))
		return artifact, fmt.Errorf("%w: %v", schemas.ErrRenderUnavailable, err)
	}
	pngPath, err := writeFile(r.opts.PNGOutput, png)
	if err != nil {
		return artifact, fmt.Errorf("%w: %v", schemas.ErrRenderUnavailable, err)
	}
	artifact.PNGPath = pngPath
	r.log.Info("Network image written", zap.String("path", pngPath))
	return artifact, nil
}

func writeFile(path string, data []byte) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", path, err)
	}
	if dir := filepath.Dir(expanded); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(expanded, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", expanded, err)
	}
	return expanded, nil
}
