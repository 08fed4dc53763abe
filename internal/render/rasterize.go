package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Rasterizer turns an SVG document into PNG bytes.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg []byte, width, height int) ([]byte, error)
}

// ChromeRasterizer screenshots the SVG in a headless Chrome. It needs a
// Chrome or Chromium binary on the host.
type ChromeRasterizer struct {
	opts []chromedp.ExecAllocatorOption
	log  *zap.Logger
}

// NewChromeRasterizer builds a rasteriser. extraArgs are passed to Chrome as
// command-line flags, either "flag" or "flag=value".
func NewChromeRasterizer(logger *zap.Logger, extraArgs ...string) *ChromeRasterizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromeRasterizer{
		opts: execOptions(extraArgs),
		log:  logger.Named("rasterizer"),
	}
}

// execOptions starts from the chromedp defaults (headless included) and adds
// the flags needed in containers.
func execOptions(extraArgs []string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	for _, arg := range extraArgs {
		name, value, hasValue := cutFlag(arg)
		if name == "" {
			continue
		}
		if hasValue {
			opts = append(opts, chromedp.Flag(name, value))
		} else {
			opts = append(opts, chromedp.Flag(name, true))
		}
	}
	return opts
}

func cutFlag(arg string) (name, value string, hasValue bool) {
	return strings.Cut(strings.TrimLeft(arg, "-"), "=")
}

// Rasterize renders svg at width x height and returns the PNG bytes.
func (r *ChromeRasterizer) Rasterize(ctx context.Context, svg []byte, width, height int) ([]byte, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.opts...)
	defer cancelAlloc()
	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	dataURL := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)
	var png []byte
	err := chromedp.Run(taskCtx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		emulation.SetDefaultBackgroundColorOverride().WithColor(&cdp.RGBA{R: 255, G: 255, B: 255, A: 1}),
		chromedp.Navigate(dataURL),
		// A quality of 100 makes chromedp capture PNG rather than JPEG.
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("headless chrome: %w", err)
	}
	r.log.Debug("SVG rasterized", zap.Int("bytes", len(png)))
	return png, nil
}
