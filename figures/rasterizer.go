package figures

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
	"time"

	"golang.org/x/image/draw"
)

// Rasterizer renders a page region of a non-raster source to image bytes.
// Implementations are expected to honor context cancellation.
type Rasterizer interface {
	Rasterize(ctx context.Context, path string, region *Region, dpi int) ([]byte, error)
}

// ExecRasterizer shells out to a pdftoppm-compatible renderer. The first
// page of the source is rendered as PNG to stdout.
type ExecRasterizer struct {
	// Command is the renderer binary (default "pdftoppm").
	Command string
	// Timeout bounds a single invocation. Expiry is reported as a
	// recoverable error, not a crash.
	Timeout time.Duration
}

// NewExecRasterizer creates a rasterizer running the default renderer
// with the given per-invocation timeout.
func NewExecRasterizer(timeout time.Duration) *ExecRasterizer {
	return &ExecRasterizer{Command: "pdftoppm", Timeout: timeout}
}

// Rasterize renders the first page of path at the given resolution. A
// non-nil region crops the output, with coordinates converted from source
// points to pixels at the requested dpi.
func (e *ExecRasterizer) Rasterize(ctx context.Context, path string, region *Region, dpi int) ([]byte, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	args := []string{"-png", "-r", strconv.Itoa(dpi), "-f", "1", "-l", "1"}
	if region != nil {
		scale := float64(dpi) / 72.0
		args = append(args,
			"-x", strconv.Itoa(int(region.X0*scale)),
			"-y", strconv.Itoa(int(region.Y0*scale)),
			"-W", strconv.Itoa(int((region.X1-region.X0)*scale)),
			"-H", strconv.Itoa(int((region.Y1-region.Y0)*scale)),
		)
	}
	args = append(args, path)

	cmd := exec.CommandContext(ctx, e.command(), args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s timed out after %s", e.command(), e.Timeout)
		}
		return nil, fmt.Errorf("%s: %w: %s", e.command(), err, firstLine(stderr.String()))
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%s produced no output", e.command())
	}
	return out.Bytes(), nil
}

func (e *ExecRasterizer) command() string {
	if e.Command != "" {
		return e.Command
	}
	return "pdftoppm"
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}

// maxRasterEdge caps the longest edge of a produced raster. Journal-sized
// figures rendered at 300 DPI stay well under this; the cap guards
// against full-page sources blowing up the output document.
const maxRasterEdge = 4200

// capRasterSize downscales an image whose longest edge exceeds the cap,
// preserving aspect ratio. Smaller images pass through untouched.
func capRasterSize(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding raster output: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxRasterEdge {
		return data, nil
	}

	ratio := float64(maxRasterEdge) / float64(longest)
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*ratio), int(float64(h)*ratio)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encoding scaled raster: %w", err)
	}
	return buf.Bytes(), nil
}
