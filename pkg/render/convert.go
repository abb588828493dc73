package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/shelfplan/pkg/errors"
)

// Rasterizer is the external SVG converter used for PNG and PDF output.
// It must accept rsvg-convert's -f and -z flags and read SVG from stdin.
var Rasterizer = "rsvg-convert"

// ToPDF converts an SVG floor plan to a single-page PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rasterize(ctx, svg, "pdf")
}

// ToPNG converts an SVG floor plan to PNG. A scale of 2 doubles the
// resolution; scales at or below zero fall back to 1.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return rasterize(ctx, svg, "png", "-z", strconv.FormatFloat(scale, 'f', 2, 64))
}

// Available reports whether the rasterizer is on PATH.
func Available() bool {
	_, err := exec.LookPath(Rasterizer)
	return err == nil
}

func rasterize(ctx context.Context, svg []byte, format string, extra ...string) ([]byte, error) {
	if !Available() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s output needs %s (apt install librsvg2-bin or brew install librsvg)", format, Rasterizer)
	}

	cmd := exec.CommandContext(ctx, Rasterizer, append([]string{"-f", format}, extra...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s %s: %s", Rasterizer, format, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
