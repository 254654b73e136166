// Package render rasterizes SVG markup to PNG for vision model analysis.
// Rasterization is delegated to an external command (resvg or rsvg-convert)
// since the process has no native SVG renderer.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// Renderer converts SVG markup into PNG bytes.
type Renderer interface {
	Render(ctx context.Context, svgContent string, width, height, scale int) ([]byte, error)
}

// CommandRenderer shells out to an external rasterizer binary.
type CommandRenderer struct {
	command string
	timeout time.Duration
}

// NewCommandRenderer creates a renderer around the given command.
// Parameters:
//   - command: rasterizer binary name or path ("resvg" or "rsvg-convert").
//   - timeout: per-render wall clock limit; zero means 10 seconds.
// Returns:
//   - *CommandRenderer: configured renderer.
func NewCommandRenderer(command string, timeout time.Duration) *CommandRenderer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CommandRenderer{command: command, timeout: timeout}
}

// Render rasterizes SVG markup to PNG at the requested dimensions. Scale
// multiplies both dimensions for higher-quality output.
func (r *CommandRenderer) Render(ctx context.Context, svgContent string, width, height, scale int) ([]byte, error) {
	if scale < 1 {
		scale = 1
	}
	outWidth := width * scale
	outHeight := height * scale

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// The rasterizers take file paths, not pipes, for input and output.
	dir, err := os.MkdirTemp("", "logodex-render-")
	if err != nil {
		return nil, fmt.Errorf("failed to create render workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "in.svg")
	outPath := filepath.Join(dir, "out.png")
	if err := os.WriteFile(inPath, []byte(svgContent), 0600); err != nil {
		return nil, fmt.Errorf("failed to write svg input: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.command, r.args(inPath, outPath, outWidth, outHeight)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	// Child processes inherit the stderr pipe; stop waiting on it once
	// the deadline kills the command.
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("render timed out after %s", r.timeout)
		}
		return nil, fmt.Errorf("render command failed: %w: %s", err, stderr.String())
	}

	png, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read render output: %w", err)
	}
	if len(png) == 0 {
		return nil, fmt.Errorf("render produced empty output")
	}
	return png, nil
}

// args builds the argument list for the configured rasterizer.
func (r *CommandRenderer) args(inPath, outPath string, width, height int) []string {
	switch filepath.Base(r.command) {
	case "rsvg-convert":
		return []string{
			"--width", strconv.Itoa(width),
			"--height", strconv.Itoa(height),
			"--format", "png",
			"--output", outPath,
			inPath,
		}
	default: // resvg
		return []string{
			"--width", strconv.Itoa(width),
			"--height", strconv.Itoa(height),
			inPath,
			outPath,
		}
	}
}
