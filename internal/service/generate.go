package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrGenerateTimeout marks a generation that exceeded its time budget, so
// the HTTP layer can answer 504 instead of 500.
var ErrGenerateTimeout = errors.New("logo generation timed out")

// ErrGeneratorUnavailable marks a deployment without a generator command.
var ErrGeneratorUnavailable = errors.New("logo generator not configured")

// ColorOptions selects the generated logo's palette.
type ColorOptions struct {
	Primary string `json:"primary,omitempty"`
	Accent  string `json:"accent,omitempty"`
}

// TypographyOptions controls text rendering in generated logos.
type TypographyOptions struct {
	FontSize      int    `json:"fontSize,omitempty"`
	LetterSpacing int    `json:"letterSpacing,omitempty"`
	FontWeight    string `json:"fontWeight,omitempty"`
	FontFamily    string `json:"fontFamily,omitempty"`
}

// GenerateConfig is the structured configuration handed to the generator
// command as JSON.
type GenerateConfig struct {
	Type       string             `json:"type,omitempty"`
	Text       string             `json:"text,omitempty"`
	Shape      string             `json:"shape,omitempty"`
	Theme      string             `json:"theme,omitempty"`
	Width      int                `json:"width,omitempty"`
	Height     int                `json:"height,omitempty"`
	Colors     *ColorOptions      `json:"colors,omitempty"`
	Typography *TypographyOptions `json:"typography,omitempty"`
}

// GenerateRequest asks for a new logo.
type GenerateRequest struct {
	Description string         `json:"description,omitempty"`
	Config      GenerateConfig `json:"config"`
}

// GenerateResponse carries a generated SVG logo.
type GenerateResponse struct {
	SVG        string `json:"svg"`
	Iterations int    `json:"iterations"`
	Reasoning  string `json:"reasoning,omitempty"`
}

// GenerateService wraps the external logo generation command. The command
// receives a JSON config file path via --config and must print the SVG to
// stdout.
type GenerateService struct {
	command []string
	timeout time.Duration
}

// NewGenerateService creates a generate service. The command string may
// include arguments, e.g. "node /app/scripts/generate.js". An empty command
// leaves the service unavailable; Generate then fails with
// ErrGeneratorUnavailable.
func NewGenerateService(command string, timeout time.Duration) *GenerateService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GenerateService{command: strings.Fields(command), timeout: timeout}
}

// IsConfigured reports whether a generator command is set.
func (s *GenerateService) IsConfigured() bool {
	return len(s.command) > 0
}

// Generate runs the generator command and validates its output. The output
// must start with "<svg" to be accepted.
func (s *GenerateService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if len(s.command) == 0 {
		return nil, ErrGeneratorUnavailable
	}

	applyConfigDefaults(&req.Config)

	configJSON, err := json.Marshal(req.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to encode generator config: %w", err)
	}

	configFile, err := os.CreateTemp("", "logodex-generate-*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create generator config file: %w", err)
	}
	configPath := configFile.Name()
	defer os.Remove(configPath)

	if _, err := configFile.Write(configJSON); err != nil {
		configFile.Close()
		return nil, fmt.Errorf("failed to write generator config: %w", err)
	}
	if err := configFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to write generator config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := append(append([]string{}, s.command[1:]...), "--config", configPath)
	cmd := exec.CommandContext(ctx, s.command[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// A child spawned by the generator inherits the output pipes and can
	// hold them open past the kill; stop waiting on them after a grace
	// period once the deadline hits.
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrGenerateTimeout
		}
		return nil, fmt.Errorf("logo generation failed: %w: %s", err, stderr.String())
	}

	svgOutput := strings.TrimSpace(stdout.String())
	if !strings.HasPrefix(svgOutput, "<svg") {
		return nil, fmt.Errorf("invalid SVG output from generator")
	}

	theme := req.Config.Theme
	if theme == "" {
		theme = "custom"
	}

	return &GenerateResponse{
		SVG:        svgOutput,
		Iterations: 1,
		Reasoning:  fmt.Sprintf("Generated %s logo with %s theme", req.Config.Type, theme),
	}, nil
}

// applyConfigDefaults fills the generator defaults for unset fields. The
// theme is left empty so the generator can distinguish "no theme" from an
// explicit preset.
func applyConfigDefaults(cfg *GenerateConfig) {
	if cfg.Type == "" {
		cfg.Type = "wordmark"
	}
	if cfg.Text == "" {
		cfg.Text = "BRAND"
	}
	if cfg.Shape == "" {
		cfg.Shape = "circle"
	}
	if cfg.Width <= 0 {
		cfg.Width = 400
	}
	if cfg.Height <= 0 {
		cfg.Height = 200
	}
}
