package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeGeneratorScript writes a shell script that stands in for the external
// generator command.
func writeGeneratorScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("generator scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "generator.sh")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write generator script: %v", err)
	}
	return path
}

func TestGenerateUnconfigured(t *testing.T) {
	svc := NewGenerateService("", 0)

	if svc.IsConfigured() {
		t.Error("empty command should report unconfigured")
	}
	_, err := svc.Generate(context.Background(), GenerateRequest{})
	if !errors.Is(err, ErrGeneratorUnavailable) {
		t.Errorf("expected ErrGeneratorUnavailable, got %v", err)
	}
}

func TestGenerate(t *testing.T) {
	script := writeGeneratorScript(t, `echo '<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><circle cx="50" cy="50" r="40"/></svg>'`)
	svc := NewGenerateService(script, 5*time.Second)

	resp, err := svc.Generate(context.Background(), GenerateRequest{
		Config: GenerateConfig{Type: "pictorial", Theme: "playful", Text: "ACME"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(resp.SVG, "<svg") {
		t.Errorf("unexpected output: %q", resp.SVG)
	}
	if resp.Iterations != 1 {
		t.Errorf("iterations = %d, want 1", resp.Iterations)
	}
	if resp.Reasoning != "Generated pictorial logo with playful theme" {
		t.Errorf("unexpected reasoning: %q", resp.Reasoning)
	}
}

func TestGeneratePassesConfigFile(t *testing.T) {
	// The script reads the config file it was handed, so a missing or
	// unreadable file fails the command.
	script := writeGeneratorScript(t, `shift; cat "$1" > /dev/null && echo "<svg data-ok=\"1\"></svg>"`)
	svc := NewGenerateService(script, 5*time.Second)

	resp, err := svc.Generate(context.Background(), GenerateRequest{
		Config: GenerateConfig{Type: "wordmark", Width: 400, Height: 200},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.SVG != `<svg data-ok="1"></svg>` {
		t.Errorf("unexpected output: %q", resp.SVG)
	}
}

func TestGenerateRejectsNonSVGOutput(t *testing.T) {
	script := writeGeneratorScript(t, `echo "error: out of credits"`)
	svc := NewGenerateService(script, 5*time.Second)

	_, err := svc.Generate(context.Background(), GenerateRequest{})
	if err == nil {
		t.Fatal("expected an error for non-SVG output")
	}
	if !strings.Contains(err.Error(), "invalid SVG output") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGenerateTimeout(t *testing.T) {
	script := writeGeneratorScript(t, `sleep 10`)
	svc := NewGenerateService(script, 100*time.Millisecond)

	start := time.Now()
	_, err := svc.Generate(context.Background(), GenerateRequest{})
	if !errors.Is(err, ErrGenerateTimeout) {
		t.Fatalf("expected ErrGenerateTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout took too long: %v", elapsed)
	}
}

func TestGenerateCommandFailure(t *testing.T) {
	script := writeGeneratorScript(t, `echo "bad config" >&2; exit 3`)
	svc := NewGenerateService(script, 5*time.Second)

	_, err := svc.Generate(context.Background(), GenerateRequest{})
	if err == nil {
		t.Fatal("expected an error for a failing command")
	}
	if !strings.Contains(err.Error(), "bad config") {
		t.Errorf("error should carry the command's stderr: %v", err)
	}
}
