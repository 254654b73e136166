package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestOptimizeForVisionSmallImageUnchanged(t *testing.T) {
	input := encodeTestPNG(t, 100, 80)

	out, err := OptimizeForVision(input, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Error("expected small image to pass through unchanged")
	}
}

func TestOptimizeForVisionDownscalesWide(t *testing.T) {
	input := encodeTestPNG(t, 2048, 1024)

	out, err := OptimizeForVision(input, 512)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, h := decodeSize(t, out)
	if w != 512 || h != 256 {
		t.Errorf("expected 512x256, got %dx%d", w, h)
	}
}

func TestOptimizeForVisionDownscalesTall(t *testing.T) {
	input := encodeTestPNG(t, 600, 1200)

	out, err := OptimizeForVision(input, 600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, h := decodeSize(t, out)
	if w != 300 || h != 600 {
		t.Errorf("expected 300x600, got %dx%d", w, h)
	}
}

func TestOptimizeForVisionRejectsGarbage(t *testing.T) {
	if _, err := OptimizeForVision([]byte("not a png"), 512); err == nil {
		t.Error("expected error for invalid png data")
	}
}
