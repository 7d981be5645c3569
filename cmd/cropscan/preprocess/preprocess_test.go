package cmd

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}

	path := filepath.Join(t.TempDir(), "leaf.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write PNG: %v", err)
	}
	return path
}

func TestRunPreprocess(t *testing.T) {
	var out bytes.Buffer
	Cmd.SetOut(&out)

	if err := runPreprocess(Cmd, []string{writePNG(t, 300, 200)}); err != nil {
		t.Fatalf("runPreprocess() error = %v", err)
	}

	for _, want := range []string{"mimetype: image/png", "format:   png (300x200)", "shape:    3x224x224", "mean R:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunPreprocessInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaf.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if err := runPreprocess(Cmd, []string{path}); err == nil {
		t.Error("runPreprocess() error = nil, want decode error")
	}

	if err := runPreprocess(Cmd, []string{filepath.Join(t.TempDir(), "missing.png")}); err == nil {
		t.Error("runPreprocess() error = nil, want read error")
	}
}
