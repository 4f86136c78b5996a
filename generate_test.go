package ogimage

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupLogo writes a w x h opaque logo into a temp dir and returns a config
// pointing at it.
func setupLogo(t *testing.T, w, h int) Config {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.LogoPath = filepath.Join(dir, "public", "logo.png")
	cfg.OutputPath = filepath.Join(dir, "public", "og.png")
	writeLogo(t, cfg.LogoPath, solidLogo(w, h, color.NRGBA{R: 240, G: 200, B: 40, A: 255}))
	return cfg
}

func writeLogo(t *testing.T, path string, img image.Image) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode logo: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write logo: %v", err)
	}
}

func TestGenerate(t *testing.T) {
	cfg := setupLogo(t, 2000, 500)

	res, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.Path != cfg.OutputPath {
		t.Errorf("Path = %q, want %q", res.Path, cfg.OutputPath)
	}
	if res.Layout.Offset != image.Pt(40, 175) || res.Layout.Width != 1120 || res.Layout.Height != 280 {
		t.Errorf("Layout = %+v", res.Layout)
	}

	f, err := os.Open(cfg.OutputPath)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	out, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 1200 || b.Dy() != 630 {
		t.Errorf("output = %dx%d, want 1200x630", b.Dx(), b.Dy())
	}
	r, g, b, _ := out.At(5, 5).RGBA()
	if r>>8 != 89 || g>>8 != 87 || b>>8 != 72 {
		t.Errorf("corner = (%d,%d,%d), want (89,87,72)", r>>8, g>>8, b>>8)
	}
}

func TestGenerateZeroConfigUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		LogoPath:   filepath.Join(dir, "logo.png"),
		OutputPath: filepath.Join(dir, "og.png"),
	}
	writeLogo(t, cfg.LogoPath, solidLogo(2000, 500, color.NRGBA{R: 255, A: 255}))

	res, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.Width != 1200 || res.Height != 630 {
		t.Errorf("canvas = %dx%d, want 1200x630", res.Width, res.Height)
	}
	if res.Layout.Width != 1120 || res.Layout.Height != 280 || res.Layout.Offset != image.Pt(40, 175) {
		t.Errorf("layout = %dx%d at %v, want 1120x280 at (40,175)", res.Layout.Width, res.Layout.Height, res.Layout.Offset)
	}
	r, g, b, _ := res.Image.At(0, 0).RGBA()
	if r>>8 != 89 || g>>8 != 87 || b>>8 != 72 {
		t.Errorf("corner = (%d,%d,%d), want (89,87,72)", r>>8, g>>8, b>>8)
	}
}

func TestGenerateIsRepeatable(t *testing.T) {
	cfg := setupLogo(t, 500, 2000)

	first, err := Generate(cfg)
	if err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}
	second, err := Generate(cfg)
	if err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}
	if first.Layout != second.Layout {
		t.Errorf("layouts differ: %+v vs %+v", first.Layout, second.Layout)
	}
	if first.Checksum != second.Checksum {
		t.Errorf("checksums differ across runs")
	}
}

func TestGenerateMissingInput(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.LogoPath = filepath.Join(dir, "missing.png")
	cfg.OutputPath = filepath.Join(dir, "og.png")

	_, err := Generate(cfg)
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
	if !strings.HasSuffix(err.Error(), "missing.png not found") {
		t.Errorf("error = %q", err)
	}
	if _, err := os.Stat(cfg.OutputPath); !os.IsNotExist(err) {
		t.Error("output should not be written when the logo is missing")
	}
}

func TestGenerateUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.LogoPath = filepath.Join(dir, "logo.png")
	cfg.OutputPath = filepath.Join(dir, "og.png")
	if err := os.WriteFile(cfg.LogoPath, []byte("definitely not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Generate(cfg)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := os.Stat(cfg.OutputPath); !os.IsNotExist(err) {
		t.Error("output should not be written for an undecodable logo")
	}
}

func TestGenerateCorruptPNG(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.LogoPath = filepath.Join(dir, "logo.png")
	cfg.OutputPath = filepath.Join(dir, "og.png")
	data := append([]byte("\x89PNG\r\n\x1a\n"), []byte("truncated")...)
	if err := os.WriteFile(cfg.LogoPath, data, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Generate(cfg)
	if err == nil {
		t.Fatal("expected error for corrupt PNG")
	}
	if errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrMissingInput) {
		t.Errorf("corrupt PNG should be a generic error, got %v", err)
	}
}

func TestDecodeFormats(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidLogo(3, 2, color.NRGBA{A: 255})); err != nil {
		t.Fatal(err)
	}
	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("decoded = %dx%d, want 3x2", b.Dx(), b.Dy())
	}
}

func TestWriteFileReplacesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "og.png")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := writeFile(path, []byte("new contents")); err != nil {
		t.Fatalf("writeFile failed: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new contents" {
		t.Errorf("contents = %q, want %q", got, "new contents")
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v, want 0644", fi.Mode().Perm())
	}

	// A failed replace must not leave its temp file behind.
	target := filepath.Join(dir, "taken")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(target, []byte("x")); err == nil {
		t.Error("writing over a directory should fail")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
