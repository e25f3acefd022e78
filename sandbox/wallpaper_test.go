package sandbox

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func halves(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{A: 255}
			if x >= w/2 {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestCoverKeepsAspect(t *testing.T) {
	// A 4:1 source into a 1:1 target keeps the middle quarter, which straddles the split.
	src := halves(400, 100)
	dst := Cover(src, 50, 50)

	if got := dst.Bounds().Size(); got != image.Pt(50, 50) {
		t.Fatalf("size = %v", got)
	}
	left := dst.RGBAAt(2, 25)
	right := dst.RGBAAt(47, 25)
	if left.R > 10 || right.R < 245 {
		t.Errorf("edges = %v / %v, want dark then light", left, right)
	}
}

func TestCoverEmptySource(t *testing.T) {
	dst := Cover(image.NewRGBA(image.Rectangle{}), 8, 8)
	if dst.Bounds().Dx() != 8 {
		t.Fatalf("size = %v", dst.Bounds())
	}
}

func TestLoadWallpaper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wall.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, halves(64, 64)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := LoadWallpaper(path, 32, 16)
	if err != nil {
		t.Fatalf("LoadWallpaper: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(32, 16) {
		t.Errorf("size = %v, want 32x16", got)
	}
}

func TestLoadWallpaperErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadWallpaper(filepath.Join(dir, "missing.png"), 8, 8); err == nil {
		t.Error("expected an error for a missing file")
	}
	bogus := filepath.Join(dir, "bogus.webp")
	if err := os.WriteFile(bogus, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadWallpaper(bogus, 8, 8); err == nil {
		t.Error("expected a decode error")
	}
}
