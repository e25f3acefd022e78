package sandbox

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// LoadWallpaper decodes a png, jpeg, webp or bmp file and scales it to cover width×height.
func LoadWallpaper(path string, width, height int) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wallpaper: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode wallpaper %s: %w", path, err)
	}
	return Cover(src, width, height), nil
}

// Cover scales src uniformly so it fills width×height, cropping the overflow equally on
// both sides.
func Cover(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	sb := src.Bounds()
	if sb.Empty() || width <= 0 || height <= 0 {
		return dst
	}

	// Crop src to the destination aspect ratio.
	crop := sb
	if sb.Dx()*height > sb.Dy()*width {
		w := sb.Dy() * width / height
		crop.Min.X = sb.Min.X + (sb.Dx()-w)/2
		crop.Max.X = crop.Min.X + w
	} else {
		h := sb.Dx() * height / width
		crop.Min.Y = sb.Min.Y + (sb.Dy()-h)/2
		crop.Max.Y = crop.Min.Y + h
	}

	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, xdraw.Src, nil)
	return dst
}
