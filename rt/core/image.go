package core

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// LoadImage decodes a png, jpeg, bmp or webp file into tightly packed RGBA.
func LoadImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	rgba := ToRGBA(img)
	if rgba.Bounds().Empty() {
		return nil, fmt.Errorf("decode %s: empty %s image", path, format)
	}
	return rgba, nil
}

// ToRGBA returns img as an *image.RGBA anchored at the origin with
// Stride == 4*width, converting when necessary.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// CheckerImage is the fallback texture used when no image file is configured.
func CheckerImage(size, cells int) *image.RGBA {
	if size <= 0 {
		size = 1
	}
	if cells <= 0 {
		cells = 1
	}
	light := color.RGBA{R: 230, G: 230, B: 230, A: 255}
	dark := color.RGBA{R: 60, G: 60, B: 90, A: 255}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := size / cells
	if cell == 0 {
		cell = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if ((x/cell)+(y/cell))%2 == 0 {
				img.SetRGBA(x, y, light)
			} else {
				img.SetRGBA(x, y, dark)
			}
		}
	}
	return img
}
