// Package raster decodes, bounds and re-encodes the PNG artifacts placed in reports.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// Sentinel errors for raster operations.
var (
	ErrDecode     = errors.New("image decode failed")
	ErrEmptyImage = errors.New("image has no pixels")
)

// Info describes an encoded image.
type Info struct {
	Width  int
	Height int
}

// Probe reads the dimensions of a PNG without decoding its pixels.
func Probe(data []byte) (Info, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, ErrEmptyImage
	}
	return Info{Width: cfg.Width, Height: cfg.Height}, nil
}

// Normalize fully decodes a PNG and re-encodes it. When maxWidth > 0 and the
// image is wider, it is scaled down to maxWidth keeping its aspect ratio.
// Truncated or corrupt payloads fail here rather than inside the document.
func Normalize(data []byte, maxWidth int) ([]byte, Info, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, Info{}, ErrEmptyImage
	}

	img := src
	if maxWidth > 0 && b.Dx() > maxWidth {
		img = scale(src, maxWidth)
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, Info{}, fmt.Errorf("encoding png: %w", err)
	}
	ib := img.Bounds()
	return buf.Bytes(), Info{Width: ib.Dx(), Height: ib.Dy()}, nil
}

func scale(src image.Image, width int) image.Image {
	b := src.Bounds()
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// FitWidth returns the height matching width for the image's aspect ratio.
func (i Info) FitWidth(width int64) int64 {
	if i.Width == 0 {
		return 0
	}
	return width * int64(i.Height) / int64(i.Width)
}
