// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package image1bit implements 1 bit per pixel images packed the way
// monochrome OLED controllers store their display RAM.
//
// The packing is vertical: each byte holds 8 vertically adjacent pixels, the
// least significant bit being the top one. Bytes are laid out in horizontal
// bands 8 pixels high called pages, so that the pixel (x, y) lives in bit y%8
// of byte (y/8)*width + x.
//
// The layout is byte for byte what a SSD1306 expects in horizontal addressing
// mode, so VerticalLSB.Pix can be sent to the controller as is.
package image1bit

import (
	"image"
	"image/color"
	"image/draw"
)

// Bit implements a 1 bit color.
type Bit bool

// RGBA returns either all white or all black.
//
// Technically the monochrome display could be colored but this information is
// unknown here.
func (b Bit) RGBA() (uint32, uint32, uint32, uint32) {
	if b {
		return 65535, 65535, 65535, 65535
	}
	return 0, 0, 0, 65535
}

func (b Bit) String() string {
	if b {
		return "On"
	}
	return "Off"
}

// Possible bitness.
const (
	On  = Bit(true)
	Off = Bit(false)
)

// BitModel is the color Model for 1 bit color.
var BitModel = color.ModelFunc(convert)

// VerticalLSB is a 1 bit (black and white) image.
//
// Each byte is 8 vertical pixels. Each stride is a horizontal band of 8
// pixels high with LSB first. So the first byte represents the following
// pixels, with lowest bit being the top left pixel.
//
//	0 x x x x x x x
//	1 x x x x x x x
//	2 x x x x x x x
//	3 x x x x x x x
//	4 x x x x x x x
//	5 x x x x x x x
//	6 x x x x x x x
//	7 x x x x x x x
type VerticalLSB struct {
	// Pix holds the image's pixels, as vertically LSB-first packed bitmap. It
	// can be passed directly to a SSD1306.
	Pix []byte
	// Stride is the Pix stride (in bytes) between vertically adjacent 8 pixels
	// horizontal bands.
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

// NewVerticalLSB returns an initialized VerticalLSB instance, all pixels
// being Off.
//
// The height is rounded up to the next page boundary.
func NewVerticalLSB(r image.Rectangle) *VerticalLSB {
	w := r.Dx()
	h := (r.Dy() + 7) / 8
	return &VerticalLSB{
		Pix:    make([]byte, w*h),
		Stride: w,
		Rect:   r,
	}
}

// ColorModel implements image.Image.
func (i *VerticalLSB) ColorModel() color.Model {
	return BitModel
}

// Bounds implements image.Image.
func (i *VerticalLSB) Bounds() image.Rectangle {
	return i.Rect
}

// At implements image.Image.
func (i *VerticalLSB) At(x, y int) color.Color {
	return i.BitAt(x, y)
}

// BitAt is the optimized version of At().
//
// Pixels outside the image are Off.
func (i *VerticalLSB) BitAt(x, y int) Bit {
	if !(image.Point{x, y}.In(i.Rect)) {
		return Off
	}
	offset, mask := i.PixOffset(x, y)
	return Bit(i.Pix[offset]&mask != 0)
}

// Opaque scans the entire image and reports whether it is fully opaque.
func (i *VerticalLSB) Opaque() bool {
	return true
}

// PixOffset returns the index of the first element of Pix that corresponds
// to the pixel at (x, y) and the bit mask to use within that byte.
func (i *VerticalLSB) PixOffset(x, y int) (int, byte) {
	x -= i.Rect.Min.X
	y -= i.Rect.Min.Y
	return (y/8)*i.Stride + x, 1 << uint(y&7)
}

// Set implements draw.Image
func (i *VerticalLSB) Set(x, y int, c color.Color) {
	i.SetBit(x, y, convertBit(c))
}

// SetBit is the optimized version of Set().
//
// Pixels outside the image are ignored, like the image package does.
func (i *VerticalLSB) SetBit(x, y int, b Bit) {
	if !(image.Point{x, y}.In(i.Rect)) {
		return
	}
	offset, mask := i.PixOffset(x, y)
	if b {
		i.Pix[offset] |= mask
	} else {
		i.Pix[offset] &^= mask
	}
}

// Fill sets every pixel of the image to b.
//
// Fill never reallocates Pix.
func (i *VerticalLSB) Fill(b Bit) {
	v := byte(0)
	if b {
		v = 0xFF
	}
	for j := range i.Pix {
		i.Pix[j] = v
	}
}

// DrawHLine draws a horizontal line from x0 (inclusive) to x1 (exclusive).
func (i *VerticalLSB) DrawHLine(x0, x1, y int, b Bit) {
	for x := x0; x < x1; x++ {
		i.SetBit(x, y, b)
	}
}

// DrawVLine draws a vertical line from y0 (inclusive) to y1 (exclusive).
func (i *VerticalLSB) DrawVLine(y0, y1, x int, b Bit) {
	for y := y0; y < y1; y++ {
		i.SetBit(x, y, b)
	}
}

// SubImage returns a copy of the portion of the image visible through r.
//
// Pages cannot be shared when r.Min.Y is not a multiple of 8, so unlike the
// image package the pixels are never shared with the original image.
func (i *VerticalLSB) SubImage(r image.Rectangle) image.Image {
	r = r.Intersect(i.Rect)
	out := NewVerticalLSB(r)
	draw.Draw(out, r, i, r.Min, draw.Src)
	return out
}

var _ draw.Image = &VerticalLSB{}

// Any color with one channel at half intensity or more is On.
func convert(c color.Color) color.Color {
	return convertBit(c)
}

func convertBit(c color.Color) Bit {
	switch t := c.(type) {
	case Bit:
		return t
	default:
		r, g, b, _ := c.RGBA()
		return Bit((r | g | b) >= 0x8000)
	}
}
