// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image"
	"image/color"
	"math"

	"github.com/GermanBionicSystems/ssd1306/ssd1306/image1bit"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// drawText renders text centered with the Go font, as large as the panel
// height permits.
func drawText(r image.Rectangle, text string) (image.Image, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(r.Dx(), r.Dy())
	dc.SetColor(color.Black)
	dc.Clear()
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{
		Size: 0.75 * float64(r.Dy()),
		// Snap stems to the pixel grid.
		Hinting: font.HintingFull,
	}))
	dc.SetColor(color.White)
	dc.DrawStringAnchored(text, float64(r.Dx())/2, float64(r.Dy())/2, 0.5, 0.5)
	return dc.Image(), nil
}

// drawBasicText renders text at the bottom left with a 7x13 bitmap font.
func drawBasicText(dst *image1bit.VerticalLSB, text string) {
	f := basicfont.Face7x13
	drawer := font.Drawer{
		Dst:  dst,
		Src:  &image.Uniform{image1bit.On},
		Face: f,
		Dot:  fixed.P(0, dst.Bounds().Dy()-1-f.Descent),
	}
	drawer.DrawString(text)
}

// drawRects draws nested rectangles.
func drawRects(r image.Rectangle) image.Image {
	dc := gg.NewContext(r.Dx(), r.Dy())
	dc.SetColor(color.Black)
	dc.Clear()
	dc.SetColor(color.White)
	dc.SetLineWidth(1)
	for i := 0; 2*i*3 < r.Dy(); i++ {
		inset := float64(i*3) + 0.5
		dc.DrawRectangle(inset, inset, float64(r.Dx())-2*inset, float64(r.Dy())-2*inset)
		dc.Stroke()
	}
	return dc.Image()
}

// drawSine draws the axes and two periods of a sine wave.
func drawSine(dst *image1bit.VerticalLSB) {
	w := dst.Bounds().Dx()
	h := dst.Bounds().Dy()
	dst.DrawHLine(0, w, h>>1-1, image1bit.On)
	dst.DrawVLine(0, h, w>>1-1, image1bit.On)
	angle := 0.
	angleStep := 4 * math.Pi / float64(w)
	scale := float64(h>>1 - 4)
	for x := 0; x < w; x++ {
		y := int(math.Sin(angle)*scale) + h>>1
		dst.SetBit(x, y, image1bit.On)
		angle += angleStep
	}
}
