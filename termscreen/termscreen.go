// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termscreen implements a monochrome display.Drawer that outputs to
// the terminal using ANSI color codes.
//
// Useful to preview what an OLED panel shows, for example behind the
// emulated controller of package ssd1306test. Each pixel is printed as a two
// characters wide block so it looks roughly square; a 128 pixels wide panel
// needs a 256 columns wide terminal.
package termscreen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/GermanBionicSystems/ssd1306/ssd1306/image1bit"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	W, H int
	// On is the color of lit pixels. Defaults to white.
	On color.Color
	// Off is the color of unlit pixels. Defaults to black.
	Off     color.Color
	Palette *ansi256.Palette

	_ struct{}
}

// Dev is a monochrome panel emulator that outputs to the console.
type Dev struct {
	w   io.Writer
	img *image1bit.VerticalLSB
	on  string
	off string

	buf   bytes.Buffer
	drawn bool
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	return NewWriter(colorable.NewColorableStdout(), opts)
}

// NewWriter returns a Dev that writes to w.
func NewWriter(w io.Writer, opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	on := opts.On
	if on == nil {
		on = color.White
	}
	off := opts.Off
	if off == nil {
		off = color.Black
	}
	return &Dev{
		w:   w,
		img: image1bit.NewVerticalLSB(image.Rect(0, 0, opts.W, opts.H)),
		on:  p.Block(color.NRGBAModel.Convert(on).(color.NRGBA)),
		off: p.Block(color.NRGBAModel.Convert(off).(color.NRGBA)),
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("TermScreen{%s}", d.img.Rect.Max)
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so the shell prompt is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// Write accepts a packed frame as stored by image1bit.VerticalLSB and writes
// it to the console.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != len(d.img.Pix) {
		return 0, fmt.Errorf("termscreen: invalid pixel stream length; expected %d bytes, got %d bytes", len(d.img.Pix), len(pixels))
	}
	copy(d.img.Pix, pixels)
	if err := d.refresh(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.img.Rect
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Src.Draw(d.img, r, src, sp)
	return d.refresh()
}

func (d *Dev) refresh() error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	h := d.img.Rect.Dy()
	if d.drawn {
		// Move the cursor back to the top left corner of the previous frame.
		fmt.Fprintf(&d.buf, "\033[%dA", h)
	}
	for y := 0; y < h; y++ {
		_, _ = d.buf.WriteString("\r")
		for x := 0; x < d.img.Rect.Dx(); x++ {
			if d.img.BitAt(x, y) {
				_, _ = d.buf.WriteString(d.on)
			} else {
				_, _ = d.buf.WriteString(d.off)
			}
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	d.drawn = true
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
