// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package videosink provides a monochrome display driver implementing an HTTP
// request handler. Client requests get an initial snapshot of the panel and
// are updated further on every change.
//
// The primary use case is looking at an emulated OLED panel from a browser
// while developing on a host machine. Devices with network connectivity can
// also mirror their local panel via a web interface.
//
// The protocol used is "MJPEG" (https://en.wikipedia.org/wiki/Motion_JPEG)
// which is often used by IP cameras. PNG is used by default since it suits
// two color images much better than JPEG. JPEG can be selected via
// Options.Format or using the "format" URL parameter.
package videosink

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"net/http"
	"sync"

	"github.com/GermanBionicSystems/ssd1306/ssd1306/image1bit"
	"periph.io/x/conn/v3/display"
)

// Options for videosink devices.
type Options struct {
	// Width and height of the panel, in pixels.
	Width, Height int
	// Scale is the number of image pixels per panel pixel on each axis.
	// Panels are tiny, 0 means 4.
	Scale int
	// Format specifies the image format to send to clients.
	Format ImageFormat
	// On and Off are the colors of lit and unlit pixels. They default to
	// white and black.
	On, Off color.Color
}

// Display mirrors a monochrome panel to HTTP clients.
type Display struct {
	defaultFormat ImageFormat
	scale         int
	palette       color.Palette

	mu      sync.Mutex
	frame   *image1bit.VerticalLSB
	gen     uint64
	cache   map[ImageFormat]encodedFrame
	clients map[chan struct{}]struct{}
	stop    chan struct{}
}

type encodedFrame struct {
	gen  uint64
	data []byte
}

var _ display.Drawer = (*Display)(nil)
var _ http.Handler = (*Display)(nil)

// New creates a new videosink device instance with all pixels off.
func New(opt *Options) *Display {
	scale := opt.Scale
	if scale <= 0 {
		scale = 4
	}
	on, off := opt.On, opt.Off
	if on == nil {
		on = color.White
	}
	if off == nil {
		off = color.Black
	}
	return &Display{
		defaultFormat: opt.Format,
		scale:         scale,
		palette:       color.Palette{off, on},
		frame:         image1bit.NewVerticalLSB(image.Rect(0, 0, opt.Width, opt.Height)),
		cache:         map[ImageFormat]encodedFrame{},
		clients:       map[chan struct{}]struct{}{},
		stop:          make(chan struct{}),
	}
}

// String returns the name of the device.
func (d *Display) String() string {
	return fmt.Sprintf("VideoSink{%s}", d.frame.Rect.Max)
}

// Halt implements conn.Resource and terminates all running client requests
// asynchronously. New requests are still served.
func (d *Display) Halt() error {
	d.mu.Lock()
	close(d.stop)
	d.stop = make(chan struct{})
	d.mu.Unlock()
	return nil
}

// ColorModel implements display.Drawer.
func (d *Display) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer.
func (d *Display) Bounds() image.Rectangle {
	return d.frame.Rect
}

// Draw implements display.Drawer.
func (d *Display) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	d.mu.Lock()
	draw.Src.Draw(d.frame, dstRect, src, srcPts)
	d.gen++
	for c := range d.clients {
		select {
		case c <- struct{}{}:
		default:
		}
	}
	d.mu.Unlock()
	return nil
}

// renderLocked returns the frame scaled up and colored.
func (d *Display) renderLocked() *image.Paletted {
	b := d.frame.Rect
	img := image.NewPaletted(image.Rect(0, 0, b.Dx()*d.scale, b.Dy()*d.scale), d.palette)
	for y := 0; y < img.Rect.Dy(); y++ {
		for x := 0; x < img.Rect.Dx(); x++ {
			if d.frame.BitAt(b.Min.X+x/d.scale, b.Min.Y+y/d.scale) {
				img.Pix[y*img.Stride+x] = 1
			}
		}
	}
	return img
}
