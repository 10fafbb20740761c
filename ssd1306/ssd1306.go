// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

// https://learn.adafruit.com/ssd1306-oled-displays-with-raspberry-pi-and-beaglebone-black?view=all

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/GermanBionicSystems/ssd1306/ssd1306/image1bit"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
)

// Addr is the I²C address of the controller.
const Addr = 0x3C

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	W: 128,
	H: 32,
}

// Opts defines the options for the device.
type Opts struct {
	// W is the panel width in pixels, up to 128.
	W int
	// H is the panel height in pixels. It must be a multiple of 8, up to 64.
	// Panels are usually 16, 32 or 64 pixels high.
	H int
}

func (o *Opts) validate() error {
	if o.W < 1 || o.W > 128 {
		return fmt.Errorf("%w: width %d", ErrInvalidGeometry, o.W)
	}
	if o.H < 8 || o.H > 64 || o.H&7 != 0 {
		return fmt.Errorf("%w: height %d", ErrInvalidGeometry, o.H)
	}
	return nil
}

// NewI2C returns a Dev object that communicates over I²C to a SSD1306 display
// controller.
//
// The bus is owned by the caller; the returned Dev only borrows it. The
// controller is fully initialized and the blank frame is shown before
// NewI2C returns. On error, no Dev is returned.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	// Maximum clock speed is 1/2.5µs = 400KHz.
	return newDev(&i2c.Dev{Bus: b, Addr: Addr}, opts)
}

// Dev is an open handle to the display controller.
//
// Dev does no locking. Callers that share a Dev between goroutines must
// serialize all calls, including modifications of Bitmap().
type Dev struct {
	c    conn.Conn
	rect image.Rectangle

	// buffer is the frame as it should appear on the panel. See page 25 for
	// the GDDRAM pages structure; it is the same layout so it is sent as is.
	buffer *image1bit.VerticalLSB
	// frame is the I²C data transaction, the control byte followed by a copy
	// of buffer.Pix.
	frame []byte
}

func newDev(c conn.Conn, opts *Opts) (*Dev, error) {
	r := image.Rect(0, 0, opts.W, opts.H)
	buffer := image1bit.NewVerticalLSB(r)
	d := &Dev{
		c:      c,
		rect:   r,
		buffer: buffer,
		frame:  make([]byte, 1+len(buffer.Pix)),
	}
	d.frame[0] = i2cData
	for _, cmd := range getInitCmd(opts) {
		if err := d.sendCommand(cmd...); err != nil {
			return nil, err
		}
	}
	if err := d.Render(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("ssd1306.Dev{%s, %s}", d.c, d.rect.Max)
}

// ColorModel implements display.Drawer.
//
// It is a one bit color model, as implemented by image1bit.Bit.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Bitmap returns the frame buffer owned by the device.
//
// Drawing on it has no visible effect until Render is called.
func (d *Dev) Bitmap() *image1bit.VerticalLSB {
	return d.buffer
}

// Fill sets every pixel of the frame buffer.
func (d *Dev) Fill(b image1bit.Bit) {
	d.buffer.Fill(b)
}

// Pixel returns the pixel at (x, y) in the frame buffer.
//
// It returns an error wrapping ErrOutOfBounds if (x, y) is outside of the
// display.
func (d *Dev) Pixel(x, y int) (image1bit.Bit, error) {
	if err := d.checkBounds(x, y); err != nil {
		return image1bit.Off, err
	}
	return d.buffer.BitAt(x, y), nil
}

// SetPixel sets the pixel at (x, y) in the frame buffer.
//
// It returns an error wrapping ErrOutOfBounds if (x, y) is outside of the
// display, in which case the frame buffer is not modified.
func (d *Dev) SetPixel(x, y int, b image1bit.Bit) error {
	if err := d.checkBounds(x, y); err != nil {
		return err
	}
	d.buffer.SetBit(x, y, b)
	return nil
}

// Render sends the whole frame buffer to the display.
//
// The column and page windows are reset to cover the full panel before every
// transfer so the controller's RAM pointer always starts at the top left.
// Once this function returns successfully, the display shows the frame
// buffer. On error the frame buffer is left untouched.
func (d *Dev) Render() error {
	if err := d.sendCommand(_COLUMNADDR, 0, byte(d.rect.Dx()-1)); err != nil {
		return err
	}
	if err := d.sendCommand(_PAGEADDR, 0, byte(d.rect.Dy()/8-1)); err != nil {
		return err
	}
	return d.sendData(d.buffer.Pix)
}

// Clear turns all the pixels off and renders.
func (d *Dev) Clear() error {
	d.buffer.Fill(image1bit.Off)
	return d.Render()
}

// Draw implements display.Drawer.
//
// It draws synchronously, once this function returns, the display is updated.
// It means that on slow bus (I²C), it may be preferable to defer Draw() calls
// to a background goroutine.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if img, ok := src.(*image1bit.VerticalLSB); ok && r == d.rect && img.Rect == d.rect && sp.X == 0 && sp.Y == 0 {
		// Exact size, full frame, image1bit encoding: fast path!
		copy(d.buffer.Pix, img.Pix)
	} else {
		draw.Src.Draw(d.buffer, r, src, sp)
	}
	return d.Render()
}

// Write writes a buffer of pixels to the display.
//
// The format is unsual as each byte represent 8 vertical pixels at a time. The
// format is horizontal bands of 8 pixels high.
//
// This function accepts the content of image1bit.VerticalLSB.Pix.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != len(d.buffer.Pix) {
		return 0, fmt.Errorf("ssd1306: invalid pixel stream length; expected %d bytes, got %d bytes", len(d.buffer.Pix), len(pixels))
	}
	copy(d.buffer.Pix, pixels)
	if err := d.Render(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// SetContrast changes the screen contrast.
//
// Note: values other than 0xff do not seem useful...
func (d *Dev) SetContrast(level byte) error {
	return d.sendCommand(_SETCONTRAST, level)
}

// Invert the display (black on white vs white on black).
func (d *Dev) Invert(blackOnWhite bool) error {
	if blackOnWhite {
		return d.sendCommand(_INVERTDISPLAY)
	}
	return d.sendCommand(_NORMALDISPLAY)
}

// Halt turns off the display. The display RAM is retained.
func (d *Dev) Halt() error {
	return d.sendCommand(_DISPLAYOFF)
}

// Resume turns the display back on after Halt.
func (d *Dev) Resume() error {
	return d.sendCommand(_DISPLAYON)
}

func (d *Dev) checkBounds(x, y int) error {
	if !(image.Point{x, y}.In(d.rect)) {
		return fmt.Errorf("%w: (%d, %d) outside %s", ErrOutOfBounds, x, y, d.rect)
	}
	return nil
}

// getInitCmd returns the initialization sequence, one command with its
// arguments per item. The order matters: the multiplex ratio and the COM pins
// must be configured before the display is turned on or the panel shows
// garbage.
func getInitCmd(opts *Opts) [][]byte {
	// Narrow and short panels wire the COM pins sequentially. See page 40.
	hwLayout := byte(0x12)
	if opts.W != 64 && (opts.H == 16 || opts.H == 32) {
		hwLayout = 0x02
	}
	return [][]byte{
		{_DISPLAYOFF},
		{_SETCONTRAST, 0xFF},   // Max contrast
		{_SETPRECHARGE, 0xF1},  // From adafruit driver
		{_SETVCOMDETECT, 0x40}, // Vcomh deselect level; page 32
		{_SETSTARTLINE},        // Start line 0
		{_SETDISPLAYOFFSET, 0x00},
		{_SETDISPLAYCLOCKDIV, 0x80}, // Power on reset value
		{_SETCOMPINS, hwLayout},
		{_SETSEGMENTREMAP},
		{_COMSCANDEC},
		{_SETMULTIPLEX, byte(opts.H - 1)}, // Number of lines to display
		{_MEMORYMODE, 0x00},               // Horizontal addressing
		{_DISPLAYALLON_RESUME},            // Use GDDRAM content
		{_NORMALDISPLAY},                  // 1 is lit
		{_DISPLAYON},
	}
}

// sendCommand sends one command and its arguments as a single I²C
// transaction. Every byte gets its own control byte, which the controller
// treats the same whether it is an opcode or an argument.
func (d *Dev) sendCommand(c ...byte) error {
	w := make([]byte, 0, 2*len(c))
	for _, b := range c {
		w = append(w, i2cCmd, b)
	}
	if err := d.c.Tx(w, nil); err != nil {
		return &TransportError{Op: "command", Err: err}
	}
	return nil
}

// sendData sends GDDRAM content as a single I²C transaction.
func (d *Dev) sendData(c []byte) error {
	n := copy(d.frame[1:], c)
	if err := d.c.Tx(d.frame[:1+n], nil); err != nil {
		return &TransportError{Op: "data", Err: err}
	}
	return nil
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}
