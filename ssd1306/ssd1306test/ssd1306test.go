// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1306test implements an emulated SSD1306 controller.
//
// Bus implements i2c.Bus. It decodes the control and data streams the way the
// controller does and keeps a copy of the 128x64 display RAM, so that tests
// (and the ssd1306 command line tool, without hardware) can check what the
// panel would show.
//
// Start line, display offset, segment remap and COM scan direction are
// recorded but not applied to Frame(): the returned image is the RAM as seen
// through the normal orientation.
package ssd1306test

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/GermanBionicSystems/ssd1306/ssd1306/image1bit"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultAddr is the address the controller answers to.
const DefaultAddr = 0x3C

const (
	ramWidth = 128
	ramPages = 8
)

// Memory addressing modes. See page 34.
const (
	Horizontal byte = 0
	Vertical   byte = 1
	Page       byte = 2
)

// Command is a decoded command with its arguments.
type Command struct {
	Op   byte
	Args []byte
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return fmt.Sprintf("%#02x", c.Op)
	}
	return fmt.Sprintf("%#02x % x", c.Op, c.Args)
}

// State is the configuration of the emulated controller.
type State struct {
	DisplayOn       bool
	Inverse         bool
	EntireDisplayOn bool
	Scrolling       bool
	SegmentRemap    bool // true after 0xA1: column 127 is mapped to SEG0.
	COMScanReversed bool // true after 0xC8.
	Contrast        byte
	PreCharge       byte
	VCOMH           byte
	StartLine       byte
	DisplayOffset   byte
	ClockDivide     byte
	COMPins         byte
	Multiplex       byte
	MemoryMode      byte
	ChargePump      byte
	ColumnStart     byte
	ColumnEnd       byte
	PageStart       byte
	PageEnd         byte
}

// resetState is the state after power on. See the "Reset" column of the
// command table.
var resetState = State{
	Contrast:    0x7F,
	PreCharge:   0x22,
	VCOMH:       0x20,
	ClockDivide: 0x80,
	COMPins:     0x12,
	Multiplex:   63,
	MemoryMode:  Page,
	ChargePump:  0x10,
	ColumnEnd:   ramWidth - 1,
	PageEnd:     ramPages - 1,
}

// Bus is an emulated SSD1306 connected to an I²C bus.
//
// It is safe for concurrent use.
type Bus struct {
	// Addr is the address the controller answers to. 0 means DefaultAddr.
	Addr uint16
	// Sinks are redrawn with Frame() every time the visible image may have
	// changed.
	Sinks []display.Drawer
	// Fail, when not nil, is returned by the next Tx() which then has no
	// effect. It is reset afterward.
	Fail error

	mu      sync.Mutex
	rect    image.Rectangle
	state   State
	ram     [ramWidth * ramPages]byte
	col     int
	page    int
	pageCol int
	pending []byte
	log     []Command
	speed   physic.Frequency
	closed  bool
}

// New returns an emulated controller driving a w x h panel, in its power on
// state.
//
// The panel is clipped to the 128x64 display RAM.
func New(w, h int) *Bus {
	return &Bus{
		rect:  image.Rect(0, 0, w, h).Intersect(image.Rect(0, 0, ramWidth, 8*ramPages)),
		state: resetState,
	}
}

func (b *Bus) String() string {
	return fmt.Sprintf("ssd1306test(%s)", b.rect.Max)
}

// Close implements i2c.BusCloser.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// SetSpeed implements i2c.Bus.
//
// The controller supports up to 400kHz.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	if f > 400*physic.KiloHertz {
		return fmt.Errorf("ssd1306test: invalid speed %s; maximum is 400kHz", f)
	}
	b.mu.Lock()
	b.speed = f
	b.mu.Unlock()
	return nil
}

// Tx implements i2c.Bus.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	dirty, err := b.txLocked(addr, w, r)
	var frame *image1bit.VerticalLSB
	if dirty && len(b.Sinks) != 0 {
		frame = b.frameLocked()
	}
	sinks := b.Sinks
	b.mu.Unlock()
	if err != nil || frame == nil {
		return err
	}
	for _, s := range sinks {
		if err := s.Draw(s.Bounds(), frame, image.Point{}); err != nil {
			return fmt.Errorf("ssd1306test: sink %s: %w", s, err)
		}
	}
	return nil
}

// State returns the current configuration of the controller.
func (b *Bus) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Commands returns every command decoded so far, in order.
func (b *Bus) Commands() []Command {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Command(nil), b.log...)
}

// RAM returns a copy of the whole display RAM, 8 pages of 128 bytes.
func (b *Bus) RAM() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.ram[:]...)
}

// Frame returns the image visible on the panel.
func (b *Bus) Frame() *image1bit.VerticalLSB {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frameLocked()
}

func (b *Bus) frameLocked() *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(b.rect)
	w := b.rect.Dx()
	if !b.state.DisplayOn || w == 0 {
		return img
	}
	for page := 0; page < len(img.Pix)/w && page < ramPages; page++ {
		copy(img.Pix[page*w:(page+1)*w], b.ram[page*ramWidth:page*ramWidth+w])
	}
	if b.state.EntireDisplayOn {
		img.Fill(image1bit.On)
	}
	if b.state.Inverse {
		for i := range img.Pix {
			img.Pix[i] = ^img.Pix[i]
		}
	}
	return img
}

// txLocked decodes one I²C write transaction. It returns true if the visible
// image may have changed.
//
// Each control byte is followed by either one byte (Co=1) or the rest of the
// transaction (Co=0). D/C# selects between command and GDDRAM data. See page
// 20.
func (b *Bus) txLocked(addr uint16, w, r []byte) (bool, error) {
	if b.Fail != nil {
		err := b.Fail
		b.Fail = nil
		return false, err
	}
	if b.closed {
		return false, errors.New("ssd1306test: bus closed")
	}
	if want := b.addr(); addr != want {
		return false, fmt.Errorf("ssd1306test: no device at %#x", addr)
	}
	if len(r) != 0 {
		return false, errors.New("ssd1306test: reads are not supported")
	}
	dirty := false
	for i := 0; i < len(w); {
		ctrl := w[i]
		i++
		if ctrl&0x3F != 0 {
			return dirty, fmt.Errorf("ssd1306test: invalid control byte %#02x at offset %d", ctrl, i-1)
		}
		end := len(w)
		if ctrl&0x80 != 0 {
			if i == len(w) {
				return dirty, fmt.Errorf("ssd1306test: control byte %#02x at end of transaction", ctrl)
			}
			end = i + 1
		}
		if ctrl&0x40 != 0 {
			for _, v := range w[i:end] {
				b.writeRAM(v)
			}
			dirty = dirty || end > i
		} else {
			for _, v := range w[i:end] {
				if b.command(v) {
					dirty = true
				}
			}
		}
		i = end
	}
	return dirty, nil
}

func (b *Bus) addr() uint16 {
	if b.Addr == 0 {
		return DefaultAddr
	}
	return b.Addr
}

// argCount returns the number of bytes following op.
func argCount(op byte) int {
	switch op {
	case 0x81, 0x8D, 0xA8, 0xD3, 0xD5, 0xD9, 0xDA, 0xDB, 0x20:
		return 1
	case 0x21, 0x22, 0xA3:
		return 2
	case 0x29, 0x2A:
		return 5
	case 0x26, 0x27:
		return 6
	}
	return 0
}

// command accumulates one command byte. It returns true when a completed
// command changed the visible image.
func (b *Bus) command(v byte) bool {
	b.pending = append(b.pending, v)
	if len(b.pending) <= argCount(b.pending[0]) {
		return false
	}
	c := Command{Op: b.pending[0], Args: append([]byte(nil), b.pending[1:]...)}
	b.pending = b.pending[:0]
	b.log = append(b.log, c)
	return b.execute(c)
}

func (b *Bus) execute(c Command) bool {
	s := &b.state
	op := c.Op
	switch {
	case op <= 0x0F:
		b.pageCol = b.pageCol&0xF0 | int(op&0x0F)
		b.col = b.pageCol
	case op >= 0x10 && op <= 0x1F:
		b.pageCol = int(op&0x07)<<4 | b.pageCol&0x0F
		b.col = b.pageCol
	case op >= 0x40 && op <= 0x7F:
		s.StartLine = op & 0x3F
	case op >= 0xB0 && op <= 0xB7:
		b.page = int(op & 0x07)
	}
	switch op {
	case 0x20:
		s.MemoryMode = c.Args[0] & 0x03
	case 0x21:
		s.ColumnStart = c.Args[0] & 0x7F
		s.ColumnEnd = c.Args[1] & 0x7F
		b.col = int(s.ColumnStart)
	case 0x22:
		s.PageStart = c.Args[0] & 0x07
		s.PageEnd = c.Args[1] & 0x07
		b.page = int(s.PageStart)
	case 0x26, 0x27, 0x29, 0x2A, 0xA3, 0xE3:
	case 0x2E:
		s.Scrolling = false
	case 0x2F:
		s.Scrolling = true
	case 0x81:
		s.Contrast = c.Args[0]
	case 0x8D:
		s.ChargePump = c.Args[0]
	case 0xA0, 0xA1:
		s.SegmentRemap = op == 0xA1
	case 0xA4, 0xA5:
		s.EntireDisplayOn = op == 0xA5
		return true
	case 0xA6, 0xA7:
		s.Inverse = op == 0xA7
		return true
	case 0xA8:
		s.Multiplex = c.Args[0] & 0x3F
	case 0xAE, 0xAF:
		s.DisplayOn = op == 0xAF
		return true
	case 0xC0, 0xC8:
		s.COMScanReversed = op == 0xC8
	case 0xD3:
		s.DisplayOffset = c.Args[0] & 0x3F
	case 0xD5:
		s.ClockDivide = c.Args[0]
	case 0xD9:
		s.PreCharge = c.Args[0]
	case 0xDA:
		s.COMPins = c.Args[0]
	case 0xDB:
		s.VCOMH = c.Args[0]
	}
	return false
}

// writeRAM stores one GDDRAM byte at the current pointer and advances it
// according to the memory addressing mode. See pages 34 to 36.
func (b *Bus) writeRAM(v byte) {
	s := &b.state
	b.ram[b.page*ramWidth+b.col] = v
	switch s.MemoryMode {
	case Horizontal:
		if b.col++; b.col > int(s.ColumnEnd) {
			b.col = int(s.ColumnStart)
			if b.page++; b.page > int(s.PageEnd) {
				b.page = int(s.PageStart)
			}
		}
	case Vertical:
		if b.page++; b.page > int(s.PageEnd) {
			b.page = int(s.PageStart)
			if b.col++; b.col > int(s.ColumnEnd) {
				b.col = int(s.ColumnStart)
			}
		}
	default:
		// The pointer stays in the page and wraps to the page column.
		if b.col++; b.col >= ramWidth {
			b.col = b.pageCol
		}
	}
}

var _ i2c.BusCloser = &Bus{}
