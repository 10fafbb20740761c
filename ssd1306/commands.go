// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

// Command set, see pages 28 to 32 of the SSD1306 datasheet.

// Fundamental commands.
const (
	_SETCONTRAST         = 0x81
	_DISPLAYALLON_RESUME = 0xA4
	_DISPLAYALLON_IGNORE = 0xA5
	_NORMALDISPLAY       = 0xA6
	_INVERTDISPLAY       = 0xA7
	_DISPLAYOFF          = 0xAE
	_DISPLAYON           = 0xAF
)

// Scrolling commands. Scrolling is not driven, the opcodes are kept so the
// table matches the datasheet.
const (
	_RIGHT_HORIZONTAL_SCROLL              = 0x26
	_LEFT_HORIZONTAL_SCROLL               = 0x27
	_VERTICAL_AND_RIGHT_HORIZONTAL_SCROLL = 0x29
	_VERTICAL_AND_LEFT_HORIZONTAL_SCROLL  = 0x2A
	_DEACTIVATE_SCROLL                    = 0x2E
	_ACTIVATE_SCROLL                      = 0x2F
	_SET_VERTICAL_SCROLL_AREA             = 0xA3
)

// Addressing commands.
const (
	_SETLOWCOLUMN     = 0x00 // Page addressing mode only.
	_SETHIGHCOLUMN    = 0x10 // Page addressing mode only.
	_MEMORYMODE       = 0x20
	_COLUMNADDR       = 0x21
	_PAGEADDR         = 0x22
	_PAGESTARTADDRESS = 0xB0 // Page addressing mode only.
)

// Hardware configuration commands.
const (
	_SETSTARTLINE     = 0x40
	_SEGREMAP         = 0xA0
	_SETSEGMENTREMAP  = 0xA1
	_SETMULTIPLEX     = 0xA8
	_COMSCANINC       = 0xC0
	_COMSCANDEC       = 0xC8
	_SETDISPLAYOFFSET = 0xD3
	_SETCOMPINS       = 0xDA
)

// Timing and driving scheme commands.
const (
	_SETDISPLAYCLOCKDIV = 0xD5
	_SETPRECHARGE       = 0xD9
	_SETVCOMDETECT      = 0xDB
	_NOP                = 0xE3
)

// Control bytes. See page 20.
const (
	i2cCmd  = 0x80 // Co=1, D/C#=0: the next byte is a command byte.
	i2cData = 0x40 // Co=0, D/C#=1: the rest of the transaction is GDDRAM data.
)
