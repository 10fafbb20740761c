// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image"
	"testing"

	"github.com/GermanBionicSystems/ssd1306/ssd1306"
	"github.com/GermanBionicSystems/ssd1306/ssd1306/image1bit"
	"github.com/GermanBionicSystems/ssd1306/ssd1306/ssd1306test"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func countLit(img *image1bit.VerticalLSB) int {
	n := 0
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			if img.BitAt(x, y) {
				n++
			}
		}
	}
	return n
}

func TestDrawText(t *testing.T) {
	bus := ssd1306test.New(128, 32)
	dev, err := ssd1306.NewI2C(bus, nil)
	if err != nil {
		t.Fatal(err)
	}
	img, err := drawText(dev.Bounds(), "periph")
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if n := countLit(bus.Frame()); n == 0 {
		t.Fatal("no text visible")
	}
}

func TestDrawBasicText(t *testing.T) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 32))
	drawBasicText(img, "Hi")
	if n := countLit(img); n == 0 {
		t.Fatal("no text drawn")
	}
	// Nothing past the second glyph.
	for y := 0; y < 32; y++ {
		for x := 14; x < 128; x++ {
			if img.BitAt(x, y) {
				t.Fatalf("unexpected pixel at (%d, %d)", x, y)
			}
		}
	}
}

func TestDrawRects(t *testing.T) {
	r := image.Rect(0, 0, 128, 32)
	img := image1bit.NewVerticalLSB(r)
	b := drawRects(r)
	for y := 0; y < 32; y++ {
		for x := 0; x < 128; x++ {
			img.Set(x, y, b.At(x, y))
		}
	}
	for _, p := range []image.Point{{0, 0}, {127, 0}, {0, 31}, {127, 31}, {3, 3}} {
		if !img.BitAt(p.X, p.Y) {
			t.Errorf("%v not lit", p)
		}
	}
	if img.BitAt(1, 1) {
		t.Error("(1, 1) should be off")
	}
}

func TestDrawSine(t *testing.T) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	drawSine(img)
	if !img.BitAt(0, 31) || !img.BitAt(63, 0) {
		t.Fatal("axes missing")
	}
	// sin(0) is on the middle line.
	if !img.BitAt(0, 32) {
		t.Fatal("wave missing")
	}
}

func TestMatchPin(t *testing.T) {
	p := &gpiotest.Pin{N: "GPIO2", Num: 2}
	for _, tc := range []struct {
		want  string
		match bool
	}{
		{"", true},
		{"GPIO2", true},
		{"2", true},
		{"GPIO3", false},
		{"3", false},
	} {
		if got := matchPin(p, tc.want); got != tc.match {
			t.Errorf("matchPin(%q) = %t", tc.want, got)
		}
	}
}
