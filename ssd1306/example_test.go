// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306_test

import (
	"fmt"
	"image"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/GermanBionicSystems/ssd1306/ssd1306"
	"github.com/GermanBionicSystems/ssd1306/ssd1306/image1bit"
	"github.com/GermanBionicSystems/ssd1306/ssd1306/ssd1306test"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use i2creg I²C bus registry to find the first available I²C bus.
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	dev, err := ssd1306.NewI2C(b, &ssd1306.DefaultOpts)
	if err != nil {
		log.Fatalf("failed to initialize display: %v", err)
	}

	// Draw on the frame buffer, then send it.
	f := basicfont.Face7x13
	drawer := font.Drawer{
		Dst:  dev.Bitmap(),
		Src:  &image.Uniform{image1bit.On},
		Face: f,
		Dot:  fixed.P(0, dev.Bounds().Dy()-1-f.Descent),
	}
	drawer.DrawString("Hello from periph!")
	if err := dev.Render(); err != nil {
		log.Fatal(err)
	}
}

func ExampleDev_SetPixel() {
	// The emulated controller stands in for real hardware.
	bus := ssd1306test.New(128, 32)
	dev, err := ssd1306.NewI2C(bus, nil)
	if err != nil {
		log.Fatal(err)
	}
	for x := 0; x < 128; x++ {
		if err := dev.SetPixel(x, 8, image1bit.On); err != nil {
			log.Fatal(err)
		}
	}
	if err := dev.Render(); err != nil {
		log.Fatal(err)
	}
	fmt.Println(bus.Frame().BitAt(64, 8))
	fmt.Println(dev.SetPixel(128, 0, image1bit.On))
	// Output:
	// On
	// ssd1306: pixel out of bounds: (128, 0) outside (0,0)-(128,32)
}
