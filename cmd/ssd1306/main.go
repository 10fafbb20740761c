// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// ssd1306 writes to a SSD1306 OLED panel on I²C.
//
// Without hardware, -emulate prints what the panel would show on the
// terminal, and -http serves it as an MJPEG stream.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/GermanBionicSystems/ssd1306/ssd1306"
	"github.com/GermanBionicSystems/ssd1306/ssd1306/ssd1306test"
	"github.com/GermanBionicSystems/ssd1306/termscreen"
	"github.com/GermanBionicSystems/ssd1306/videosink"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func mainImpl() error {
	busName := flag.String("bus", "", "I²C bus to use")
	sda := flag.String("sda", "", "select the I²C bus by its SDA pin name or number")
	scl := flag.String("scl", "", "select the I²C bus by its SCL pin name or number")
	w := flag.Int("w", ssd1306.DefaultOpts.W, "display width")
	h := flag.Int("h", ssd1306.DefaultOpts.H, "display height")
	text := flag.String("text", "periph", "text to display")
	face := flag.String("font", "go", "font to use for -text: go or basic")
	pattern := flag.String("pattern", "text", "what to draw: text, rects or sine")
	emulate := flag.Bool("emulate", false, "use an emulated controller printed on the terminal")
	httpAddr := flag.String("http", "", "serve the emulated panel as MJPEG on this address, e.g. :8010")
	invert := flag.Bool("invert", false, "invert the display")
	contrast := flag.Int("contrast", -1, "contrast level 0-255")
	clearAtExit := flag.Bool("clear", false, "clear the display before exiting")
	hold := flag.Duration("hold", 0, "wait before exiting; with -http, waits for Ctrl-C")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if !*verbose {
		log.SetOutput(ioutil.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	if *contrast > 255 {
		return fmt.Errorf("invalid contrast %d", *contrast)
	}

	var b i2c.BusCloser
	if *emulate {
		e := ssd1306test.New(*w, *h)
		e.Sinks = append(e.Sinks, termscreen.New(&termscreen.Opts{W: *w, H: *h}))
		if *httpAddr != "" {
			vs := videosink.New(&videosink.Options{Width: *w, Height: *h})
			e.Sinks = append(e.Sinks, vs)
			go func() {
				log.Printf("Serving on %s", *httpAddr)
				if err := http.ListenAndServe(*httpAddr, vs); err != nil {
					log.Printf("http: %v", err)
				}
			}()
		}
		defer haltSinks(e.Sinks)
		b = e
	} else {
		if _, err := host.Init(); err != nil {
			return err
		}
		var err error
		if b, err = openBus(*busName, *sda, *scl); err != nil {
			return err
		}
	}
	defer b.Close()
	log.Printf("Using %s", b)

	dev, err := ssd1306.NewI2C(b, &ssd1306.Opts{W: *w, H: *h})
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("Initialized %s", dev)
	if *contrast >= 0 {
		if err := dev.SetContrast(byte(*contrast)); err != nil {
			return err
		}
	}
	if *invert {
		if err := dev.Invert(true); err != nil {
			return err
		}
	}

	switch *pattern {
	case "text":
		if *face == "basic" {
			drawBasicText(dev.Bitmap(), *text)
			err = dev.Render()
		} else {
			var img image.Image
			if img, err = drawText(dev.Bounds(), *text); err == nil {
				err = dev.Draw(dev.Bounds(), img, image.Point{})
			}
		}
	case "rects":
		err = dev.Draw(dev.Bounds(), drawRects(dev.Bounds()), image.Point{})
	case "sine":
		drawSine(dev.Bitmap())
		err = dev.Render()
	default:
		return fmt.Errorf("unknown pattern %q", *pattern)
	}
	if err != nil {
		return err
	}

	if *hold > 0 {
		time.Sleep(*hold)
	} else if *httpAddr != "" {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c
	}
	if *clearAtExit {
		return dev.Clear()
	}
	return nil
}

// openBus opens the I²C bus by name or, when a pin is specified, the first
// bus whose pins match.
func openBus(name, sda, scl string) (i2c.BusCloser, error) {
	if sda == "" && scl == "" {
		return i2creg.Open(name)
	}
	for _, ref := range i2creg.All() {
		if name != "" && ref.Name != name {
			continue
		}
		b, err := ref.Open()
		if err != nil {
			log.Printf("%s: %v", ref.Name, err)
			continue
		}
		if p, ok := b.(i2c.Pins); ok && matchPin(p.SDA(), sda) && matchPin(p.SCL(), scl) {
			return b, nil
		}
		_ = b.Close()
	}
	return nil, fmt.Errorf("no I²C bus with SDA=%q SCL=%q", sda, scl)
}

func matchPin(p gpio.PinIO, want string) bool {
	return want == "" || p.Name() == want || strconv.Itoa(p.Number()) == want
}

func haltSinks(sinks []display.Drawer) {
	for _, s := range sinks {
		if err := s.Halt(); err != nil {
			log.Printf("%s: %v", s, err)
		}
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "ssd1306: %s.\n", err)
		os.Exit(1)
	}
}
