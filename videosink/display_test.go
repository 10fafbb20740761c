// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package videosink

import (
	"bufio"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GermanBionicSystems/ssd1306/ssd1306/image1bit"
)

func TestNewHalt(t *testing.T) {
	d := New(&Options{Width: 128, Height: 32})
	if d.String() != "VideoSink{(128,32)}" {
		t.Errorf("String() = %q", d.String())
	}
	if d.Bounds() != image.Rect(0, 0, 128, 32) || d.ColorModel() != image1bit.BitModel {
		t.Errorf("unexpected geometry")
	}
	if err := d.Halt(); err != nil {
		t.Errorf("Halt() failed: %v", err)
	}
	if err := d.Halt(); err != nil {
		t.Errorf("second Halt() failed: %v", err)
	}
}

func TestRender(t *testing.T) {
	d := New(&Options{Width: 16, Height: 8, Scale: 2, On: color.NRGBA{0, 0, 255, 255}})
	img := image1bit.NewVerticalLSB(d.Bounds())
	img.SetBit(3, 1, image1bit.On)
	if err := d.Draw(d.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	d.mu.Lock()
	out := d.renderLocked()
	d.mu.Unlock()
	if out.Bounds() != image.Rect(0, 0, 32, 16) {
		t.Fatalf("Bounds() = %v", out.Bounds())
	}
	for _, p := range []image.Point{{6, 2}, {7, 2}, {6, 3}, {7, 3}} {
		if got := out.At(p.X, p.Y); got != (color.NRGBA{0, 0, 255, 255}) {
			t.Errorf("%v = %v", p, got)
		}
	}
	if got := out.At(5, 2); got != color.Black {
		t.Errorf("(5, 2) = %v", got)
	}
}

func TestSnapshotCache(t *testing.T) {
	d := New(&Options{Width: 8, Height: 8})
	a, err := d.snapshot(PNG)
	if err != nil {
		t.Fatal(err)
	}
	b, err := d.snapshot(PNG)
	if err != nil {
		t.Fatal(err)
	}
	if &a[0] != &b[0] {
		t.Error("snapshot was encoded twice")
	}
	if err := d.Draw(d.Bounds(), &image.Uniform{image1bit.On}, image.Point{}); err != nil {
		t.Fatal(err)
	}
	c, err := d.snapshot(PNG)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, c) {
		t.Error("stale snapshot after Draw()")
	}
}

func TestServeHTTP_errors(t *testing.T) {
	d := New(&Options{Width: 8, Height: 8})
	for _, tc := range []struct {
		method, target string
		want           int
	}{
		{http.MethodPost, "/", http.StatusMethodNotAllowed},
		{http.MethodGet, "/?format=gif", http.StatusBadRequest},
	} {
		rec := httptest.NewRecorder()
		d.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))
		if rec.Code != tc.want {
			t.Errorf("%s %s: status %d, want %d", tc.method, tc.target, rec.Code, tc.want)
		}
	}
}

func TestServeHTTP_stream(t *testing.T) {
	d := New(&Options{Width: 16, Height: 8, Scale: 1})
	srv := httptest.NewServer(d)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/?format=png", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/x-mixed-replace" {
		t.Fatalf("Content-Type %q: %v", resp.Header.Get("Content-Type"), err)
	}
	mr := multipart.NewReader(bufio.NewReader(resp.Body), params["boundary"])

	readFrame := func() image.Image {
		part, err := mr.NextPart()
		if err != nil {
			t.Fatal(err)
		}
		if got := part.Header.Get("Content-Type"); got != "image/png" {
			t.Fatalf("part Content-Type %q", got)
		}
		raw, err := ioutil.ReadAll(part)
		if err != nil {
			t.Fatal(err)
		}
		img, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			t.Fatal(err)
		}
		return img
	}

	first := readFrame()
	if first.Bounds() != image.Rect(0, 0, 16, 8) {
		t.Fatalf("Bounds() = %v", first.Bounds())
	}
	if r, _, _, _ := first.At(2, 2).RGBA(); r != 0 {
		t.Fatal("expected a blank first frame")
	}

	img := image1bit.NewVerticalLSB(d.Bounds())
	img.SetBit(2, 2, image1bit.On)
	if err := d.Draw(d.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	second := readFrame()
	if r, _, _, _ := second.At(2, 2).RGBA(); r != 0xFFFF {
		t.Fatal("expected the pixel to be lit")
	}

	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
}
