// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package videosink

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/textproto"
	"strconv"
)

// snapshot returns the current frame encoded in format.
//
// Encoded frames are cached until the next Draw so that many clients cost a
// single encoding.
func (d *Display) snapshot(format ImageFormat) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.cache[format]; ok && s.gen == d.gen {
		return s.data, nil
	}
	data, err := format.encode(d.renderLocked())
	if err != nil {
		return nil, err
	}
	d.cache[format] = encodedFrame{gen: d.gen, data: data}
	return data, nil
}

func (d *Display) register() (chan struct{}, <-chan struct{}) {
	refresh := make(chan struct{}, 1)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clients[refresh] = struct{}{}
	return refresh, d.stop
}

func (d *Display) unregister(refresh chan struct{}) {
	d.mu.Lock()
	delete(d.clients, refresh)
	d.mu.Unlock()
}

// ServeHTTP handles HTTP GET requests and sends a stream of images
// representing the panel in response. The display options control the
// default format and clients can explicitly request PNG or JPEG images using
// the "format" parameter ("?format=png", "?format=jpeg").
func (d *Display) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.Body.Close(); err != nil {
		log.Printf("Closing request body failed: %v", err)
	}
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	format := d.defaultFormat
	if value := r.URL.Query().Get("format"); value != "" {
		f, err := ImageFormatFromString(value)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}

	pw := partWriter{w: w, boundary: randomBoundary()}
	w.Header().Set("Content-Type", mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{"boundary": pw.boundary}))

	refresh, stop := d.register()
	defer d.unregister(refresh)

	header := textproto.MIMEHeader{}
	header.Set("Content-Type", format.mimeType())
	for {
		payload, err := d.snapshot(format)
		if err != nil {
			log.Printf("Encoding %s frame failed: %v", format, err)
			return
		}
		// Errors cause the request to be silently terminated. There's no good
		// way to deliver an error message to the client within an image
		// stream.
		if err := pw.writeFrame(header, payload); err != nil {
			return
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		select {
		case <-refresh:
		case <-stop:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// randomBoundary generates a MIME multipart boundary compatible with RFC 2046
// (section 5.1.1).
func randomBoundary() string {
	var buf [30]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%x", buf[:])
}

// partWriter writes a never ending multipart entity.
//
// "mime/multipart".Writer only writes the boundary that ends a part when the
// next part starts, so the client would always be one frame late.
type partWriter struct {
	w        io.Writer
	boundary string
	started  bool
}

// writeFrame sends one part, including the boundary that terminates it.
func (p *partWriter) writeFrame(header textproto.MIMEHeader, body []byte) error {
	var buf bytes.Buffer
	if !p.started {
		fmt.Fprintf(&buf, "--%s\r\n", p.boundary)
		p.started = true
	}
	header.Set("Content-Length", strconv.Itoa(len(body)))
	for name, values := range header {
		for _, v := range values {
			fmt.Fprintf(&buf, "%s: %s\r\n", name, v)
		}
	}
	buf.WriteString("\r\n")
	buf.Write(body)
	fmt.Fprintf(&buf, "\r\n--%s\r\n", p.boundary)
	_, err := buf.WriteTo(p.w)
	return err
}
