// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1306 controls a monochrome OLED display via a SSD1306 controller
// on I²C.
//
// The driver owns a frame buffer laid out exactly like the controller's
// GDDRAM (see package image1bit). Callers draw on the frame buffer, then call
// Render to send it. Every Render retransmits the full frame in a single data
// transaction; there is no dirty region tracking. At the default I²C speed of
// 100kHz a 128x32 frame takes about 50ms.
//
// The I²C bus is passed in by the caller and may be shared with other
// devices. The driver never retries a failed transaction, the error is
// returned as a *TransportError.
//
// Out of range pixel coordinates passed to Pixel or SetPixel return an error
// wrapping ErrOutOfBounds; drawing through Bitmap() or Draw silently clips, as
// the image package does.
//
// # More details
//
// See https://periph.io/device/ssd1306/ for more details about the device.
//
// # Datasheets
//
// Product page:
//
// http://www.solomon-systech.com/en/product/display-ic/oled-driver-controller/ssd1306/
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf
//
// "DM-OLED096-624": https://drive.google.com/file/d/0B5lkVYnewKTGaEVENlYwbDkxSGM/view
package ssd1306
