// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned when a pixel coordinate falls outside of the
	// display.
	ErrOutOfBounds = errors.New("ssd1306: pixel out of bounds")
	// ErrInvalidGeometry is returned by NewI2C for unsupported panel sizes.
	ErrInvalidGeometry = errors.New("ssd1306: invalid geometry")
)

// TransportError is returned when the I²C bus fails to carry a transaction,
// for example because no device acknowledged the address.
//
// The driver never retries. When Render fails the in-memory frame is left
// untouched and the panel keeps showing the last frame sent successfully.
type TransportError struct {
	// Op is the driver operation that was in flight, "command" or "data".
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ssd1306: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
