// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package usr

import (
	"unsafe"

	"github.com/go-lpc/dwuart/internal/mmio"
)

// Register is the set of bus widths a status register may be exposed at.
// Only the low byte carries status bits.
type Register interface {
	~uint8 | ~uint16 | ~uint32
}

// From returns the register word holding v, zero-extended.
func From[R Register](v uint8) R {
	return R(v)
}

// Val returns the low byte of the register word r.
func Val[R Register](r R) uint8 {
	return uint8(r)
}

// USR is the UART status register, backed by a word of type R.
type USR[R Register] struct {
	reg R
}

// At returns the status register located at p.
// p must point to a mapped, naturally aligned register of width R
// for as long as the returned value is used.
func At[R Register](p unsafe.Pointer) *USR[R] {
	return (*USR[R])(p)
}

// Write stores s into the register.
func (r *USR[R]) Write(s Status) {
	mmio.Store(&r.reg, From[R](uint8(s)))
}

// Read loads the current value of the register.
func (r *USR[R]) Read() Status {
	return Status(Val(mmio.Load(&r.reg)))
}
