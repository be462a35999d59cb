// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mmio provides volatile-equivalent loads and stores for
// memory-mapped registers.
//
// Every access goes through a non-inlined function so the compiler
// can neither cache, elide, split nor merge it, and accesses through
// the same pointer are issued in program order.
package mmio // import "github.com/go-lpc/dwuart/internal/mmio"

import "unsafe"

// Word is the set of register widths supported by Load and Store.
type Word interface {
	~uint8 | ~uint16 | ~uint32
}

// Load performs a single load of the register at p.
func Load[W Word](p *W) W {
	switch unsafe.Sizeof(*p) {
	case 1:
		return W(load8((*uint8)(unsafe.Pointer(p))))
	case 2:
		return W(load16((*uint16)(unsafe.Pointer(p))))
	default:
		return W(load32((*uint32)(unsafe.Pointer(p))))
	}
}

// Store performs a single store of v to the register at p.
func Store[W Word](p *W, v W) {
	switch unsafe.Sizeof(*p) {
	case 1:
		store8((*uint8)(unsafe.Pointer(p)), uint8(v))
	case 2:
		store16((*uint16)(unsafe.Pointer(p)), uint16(v))
	default:
		store32((*uint32)(unsafe.Pointer(p)), uint32(v))
	}
}

//go:noinline
//go:nosplit
func load8(p *uint8) uint8 {
	return *p
}

//go:noinline
//go:nosplit
func load16(p *uint16) uint16 {
	return *p
}

//go:noinline
//go:nosplit
func load32(p *uint32) uint32 {
	return *p
}

//go:noinline
//go:nosplit
func store8(p *uint8, v uint8) {
	*p = v
}

//go:noinline
//go:nosplit
func store16(p *uint16, v uint16) {
	*p = v
}

//go:noinline
//go:nosplit
func store32(p *uint32, v uint32) {
	*p = v
}
