// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mmap exposes memory windows holding peripheral registers.
package mmap // import "github.com/go-lpc/dwuart/internal/mmap"

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

var (
	errClosed = errors.New("mmap: closed")
)

// Handle is a window of memory holding device registers.
type Handle struct {
	data  []byte
	unmap func([]byte) error
}

// Map maps span bytes of f, starting at base, for reading and writing.
// The window is unmapped by Close.
func Map(f *os.File, base, span int64) (*Handle, error) {
	data, err := unix.Mmap(
		int(f.Fd()), base, int(span),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED,
	)
	if err != nil {
		return nil, fmt.Errorf("mmap: could not map [0x%x, 0x%x): %w", base, base+span, err)
	}
	if data == nil || int64(len(data)) != span {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("mmap: invalid mmap'd data: %d", len(data))
	}

	h := &Handle{data: data, unmap: unix.Munmap}
	runtime.SetFinalizer(h, (*Handle).Close)
	return h, nil
}

// HandleFrom returns a window over data.
// The memory is owned by the caller and is left alone by Close.
func HandleFrom(data []byte) *Handle {
	return &Handle{data: data}
}

// Close releases the window.
func (h *Handle) Close() error {
	if h == nil {
		return os.ErrInvalid
	}

	if h.data == nil {
		return nil
	}
	data := h.data
	h.data = nil
	runtime.SetFinalizer(h, nil)

	if h.unmap == nil {
		return nil
	}
	return h.unmap(data)
}

// Len returns the length of the window.
func (h *Handle) Len() int {
	return len(h.data)
}

// Ptr returns the address of the size-byte cell at offset off.
// The cell must lie within the window and be naturally aligned.
func (h *Handle) Ptr(off, size int64) (unsafe.Pointer, error) {
	if h == nil {
		return nil, os.ErrInvalid
	}

	if h.data == nil {
		return nil, errClosed
	}
	switch size {
	case 1, 2, 4:
	default:
		return nil, fmt.Errorf("mmap: invalid cell size %d", size)
	}
	if off < 0 || off > int64(len(h.data))-size {
		return nil, fmt.Errorf("mmap: invalid offset %d", off)
	}
	p := unsafe.Pointer(&h.data[off])
	if uintptr(p)%uintptr(size) != 0 {
		return nil, fmt.Errorf("mmap: misaligned %d-byte cell at offset 0x%x", size, off)
	}
	return p, nil
}
