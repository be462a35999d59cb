// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package periph maps DesignWare UART peripherals and binds their
// status register.
package periph // import "github.com/go-lpc/dwuart/periph"

import (
	"fmt"
	"log"
	"os"
	"unsafe"

	"github.com/go-lpc/dwuart/internal/mmap"
	"github.com/go-lpc/dwuart/usr"
)

// DefaultOffset is the offset of the status register within a
// DesignWare APB UART register block.
const DefaultOffset = 0x7c

// Config describes where the status register of a UART lives.
type Config struct {
	Name   string `yaml:"name"`
	Base   int64  `yaml:"base"`   // physical address of the register block
	Span   int64  `yaml:"span"`   // size of the mapped window
	Offset int64  `yaml:"offset"` // offset of USR within the window
	Width  int    `yaml:"width"`  // bus width of USR, in bits
}

// StatusRegister is the view of a status register, whatever its width.
type StatusRegister interface {
	Read() usr.Status
	Write(s usr.Status)
}

var (
	_ StatusRegister = (*usr.USR[uint8])(nil)
	_ StatusRegister = (*usr.USR[uint16])(nil)
	_ StatusRegister = (*usr.USR[uint32])(nil)
)

// Device is a mapped UART peripheral.
type Device struct {
	msg *log.Logger
	cfg Config
	mem struct {
		fd *os.File
		h  *mmap.Handle
	}
	usr StatusRegister
}

// Option configures a Device.
type Option func(dev *Device)

// WithLogger sets the logger used by the device.
func WithLogger(msg *log.Logger) Option {
	return func(dev *Device) {
		dev.msg = msg
	}
}

func newDevice(cfg Config, opts ...Option) *Device {
	dev := &Device{
		msg: log.New(os.Stdout, "dwuart: ", 0),
		cfg: cfg,
	}
	for _, opt := range opts {
		opt(dev)
	}
	return dev
}

// Open maps the register block described by cfg from the devmem
// memory device (usually /dev/mem) and binds its status register.
func Open(devmem string, cfg Config, opts ...Option) (*Device, error) {
	mem, err := os.OpenFile(devmem, os.O_RDWR|os.O_SYNC, 0666)
	if err != nil {
		return nil, fmt.Errorf("dwuart: could not open %q: %w", devmem, err)
	}
	defer func() {
		if err != nil {
			_ = mem.Close()
		}
	}()

	dev := newDevice(cfg, opts...)
	dev.mem.fd = mem

	dev.mem.h, err = mmap.Map(mem, cfg.Base, cfg.Span)
	if err != nil {
		return nil, fmt.Errorf("dwuart: could not map %q: %w", cfg.Name, err)
	}
	defer func() {
		if err != nil {
			_ = dev.mem.h.Close()
		}
	}()

	err = dev.bind()
	if err != nil {
		return nil, err
	}

	dev.msg.Printf(
		"%s: mapped [0x%x, 0x%x), usr@+0x%x (%d-bit)",
		cfg.Name, cfg.Base, cfg.Base+cfg.Span, cfg.Offset, cfg.Width,
	)
	return dev, nil
}

// FromMemory binds the status register described by cfg within mem,
// a caller-owned copy of the register block.
// cfg.Base is ignored.
func FromMemory(mem []byte, cfg Config, opts ...Option) (*Device, error) {
	dev := newDevice(cfg, opts...)
	dev.mem.h = mmap.HandleFrom(mem)

	err := dev.bind()
	if err != nil {
		return nil, err
	}
	return dev, nil
}

func (dev *Device) bind() error {
	size := int64(dev.cfg.Width / 8)
	p, err := dev.mem.h.Ptr(dev.cfg.Offset, size)
	if err != nil {
		return fmt.Errorf("dwuart: could not bind status register of %q: %w", dev.cfg.Name, err)
	}

	dev.usr, err = bindUSR(p, dev.cfg.Width)
	if err != nil {
		return fmt.Errorf("dwuart: could not bind status register of %q: %w", dev.cfg.Name, err)
	}
	return nil
}

func bindUSR(p unsafe.Pointer, width int) (StatusRegister, error) {
	switch width {
	case 8:
		return usr.At[uint8](p), nil
	case 16:
		return usr.At[uint16](p), nil
	case 32:
		return usr.At[uint32](p), nil
	default:
		return nil, fmt.Errorf("invalid register width %d", width)
	}
}

// Name returns the name of the peripheral.
func (dev *Device) Name() string { return dev.cfg.Name }

// USR returns the status register of the peripheral.
// It is valid until the device is closed. The returned value keeps the
// device, and thus its mapping, reachable.
func (dev *Device) USR() StatusRegister {
	if dev.usr == nil {
		return nil
	}
	return boundUSR{StatusRegister: dev.usr, dev: dev}
}

// boundUSR is a status register tied to the device owning its memory.
type boundUSR struct {
	StatusRegister
	dev *Device
}

// Close unmaps the peripheral.
func (dev *Device) Close() error {
	if dev.mem.h == nil {
		return nil
	}

	var (
		errMap = dev.mem.h.Close()
		errMem error
	)
	if dev.mem.fd != nil {
		errMem = dev.mem.fd.Close()
	}

	dev.mem.fd = nil
	dev.mem.h = nil
	dev.usr = nil

	if errMem != nil {
		return fmt.Errorf("dwuart: could not close device mem file: %w", errMem)
	}

	if errMap != nil {
		return fmt.Errorf("dwuart: could not unmap %q: %w", dev.cfg.Name, errMap)
	}

	return nil
}
