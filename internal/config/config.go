// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the description of UART peripherals from YAML files.
package config // import "github.com/go-lpc/dwuart/internal/config"

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-lpc/dwuart/periph"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDevMem = "/dev/mem"
	DefaultSpan   = 0x1000
	DefaultWidth  = 32

	pageSize = 0x1000
)

// Config is the content of a configuration file.
//
//	devmem: /dev/mem
//	uarts:
//	  - name: uart0
//	    base: 0x02500000
//	    width: 32
type Config struct {
	DevMem string
	UARTs  []periph.Config
}

// file is the on-disk layout of a configuration.
// Optional fields are pointers so an explicit zero is told apart
// from a missing field.
type file struct {
	DevMem string `yaml:"devmem"`
	UARTs  []struct {
		Name   string `yaml:"name"`
		Base   int64  `yaml:"base"`
		Span   *int64 `yaml:"span"`
		Offset *int64 `yaml:"offset"`
		Width  *int   `yaml:"width"`
	} `yaml:"uarts"`
}

func (f *file) config() *Config {
	cfg := &Config{
		DevMem: f.DevMem,
		UARTs:  make([]periph.Config, len(f.UARTs)),
	}
	if cfg.DevMem == "" {
		cfg.DevMem = DefaultDevMem
	}

	for i, u := range f.UARTs {
		cfg.UARTs[i] = periph.Config{
			Name:   u.Name,
			Base:   u.Base,
			Span:   DefaultSpan,
			Offset: periph.DefaultOffset,
			Width:  DefaultWidth,
		}
		if u.Span != nil {
			cfg.UARTs[i].Span = *u.Span
		}
		if u.Offset != nil {
			cfg.UARTs[i].Offset = *u.Offset
		}
		if u.Width != nil {
			cfg.UARTs[i].Width = *u.Width
		}
	}
	return cfg
}

// Load reads the configuration file fname, fills in defaults for
// missing fields and validates the result.
func Load(fname string) (*Config, error) {
	raw, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("config: could not read %q: %w", fname, err)
	}

	var f file
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	err = dec.Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("config: could not decode %q: %w", fname, err)
	}

	cfg := f.config()
	err = Validate(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: invalid %q: %w", fname, err)
	}

	return cfg, nil
}

// Validate checks that every UART can be mapped and bound.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil configuration")
	}
	if len(cfg.UARTs) == 0 {
		return fmt.Errorf("no UART configured")
	}

	names := make(map[string]struct{}, len(cfg.UARTs))
	for i, u := range cfg.UARTs {
		if u.Name == "" {
			return fmt.Errorf("uart #%d: missing name", i)
		}
		if _, dup := names[u.Name]; dup {
			return fmt.Errorf("uart %q: duplicate name", u.Name)
		}
		names[u.Name] = struct{}{}

		switch u.Width {
		case 8, 16, 32:
		default:
			return fmt.Errorf("uart %q: invalid width %d (want 8, 16 or 32)", u.Name, u.Width)
		}

		if u.Base < 0 || u.Base%pageSize != 0 {
			return fmt.Errorf("uart %q: base 0x%x is not page aligned", u.Name, u.Base)
		}
		if u.Span <= 0 {
			return fmt.Errorf("uart %q: invalid span %d", u.Name, u.Span)
		}

		size := int64(u.Width / 8)
		if u.Offset < 0 || u.Offset > u.Span-size {
			return fmt.Errorf("uart %q: offset 0x%x outside of span 0x%x", u.Name, u.Offset, u.Span)
		}
		if u.Offset%size != 0 {
			return fmt.Errorf("uart %q: offset 0x%x is not %d-byte aligned", u.Name, u.Offset, size)
		}
	}

	return nil
}
