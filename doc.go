// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dwuart holds code to inspect DesignWare UART peripherals.
package dwuart // import "github.com/go-lpc/dwuart"

import "runtime/debug"

const modulePath = "github.com/go-lpc/dwuart"

// Version returns the version of dwuart and its checksum.
// The returned values are only valid in binaries built with module support.
func Version() (version, sum string) {
	b, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	return versionOf(b)
}

func versionOf(b *debug.BuildInfo) (version, sum string) {
	m := moduleOf(b)
	if m == nil {
		return "", ""
	}

	r := m.Replace
	switch {
	case r == nil:
		return m.Version, m.Sum
	case r.Path != "" && r.Version != "":
		return r.Path + " " + r.Version, r.Sum
	case r.Version != "":
		return r.Version, r.Sum
	case r.Path != "":
		return r.Path, r.Sum
	}
	// replaced by a local directory.
	return m.Version + "*", ""
}

// moduleOf returns the dwuart module from the build information, either
// as the main module or as a dependency.
func moduleOf(b *debug.BuildInfo) *debug.Module {
	if b == nil {
		return nil
	}
	if b.Main.Path == modulePath {
		return &b.Main
	}
	for _, m := range b.Deps {
		if m.Path == modulePath {
			return m
		}
	}
	return nil
}
