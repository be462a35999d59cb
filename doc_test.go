// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dwuart

import (
	"runtime/debug"
	"testing"
)

func TestVersionOf(t *testing.T) {
	for _, tc := range []struct {
		name    string
		info    *debug.BuildInfo
		version string
		sum     string
	}{
		{
			name: "nil",
		},
		{
			name: "main",
			info: &debug.BuildInfo{
				Main: debug.Module{Path: modulePath, Version: "(devel)"},
			},
			version: "(devel)",
		},
		{
			name: "dep",
			info: &debug.BuildInfo{
				Main: debug.Module{Path: "example.org/app"},
				Deps: []*debug.Module{
					{Path: "golang.org/x/sys", Version: "v0.7.0"},
					{Path: modulePath, Version: "v0.1.0", Sum: "h1:xyz"},
				},
			},
			version: "v0.1.0",
			sum:     "h1:xyz",
		},
		{
			name: "replace-path-version",
			info: &debug.BuildInfo{
				Deps: []*debug.Module{{
					Path:    modulePath,
					Version: "v0.1.0",
					Replace: &debug.Module{Path: "example.org/fork", Version: "v0.2.0", Sum: "h1:abc"},
				}},
			},
			version: "example.org/fork v0.2.0",
			sum:     "h1:abc",
		},
		{
			name: "replace-version",
			info: &debug.BuildInfo{
				Deps: []*debug.Module{{
					Path:    modulePath,
					Version: "v0.1.0",
					Replace: &debug.Module{Version: "v0.3.0", Sum: "h1:r"},
				}},
			},
			version: "v0.3.0",
			sum:     "h1:r",
		},
		{
			name: "replace-local",
			info: &debug.BuildInfo{
				Deps: []*debug.Module{{
					Path:    modulePath,
					Version: "v0.1.0",
					Replace: &debug.Module{},
				}},
			},
			version: "v0.1.0*",
		},
		{
			name: "missing",
			info: &debug.BuildInfo{
				Main: debug.Module{Path: "example.org/app"},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			version, sum := versionOf(tc.info)
			if got, want := version, tc.version; got != want {
				t.Fatalf("invalid version: got=%q, want=%q", got, want)
			}
			if got, want := sum, tc.sum; got != want {
				t.Fatalf("invalid sum: got=%q, want=%q", got, want)
			}
		})
	}
}
