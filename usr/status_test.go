// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package usr

import (
	"testing"
)

type flags struct {
	rff, rfne, tfe, tfnf, busy bool
}

func flagsOf(s Status) flags {
	return flags{
		rff:  s.ReceiveFIFOFull(),
		rfne: s.ReceiveFIFONotEmpty(),
		tfe:  s.TransmitFIFOEmpty(),
		tfnf: s.TransmitFIFONotFull(),
		busy: s.Busy(),
	}
}

func TestStatusDecode(t *testing.T) {
	for _, tc := range []struct {
		bits uint8
		want flags
	}{
		{
			bits: 0x13,
			want: flags{busy: true, tfnf: true, rff: true},
		},
		{
			bits: 0x00,
			want: flags{},
		},
		{
			bits: 0x1f,
			want: flags{rff: true, rfne: true, tfe: true, tfnf: true, busy: true},
		},
		{
			bits: 0xe0,
			want: flags{},
		},
		{
			bits: 0xff,
			want: flags{rff: true, rfne: true, tfe: true, tfnf: true, busy: true},
		},
		{
			bits: 0x03,
			want: flags{busy: true, tfnf: true},
		},
		{
			bits: 0x06,
			want: flags{tfe: true, tfnf: true},
		},
	} {
		t.Run("", func(t *testing.T) {
			s := Status(tc.bits)
			if got, want := flagsOf(s), tc.want; got != want {
				t.Fatalf("invalid flags for 0x%02x:\ngot= %+v\nwant=%+v", tc.bits, got, want)
			}
			if got, want := s.Bits(), tc.bits; got != want {
				t.Fatalf("invalid bits: got=0x%02x, want=0x%02x", got, want)
			}
		})
	}
}

func TestStatusMasks(t *testing.T) {
	for i := 0; i < 256; i++ {
		var (
			b = uint8(i)
			s = Status(b)
		)
		for _, tc := range []struct {
			name string
			got  bool
			mask uint8
		}{
			{"rff", s.ReceiveFIFOFull(), 0b10000},
			{"rfne", s.ReceiveFIFONotEmpty(), 0b01000},
			{"tfe", s.TransmitFIFOEmpty(), 0b00100},
			{"tfnf", s.TransmitFIFONotFull(), 0b00010},
			{"busy", s.Busy(), 0b00001},
		} {
			if got, want := tc.got, b&tc.mask != 0; got != want {
				t.Fatalf("invalid %s for 0x%02x: got=%v, want=%v", tc.name, b, got, want)
			}
		}
	}
}

func TestStatusRebuild(t *testing.T) {
	bit := func(ok bool, mask uint8) uint8 {
		if ok {
			return mask
		}
		return 0
	}
	for i := 0; i < 256; i++ {
		var (
			b = uint8(i)
			s = Status(b)
		)
		v := b &^ 0x1f
		v |= bit(s.ReceiveFIFOFull(), 1<<4)
		v |= bit(s.ReceiveFIFONotEmpty(), 1<<3)
		v |= bit(s.TransmitFIFOEmpty(), 1<<2)
		v |= bit(s.TransmitFIFONotFull(), 1<<1)
		v |= bit(s.Busy(), 1<<0)
		if v != b {
			t.Fatalf("invalid rebuilt status: got=0x%02x, want=0x%02x", v, b)
		}
	}
}

func TestStatusIndependence(t *testing.T) {
	diff := func(a, b flags) int {
		n := 0
		for _, v := range [][2]bool{
			{a.rff, b.rff},
			{a.rfne, b.rfne},
			{a.tfe, b.tfe},
			{a.tfnf, b.tfnf},
			{a.busy, b.busy},
		} {
			if v[0] != v[1] {
				n++
			}
		}
		return n
	}

	for i := 0; i < 256; i++ {
		s := Status(i)
		for bit := 0; bit < 8; bit++ {
			var (
				o    = s ^ Status(1<<bit)
				want = 0
			)
			if bit < 5 {
				want = 1
			}
			if got := diff(flagsOf(s), flagsOf(o)); got != want {
				t.Fatalf(
					"toggling bit %d of 0x%02x changed %d predicates, want %d",
					bit, uint8(s), got, want,
				)
			}
		}
	}
}

func TestStatusString(t *testing.T) {
	for _, tc := range []struct {
		s    Status
		want string
	}{
		{0x00, "usr=0x00 []"},
		{0x13, "usr=0x13 [busy tfnf rff]"},
		{0x06, "usr=0x06 [tfnf tfe]"},
		{0xff, "usr=0xff [busy tfnf tfe rfne rff]"},
	} {
		t.Run(tc.want, func(t *testing.T) {
			if got, want := tc.s.String(), tc.want; got != want {
				t.Fatalf("invalid string: got=%q, want=%q", got, want)
			}
		})
	}
}
