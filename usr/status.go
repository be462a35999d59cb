// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package usr

import (
	"fmt"
	"strings"
)

// Status is the bit pattern of the UART status register.
// Bits 5 to 7 are kept as-is but carry no meaning.
type Status uint8

const (
	statusBUSY Status = 1 << 0 // line busy
	statusTFNF Status = 1 << 1 // transmit FIFO not full
	statusTFE  Status = 1 << 2 // transmit FIFO empty
	statusRFNE Status = 1 << 3 // receive FIFO not empty
	statusRFF  Status = 1 << 4 // receive FIFO full
)

// Bits returns the raw bit pattern of the status.
func (s Status) Bits() uint8 { return uint8(s) }

// ReceiveFIFOFull reports whether the receive FIFO is full.
func (s Status) ReceiveFIFOFull() bool { return s&statusRFF != 0 }

// ReceiveFIFONotEmpty reports whether the receive FIFO holds at least one byte.
func (s Status) ReceiveFIFONotEmpty() bool { return s&statusRFNE != 0 }

// TransmitFIFOEmpty reports whether the transmit FIFO is empty.
func (s Status) TransmitFIFOEmpty() bool { return s&statusTFE != 0 }

// TransmitFIFONotFull reports whether the transmit FIFO can accept a byte.
func (s Status) TransmitFIFONotFull() bool { return s&statusTFNF != 0 }

// Busy reports whether the serial line is transferring.
func (s Status) Busy() bool { return s&statusBUSY != 0 }

func (s Status) String() string {
	o := new(strings.Builder)
	fmt.Fprintf(o, "usr=0x%02x [", uint8(s))
	sep := ""
	for _, f := range []struct {
		ok   bool
		name string
	}{
		{s.Busy(), "busy"},
		{s.TransmitFIFONotFull(), "tfnf"},
		{s.TransmitFIFOEmpty(), "tfe"},
		{s.ReceiveFIFONotEmpty(), "rfne"},
		{s.ReceiveFIFOFull(), "rff"},
	} {
		if !f.ok {
			continue
		}
		o.WriteString(sep)
		o.WriteString(f.name)
		sep = " "
	}
	o.WriteString("]")
	return o.String()
}
