// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package usr gives typed access to the UART status register (USR) of a
// DesignWare-style serial controller.
//
// A USR value is an overlay over the register cell: it is never allocated
// for real hardware but obtained with At from a location owned by the
// peripheral descriptor. Read and Write each perform exactly one
// volatile access; the returned Status decodes the line and FIFO flags.
//
// USR does not serialize accesses. Callers sharing a register between
// goroutines must provide their own mutual exclusion.
package usr // import "github.com/go-lpc/dwuart/usr"
