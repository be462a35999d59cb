// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command usr-dump displays the status register of DesignWare UARTs.
//
// Usage:
//
//	$> usr-dump -base=0x02500000
//	$> usr-dump -cfg=uarts.yaml -watch=100ms
//	$> usr-dump -base=0x02500000 -width=8 -write=0x06
package main // import "github.com/go-lpc/dwuart/cmd/usr-dump"

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/go-lpc/dwuart"
	"github.com/go-lpc/dwuart/internal/config"
	"github.com/go-lpc/dwuart/periph"
	"github.com/go-lpc/dwuart/usr"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		fname = flag.String("cfg", "", "path to a YAML file describing the UARTs")
		mem   = flag.String("mem", config.DefaultDevMem, "memory device to map")
		name  = flag.String("name", "uart", "name of the UART")
		base  = flag.Int64("base", -1, "physical address of the UART register block")
		span  = flag.Int64("span", config.DefaultSpan, "size of the UART register block")
		off   = flag.Int64("off", periph.DefaultOffset, "offset of the status register")
		width = flag.Int("width", config.DefaultWidth, "width of the status register (8, 16 or 32)")
		write = flag.String("write", "", "status value to write before reading (e.g. 0x13)")
		freq  = flag.Duration("watch", 0, "polling interval (0 reads once)")
		vers  = flag.Bool("version", false, "display version and exit")
	)

	flag.Parse()

	log.SetPrefix("usr-dump: ")
	log.SetFlags(0)

	if *vers {
		v, sum := dwuart.Version()
		fmt.Printf("usr-dump %s %s\n", v, sum)
		return
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := loadConfig(*fname, set, *mem, periph.Config{
		Name:   *name,
		Base:   *base,
		Span:   *span,
		Offset: *off,
		Width:  *width,
	})
	if err != nil {
		log.Fatalf("%+v", err)
	}

	wval, err := parseStatus(*write)
	if err != nil {
		log.Fatalf("%+v", err)
	}

	err = process(cfg, wval, *freq)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func process(cfg *config.Config, write *usr.Status, freq time.Duration) error {
	devs := make([]*periph.Device, 0, len(cfg.UARTs))
	defer func() {
		for _, dev := range devs {
			err := dev.Close()
			if err != nil {
				log.Printf("could not close %q: %+v", dev.Name(), err)
			}
		}
	}()

	for _, u := range cfg.UARTs {
		dev, err := periph.Open(cfg.DevMem, u, periph.WithLogger(log.Default()))
		if err != nil {
			return fmt.Errorf("could not open UART %q: %w", u.Name, err)
		}
		devs = append(devs, dev)
	}

	return run(os.Stdout, devs, write, freq, make(chan os.Signal, 1))
}

// uartFlags describe a single UART and are exclusive with -cfg.
var uartFlags = []string{"mem", "name", "base", "span", "off", "width"}

func loadConfig(fname string, set map[string]bool, devmem string, u periph.Config) (*config.Config, error) {
	if fname != "" {
		for _, name := range uartFlags {
			if set[name] {
				return nil, fmt.Errorf("-%s cannot be combined with -cfg", name)
			}
		}
		return config.Load(fname)
	}

	if u.Base < 0 {
		return nil, fmt.Errorf("missing UART base address (use -base or -cfg)")
	}

	cfg := &config.Config{
		DevMem: devmem,
		UARTs:  []periph.Config{u},
	}

	err := config.Validate(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid UART description: %w", err)
	}
	return cfg, nil
}

func parseStatus(s string) (*usr.Status, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return nil, fmt.Errorf("could not parse status value %q: %w", s, err)
	}
	st := usr.Status(v)
	return &st, nil
}

type device interface {
	Name() string
	USR() periph.StatusRegister
}

var _ device = (*periph.Device)(nil)

func run(w io.Writer, devs []*periph.Device, write *usr.Status, freq time.Duration, stop chan os.Signal) error {
	ds := make([]device, len(devs))
	for i, dev := range devs {
		ds[i] = dev
	}
	return watch(w, ds, write, freq, stop)
}

func watch(w io.Writer, devs []device, write *usr.Status, freq time.Duration, stop chan os.Signal) error {
	signal.Notify(stop, os.Interrupt)
	defer signal.Stop(stop)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	var (
		out       = &syncWriter{w: w}
		grp, gctx = errgroup.WithContext(ctx)
	)
	for _, dev := range devs {
		dev := dev
		// each device is only accessed from its own goroutine.
		grp.Go(func() error {
			return dump(out, dev, write, freq, gctx.Done())
		})
	}

	err := grp.Wait()
	if err != nil {
		return fmt.Errorf("could not dump status registers: %w", err)
	}
	return nil
}

func dump(w io.Writer, dev device, write *usr.Status, freq time.Duration, quit <-chan struct{}) error {
	reg := dev.USR()
	if reg == nil {
		return fmt.Errorf("device %q is closed", dev.Name())
	}

	if write != nil {
		reg.Write(*write)
	}

	cur := reg.Read()
	fmt.Fprintf(w, "%s: %v\n", dev.Name(), cur)

	if freq <= 0 {
		return nil
	}

	tick := time.NewTicker(freq)
	defer tick.Stop()

	for {
		select {
		case <-quit:
			return nil
		case <-tick.C:
			s := reg.Read()
			if s == cur {
				continue
			}
			cur = s
			fmt.Fprintf(w, "%s: %v\n", dev.Name(), cur)
		}
	}
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
