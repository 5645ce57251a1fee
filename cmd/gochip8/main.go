// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/retroenv/retrogolib/buildinfo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/lassandro/gochip8/pkg/encoding"
	"github.com/lassandro/gochip8/pkg/machine"
	"github.com/lassandro/gochip8/pkg/runner"
	"github.com/lassandro/gochip8/pkg/screen"
)

var helpvar bool
var versionvar bool
var windowvar bool
var headlessvar bool
var framesvar uint
var scalevar int
var keysvar string
var seedvar string

// Set with -ldflags at release time
var (
	version = "dev"
	commit  = ""
	date    = ""
)

const usage = "gochip8 [flags] rom"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&versionvar, "version", false, "Displays the program version")
	flag.BoolVar(&windowvar, "window", false, "Runs the machine in a desktop window")
	flag.BoolVar(&headlessvar, "headless", false, "Runs without a display and prints the final frame")
	flag.UintVar(&framesvar, "frames", 600, "Number of frames to run with -headless")
	flag.IntVar(&scalevar, "scale", 10, "Window pixels per display pixel")
	flag.StringVar(&keysvar, "keys", screen.DefaultKeymap, "Host keys for keypad 0 through F")
	flag.StringVar(&seedvar, "seed", "", "Random seed as 0x####")
}

func gochip8() int {
	flag.Parse()

	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	if versionvar {
		fmt.Println(buildinfo.Version(version, commit, date))
		return 0
	}

	args := flag.Args()

	if len(args) != 1 {
		log.Println(usage)
		return 1
	}

	if windowvar && headlessvar {
		log.Println("-window and -headless cannot be combined")
		return 1
	}

	keymap, err := screen.ParseKeymap(keysvar)

	if err != nil {
		log.Println(err)
		return 1
	}

	options := []machine.Option{machine.WithLogger(log.Default())}

	if seedvar != "" {
		seed, err := encoding.DecodeHex(seedvar)

		if err != nil {
			log.Printf("invalid seed %q: %v", seedvar, err)
			return 1
		}

		options = append(options, machine.WithSeed(uint64(seed)))
	}

	rom, err := os.ReadFile(args[0])

	if err != nil {
		log.Println(err)
		return 1
	}

	mc := machine.New(options...)

	if _, err := mc.Load(bytes.NewReader(rom)); err != nil {
		log.Println(err)
		return 1
	}

	switch {
	case headlessvar:
		return runHeadless(mc)
	case windowvar:
		return runWindow(mc, keymap, reloader(mc, rom))
	default:
		return runTerminal(mc, keymap, reloader(mc, rom))
	}
}

// Restarts the machine from the ROM image it was started with
func reloader(mc *machine.Machine, rom []byte) func() {
	return func() {
		if _, err := mc.Load(bytes.NewReader(rom)); err != nil {
			log.Println(err)
		}
	}
}

func statusLine(mc *machine.Machine) func() string {
	return func() string {
		if err := mc.Err(); err != nil {
			return fmt.Sprintf("halted: %v", err)
		}

		switch mc.Status() {
		case machine.StatusWaiting:
			return "waiting for key"
		case machine.StatusHalted:
			return "halted"
		}

		if mc.Sounding() {
			return "beep"
		}

		return ""
	}
}

func runHeadless(mc *machine.Machine) int {
	var buf screen.Buffer

	ctx, cancel := context.WithTimeout(
		context.Background(), time.Duration(framesvar)*runner.FramePeriod,
	)
	defer cancel()

	if err := runner.New(mc, &buf, log.Default()).Run(ctx); err != nil {
		log.Println(err)
		return 1
	}

	frame := buf.Last()
	fmt.Print(frame.String())

	if err := mc.Err(); err != nil {
		return 1
	}

	return 0
}

func runWindow(mc *machine.Machine, keymap screen.Keymap, reload func()) int {
	win := screen.NewWindow(mc.Keypad, keymap, scalevar)
	win.Status = statusLine(mc)
	win.Reload = reload

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)

	go func() {
		done <- runner.New(mc, win, log.Default()).Run(ctx)
	}()

	// The window owns the main goroutine until it is closed
	winErr := win.Run()
	cancel()
	runErr := <-done

	if winErr != nil {
		log.Println(winErr)
		return 1
	}

	if runErr != nil && !errors.Is(runErr, screen.ErrWindowClosed) {
		log.Println(runErr)
		return 1
	}

	return 0
}

func runTerminal(mc *machine.Machine, keymap screen.Keymap, reload func()) int {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		log.Println("stdin is not a terminal, use -headless or -window")
		return 1
	}

	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		if w < machine.DISPLAY_WIDTH || h < machine.DISPLAY_HEIGHT/2+1 {
			log.Printf(
				"warning: terminal is %dx%d, the display needs %dx%d",
				w, h, machine.DISPLAY_WIDTH, machine.DISPLAY_HEIGHT/2+1,
			)
		}
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	restore, err := enterRawTerm(fd)

	if err != nil {
		log.Println(err)
		return 1
	}

	defer restore()

	display := screen.NewTerminal(os.Stdout)
	display.Status = statusLine(mc)
	defer display.Close()

	group, ctx := errgroup.WithContext(ctx)
	ctx, quit := context.WithCancel(ctx)
	defer quit()

	keys := newKeyReader(fd, mc.Keypad, keymap)
	keys.reload = reload

	group.Go(func() error {
		return keys.run(ctx, quit)
	})

	group.Go(func() error {
		return runner.New(mc, display, log.Default()).Run(ctx)
	})

	if err := group.Wait(); err != nil {
		log.Println(err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(gochip8())
}
