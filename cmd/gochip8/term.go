//go:build unix

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
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/lassandro/gochip8/pkg/machine"
	"github.com/lassandro/gochip8/pkg/screen"
)

// Terminals only report presses, so a key counts as held for this long
// after its last repeat
const keyHold = 150 * time.Millisecond

const (
	keyInterrupt = 0x03
	keyReload    = 0x12
	keyEscape    = 0x1B
)

func enterRawTerm(fd int) (func(), error) {
	state, err := term.MakeRaw(fd)

	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}

	return func() {
		term.Restore(fd, state)
	}, nil
}

type keyReader struct {
	fd       int
	keypad   *machine.Keypad
	keymap   screen.Keymap
	releases [machine.KEY_COUNT]time.Time

	// Called on Ctrl-R
	reload func()
}

func newKeyReader(fd int, keypad *machine.Keypad, keymap screen.Keymap) *keyReader {
	return &keyReader{fd: fd, keypad: keypad, keymap: keymap}
}

// Feeds stdin into the keypad until ctx is done. Ctrl-C, a lone Escape or
// end of input calls quit. Ctrl-R calls reload.
func (kr *keyReader) run(ctx context.Context, quit func()) error {
	defer kr.releaseAll()

	fds := []unix.PollFd{{Fd: int32(kr.fd), Events: unix.POLLIN}}
	buf := make([]byte, 16)

	for ctx.Err() == nil {
		kr.release(time.Now())

		n, err := unix.Poll(fds, 10)

		if errors.Is(err, unix.EINTR) {
			continue
		} else if err != nil {
			return fmt.Errorf("polling stdin: %w", err)
		}

		if n == 0 || fds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err = unix.Read(kr.fd, buf)

		if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
			continue
		} else if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}

		if n == 0 {
			quit()
			return nil
		}

		if n == 1 && buf[0] == keyEscape {
			quit()
			return nil
		}

		now := time.Now()

		for _, b := range buf[:n] {
			if !kr.handle(b, now) {
				quit()
				return nil
			}
		}
	}

	return nil
}

// Returns false once the user asked to quit
func (kr *keyReader) handle(b byte, now time.Time) bool {
	switch b {
	case keyInterrupt:
		return false
	case keyReload:
		if kr.reload != nil {
			kr.reload()
		}
	default:
		kr.press(rune(b), now)
	}

	return true
}

func (kr *keyReader) press(r rune, now time.Time) {
	key, ok := kr.keymap.Lookup(r)

	if !ok {
		return
	}

	if kr.releases[key].IsZero() {
		kr.keypad.Set(key, true)
	}

	kr.releases[key] = now.Add(keyHold)
}

func (kr *keyReader) release(now time.Time) {
	for key, at := range kr.releases {
		if !at.IsZero() && now.After(at) {
			kr.keypad.Set(uint8(key), false)
			kr.releases[key] = time.Time{}
		}
	}
}

func (kr *keyReader) releaseAll() {
	kr.release(time.Now().Add(keyHold + time.Second))
}
