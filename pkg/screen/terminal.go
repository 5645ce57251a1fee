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

package screen

import (
	"bufio"
	"io"

	"github.com/lassandro/gochip8/pkg/machine"
)

const (
	ansiClear      = "\x1b[2J"
	ansiHome       = "\x1b[H"
	ansiClearLine  = "\x1b[2K"
	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"
)

// Terminal draws frames with ANSI escapes, packing two pixel rows into each
// character cell. Lines end in "\r\n" since the terminal is in raw mode.
type Terminal struct {
	// Printed under the display when set
	Status func() string

	out     *bufio.Writer
	started bool
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{out: bufio.NewWriter(w)}
}

func (t *Terminal) Render(frame machine.Frame) error {
	if !t.started {
		t.out.WriteString(ansiClear + ansiHideCursor)
		t.started = true
	}

	t.out.WriteString(ansiHome)

	for y := 0; y < machine.DISPLAY_HEIGHT; y += 2 {
		for x := 0; x < machine.DISPLAY_WIDTH; x++ {
			top, bottom := frame[y][x], frame[y+1][x]

			switch {
			case top && bottom:
				t.out.WriteRune('█')
			case top:
				t.out.WriteRune('▀')
			case bottom:
				t.out.WriteRune('▄')
			default:
				t.out.WriteByte(' ')
			}
		}

		t.out.WriteString("\r\n")
	}

	if t.Status != nil {
		t.out.WriteString(ansiClearLine + t.Status() + "\r\n")
	}

	return t.out.Flush()
}

// Close restores the cursor
func (t *Terminal) Close() error {
	if !t.started {
		return nil
	}

	t.out.WriteString(ansiShowCursor)

	return t.out.Flush()
}
