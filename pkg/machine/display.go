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

package machine

import (
	"strings"
)

// Frame is a copy of the display grid, indexed [y][x]
type Frame [DISPLAY_HEIGHT][DISPLAY_WIDTH]bool

func (f *Frame) String() string {
	var sb strings.Builder
	sb.Grow(DISPLAY_HEIGHT * (DISPLAY_WIDTH + 1))

	for _, row := range f {
		for _, on := range row {
			if on {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Display is the 64x32 monochrome surface. The dirty flag is raised by any
// pixel mutation and lowered only by Redraw.
type Display struct {
	pixels Frame
	dirty  bool
}

func (d *Display) Clear() {
	d.pixels = Frame{}
	d.dirty = true
}

func (d *Display) Pixel(x, y int) bool {
	return d.pixels[y%DISPLAY_HEIGHT][x%DISPLAY_WIDTH]
}

func (d *Display) Dirty() bool {
	return d.dirty
}

func (d *Display) Redraw() {
	d.dirty = false
}

func (d *Display) Frame() Frame {
	return d.pixels
}

// XOR-plots a set pixel and reports whether it was already on
func (d *Display) plot(x, y int) bool {
	collision := d.pixels[y][x]
	d.pixels[y][x] = !collision
	d.dirty = true

	return collision
}

// DrawSprite XORs sprite rows onto the surface, MSB first. The origin wraps
// around the screen but rows and columns running off the edge are clipped.
// Returns true if any plotted pixel was already set.
func (d *Display) DrawSprite(x, y uint8, sprite []uint8) bool {
	originX := int(x) % DISPLAY_WIDTH
	originY := int(y) % DISPLAY_HEIGHT
	collision := false

	for i, row := range sprite {
		py := originY + i

		if py >= DISPLAY_HEIGHT {
			break
		}

		for j := 0; j < 8; j++ {
			px := originX + j

			if px >= DISPLAY_WIDTH {
				break
			}

			if row&(0x80>>j) != 0 && d.plot(px, py) {
				collision = true
			}
		}
	}

	return collision
}
