//go:build !headless

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
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/lassandro/gochip8/pkg/machine"
)

func TestWindowBindings(t *testing.T) {
	km, err := ParseKeymap(DefaultKeymap)
	assert.NoError(t, err)

	w := NewWindow(&machine.Keypad{}, km, 0)

	assert.Equal(t, machine.KEY_COUNT, len(w.bindings))

	width, height := w.Layout(0, 0)
	assert.Equal(t, machine.DISPLAY_WIDTH, width)
	assert.Equal(t, machine.DISPLAY_HEIGHT, height)
}

func TestWindowRender(t *testing.T) {
	w := NewWindow(&machine.Keypad{}, nil, 4)

	var frame machine.Frame
	frame[1][1] = true

	assert.NoError(t, w.Render(frame))
	assert.Equal(t, frame, w.frame)

	w.closed = true
	assert.Equal(t, ErrWindowClosed, w.Render(frame))
}
