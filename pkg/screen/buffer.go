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
	"sync"

	"github.com/lassandro/gochip8/pkg/machine"
)

// Buffer keeps the most recent frame in memory
type Buffer struct {
	mu      sync.Mutex
	last    machine.Frame
	renders int
}

func (b *Buffer) Render(frame machine.Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.last = frame
	b.renders++

	return nil
}

func (b *Buffer) Last() machine.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.last
}

func (b *Buffer) Renders() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.renders
}
