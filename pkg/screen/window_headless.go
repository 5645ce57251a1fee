//go:build headless

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
	"github.com/lassandro/gochip8/pkg/machine"
)

type Window struct {
	Status func() string
	Reload func()
}

func NewWindow(*machine.Keypad, Keymap, int) *Window {
	return &Window{}
}

func (w *Window) Render(machine.Frame) error {
	return ErrNoWindow
}

func (w *Window) Run() error {
	return ErrNoWindow
}
