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
	"errors"
	"fmt"
)

var (
	ErrStackOverflow  = errors.New("call stack overflow")
	ErrStackUnderflow = errors.New("return with empty call stack")
	ErrAddressRange   = errors.New("memory access out of range")
)

// Fault is a fatal error raised while executing an instruction. The machine
// halts and stays halted until the next Load.
type Fault struct {
	Program     uint16
	Instruction Instruction
	Err         error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%#04x: %s: %v", f.Program, f.Instruction, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
