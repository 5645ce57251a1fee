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
	"fmt"

	"github.com/lassandro/gochip8/pkg/encoding"
)

// Instruction is a fetched big-endian opcode word. It is decoded fresh on
// every cycle and never stored.
//
//	[ op | x | y | n ]
//	       [ kk    ]
//	   [ nnn       ]
type Instruction uint16

func Decode(b0, b1 byte) Instruction {
	return Instruction(encoding.JoinWord(b0, b1))
}

func (in Instruction) Op() uint8 {
	return uint8(in >> 12)
}

func (in Instruction) X() uint8 {
	return uint8(in>>8) & 0xF
}

func (in Instruction) Y() uint8 {
	return uint8(in>>4) & 0xF
}

func (in Instruction) N() uint8 {
	return uint8(in) & 0xF
}

func (in Instruction) KK() uint8 {
	return uint8(in)
}

func (in Instruction) NNN() uint16 {
	return uint16(in) & 0x0FFF
}

func (in Instruction) String() string {
	return fmt.Sprintf("%04X", uint16(in))
}
