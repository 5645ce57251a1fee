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

var font = [16 * GLYPH_SIZE]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

func (ms *MachineState) Reset() {
	*ms = MachineState{}

	copy(ms.Memory[MEMSPACE_FONT:], font[:])

	ms.Program = MEMSPACE_PROGRAM
}

// Returns the memory range [addr, addr+count) or ErrAddressRange if any part
// of it lies past the end of memory.
func (ms *MachineState) span(addr uint16, count int) ([]uint8, error) {
	end := int(addr) + count

	if end > MEMORY_SIZE {
		return nil, ErrAddressRange
	}

	return ms.Memory[addr:end], nil
}

func (ms *MachineState) fetch() (Instruction, error) {
	word, err := ms.span(ms.Program, 2)

	if err != nil {
		return 0, err
	}

	return Decode(word[0], word[1]), nil
}

func (ms *MachineState) push(addr uint16) error {
	if int(ms.Depth) >= STACK_DEPTH {
		return ErrStackOverflow
	}

	ms.Stack[ms.Depth] = addr
	ms.Depth++

	return nil
}

func (ms *MachineState) pop() (uint16, error) {
	if ms.Depth == 0 {
		return 0, ErrStackUnderflow
	}

	ms.Depth--
	addr := ms.Stack[ms.Depth]
	ms.Stack[ms.Depth] = 0

	return addr, nil
}
