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

const (
	MEMSPACE_FONT    uint16 = 0x0000
	MEMSPACE_PROGRAM uint16 = 0x0200
	MEMSPACE_END     uint16 = 0x1000
)

const (
	MEMORY_SIZE    = int(MEMSPACE_END)
	PROGRAM_SIZE   = int(MEMSPACE_END - MEMSPACE_PROGRAM)
	REGISTER_COUNT = 16
	STACK_DEPTH    = 16
	KEY_COUNT      = 16
	GLYPH_SIZE     = 5
)

// VF doubles as the carry, borrow and collision flag
const REG_FLAG uint8 = 0xF

const (
	DISPLAY_WIDTH  = 64
	DISPLAY_HEIGHT = 32
)

const (
	OP_SYS     uint8 = 0x0
	OP_JP      uint8 = 0x1
	OP_CALL    uint8 = 0x2
	OP_SE_IMM  uint8 = 0x3
	OP_SNE_IMM uint8 = 0x4
	OP_SE_REG  uint8 = 0x5
	OP_LD_IMM  uint8 = 0x6
	OP_ADD_IMM uint8 = 0x7
	OP_ALU     uint8 = 0x8
	OP_SNE_REG uint8 = 0x9
	OP_LD_I    uint8 = 0xA
	OP_JP_V0   uint8 = 0xB
	OP_RND     uint8 = 0xC
	OP_DRW     uint8 = 0xD
	OP_KEY     uint8 = 0xE
	OP_MISC    uint8 = 0xF
)

const (
	SYS_CLS uint16 = 0x0E0
	SYS_RET uint16 = 0x0EE
)

const (
	ALU_LD   uint8 = 0x0
	ALU_OR   uint8 = 0x1
	ALU_AND  uint8 = 0x2
	ALU_XOR  uint8 = 0x3
	ALU_ADD  uint8 = 0x4
	ALU_SUB  uint8 = 0x5
	ALU_SHR  uint8 = 0x6
	ALU_SUBN uint8 = 0x7
	ALU_SHL  uint8 = 0xE
)

const (
	KEY_SKP  uint8 = 0x9E
	KEY_SKNP uint8 = 0xA1
)

const (
	MISC_LD_VX_DT uint8 = 0x07
	MISC_LD_VX_K  uint8 = 0x0A
	MISC_LD_DT    uint8 = 0x15
	MISC_LD_ST    uint8 = 0x18
	MISC_ADD_I    uint8 = 0x1E
	MISC_LD_F     uint8 = 0x29
	MISC_LD_B     uint8 = 0x33
	MISC_LD_MEM   uint8 = 0x55
	MISC_LD_REG   uint8 = 0x65
)
