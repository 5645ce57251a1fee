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

package encoding

import (
	"encoding/binary"
	"errors"
	"strconv"
	"strings"
)

// Decodes a hexidecimal string in the formats: 0xFFFF, xFFFF, 0xFF, xFF
func DecodeHex(s string) (uint16, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 {
		return 0, errors.New("Invalid hex string")
	}

	result, err := strconv.ParseUint(s, 0, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Joins two consecutive memory bytes into a big-endian instruction word
func JoinWord(hi, lo byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

// Splits an instruction word into its high and low bytes
func SplitWord(word uint16) (byte, byte) {
	return byte(word >> 8), byte(word)
}

// Encodes instruction words as a raw ROM image
func EncodeProgram(words ...uint16) []byte {
	rom := make([]byte, 2*len(words))

	for i, word := range words {
		binary.BigEndian.PutUint16(rom[2*i:], word)
	}

	return rom
}
