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

package encoding_test

import (
	"testing"

	"github.com/lassandro/gochip8/pkg/encoding"
	"github.com/retroenv/retrogolib/assert"
)

func TestDecodeHex(t *testing.T) {
	tests := []struct {
		Input string
		Want  uint16
		Fails bool
	}{
		{Input: "0xBEEF", Want: 0xBEEF},
		{Input: "xbeef", Want: 0xBEEF},
		{Input: "0X1f", Want: 0x1F},
		{Input: "x0", Want: 0x0},
		{Input: "1234", Fails: true},
		{Input: "00x12", Fails: true},
		{Input: "0x10000", Fails: true},
		{Input: "0xZZ", Fails: true},
	}

	for _, test := range tests {
		t.Run(test.Input, func(t *testing.T) {
			have, err := encoding.DecodeHex(test.Input)

			if test.Fails {
				assert.True(t, err != nil)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, test.Want, have)
		})
	}
}

func TestWords(t *testing.T) {
	assert.Equal(t, uint16(0xD125), encoding.JoinWord(0xD1, 0x25))

	hi, lo := encoding.SplitWord(0xF10A)
	assert.Equal(t, byte(0xF1), hi)
	assert.Equal(t, byte(0x0A), lo)
}

func TestEncodeProgram(t *testing.T) {
	rom := encoding.EncodeProgram(0x00E0, 0x1200, 0xA2F0)

	assert.Equal(t, []byte{0x00, 0xE0, 0x12, 0x00, 0xA2, 0xF0}, rom)
	assert.Equal(t, 0, len(encoding.EncodeProgram()))
}
