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
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/lassandro/gochip8/pkg/machine"
)

var ErrNoWindow = errors.New("built without window support")

// Host keys for keypad 0..F
const DefaultKeymap = "x123qweasdzc4rfv"

type Keymap map[rune]uint8

// Parses a keymap of exactly one distinct character per keypad key, in
// keypad order
func ParseKeymap(s string) (Keymap, error) {
	keys := []rune(strings.ToLower(s))

	if len(keys) != machine.KEY_COUNT {
		return nil, fmt.Errorf(
			"keymap needs %d keys, have %d", machine.KEY_COUNT, len(keys),
		)
	}

	km := make(Keymap, machine.KEY_COUNT)

	for i, r := range keys {
		if _, exists := km[r]; exists {
			return nil, fmt.Errorf("key %q mapped twice", r)
		}

		km[r] = uint8(i)
	}

	return km, nil
}

func (km Keymap) Lookup(r rune) (uint8, bool) {
	key, ok := km[unicode.ToLower(r)]
	return key, ok
}
