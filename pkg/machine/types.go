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
	"log"
	"math/rand/v2"
	"sync"
)

type Status uint8

const (
	// Not loaded, or stopped by a fault
	StatusHalted Status = iota
	StatusRunning
	// Blocked on Fx0A until a key press edge arrives
	StatusWaiting
)

func (s Status) String() string {
	switch s {
	case StatusHalted:
		return "halted"
	case StatusRunning:
		return "running"
	case StatusWaiting:
		return "waiting"
	default:
		return "unknown"
	}
}

type Timers struct {
	Delay uint8
	Sound uint8
}

type MachineState struct {
	Registers [REGISTER_COUNT]uint8
	Index     uint16
	Program   uint16
	Stack     [STACK_DEPTH]uint16
	Depth     uint8
	Timers    Timers
	Memory    [MEMORY_SIZE]uint8
}

type keyWait struct {
	register uint8
	// Subscribed when Fx0A executes so no press edge is missed
	keys chan uint8
}

type Machine struct {
	Keypad *Keypad

	state   MachineState
	display Display

	mu      sync.Mutex
	logger  *log.Logger
	random  *rand.Rand
	running bool
	wait    *keyWait
	fault   error

	// Closed whenever Reset discards the current run
	abort chan struct{}
}
