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
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
)

type Option func(*Machine)

// Unrecognized instructions and ROM truncation are reported to logger
func WithLogger(logger *log.Logger) Option {
	return func(mc *Machine) {
		mc.logger = logger
	}
}

// Seeds the generator behind Cxkk so runs can be reproduced
func WithSeed(seed uint64) Option {
	return func(mc *Machine) {
		mc.random = rand.New(rand.NewPCG(seed, seed))
	}
}

func New(options ...Option) *Machine {
	mc := &Machine{
		Keypad: &Keypad{},
		logger: log.New(io.Discard, "", 0),
		random: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}

	for _, option := range options {
		option(mc)
	}

	mc.reset()

	return mc
}

func (mc *Machine) reset() {
	mc.state.Reset()
	mc.display.Clear()

	if mc.wait != nil {
		mc.Keypad.unsubscribe(mc.wait.keys)
	}

	mc.running = false
	mc.wait = nil
	mc.fault = nil

	if mc.abort != nil {
		close(mc.abort)
	}
	mc.abort = make(chan struct{})
}

// Reset returns the machine to its power-on state. It is not runnable again
// until the next Load.
func (mc *Machine) Reset() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.reset()
}

// Load resets the machine, copies the ROM image to 0x200 and marks the
// machine runnable. Images that do not fit are truncated at the end of
// memory with a warning. Returns the number of bytes loaded.
func (mc *Machine) Load(reader io.Reader) (int, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.reset()

	n, err := io.ReadFull(reader, mc.state.Memory[MEMSPACE_PROGRAM:])

	switch {
	case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
	case err != nil:
		mc.reset()
		return 0, fmt.Errorf("reading rom: %w", err)
	default:
		var scratch [1]byte

		if m, _ := reader.Read(scratch[:]); m > 0 {
			mc.logger.Printf(
				"warning: rom larger than %d bytes, truncated", PROGRAM_SIZE,
			)
		}
	}

	mc.running = true

	return n, nil
}

// Step executes a single instruction. A fault halts the machine and is
// returned as a *Fault; halted machines do nothing until reloaded.
func (mc *Machine) Step() (Status, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if !mc.running {
		return StatusHalted, nil
	}

	if mc.wait != nil {
		return StatusWaiting, nil
	}

	addr := mc.state.Program
	instruction, err := mc.state.fetch()

	if err == nil {
		mc.state.Program += 2
		err = mc.execute(addr, instruction)
	}

	if err != nil {
		fault := &Fault{Program: addr, Instruction: instruction, Err: err}
		mc.running = false
		mc.fault = fault
		return StatusHalted, fault
	}

	if mc.wait != nil {
		return StatusWaiting, nil
	}

	return StatusRunning, nil
}

// AwaitKey suspends the caller until the key press that resolves a pending
// Fx0A arrives, then stores it in the target register. Presses made after
// Fx0A executed and before this call are not lost. The engine lock is not
// held while waiting, so timers and rendering carry on. A Reset or Load
// during the wait abandons it without error.
func (mc *Machine) AwaitKey(ctx context.Context) error {
	mc.mu.Lock()
	wait, abort := mc.wait, mc.abort
	mc.mu.Unlock()

	if wait == nil {
		return nil
	}

	var key uint8

	select {
	case key = <-wait.keys:
	case <-abort:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.wait != wait {
		return nil
	}

	mc.state.Registers[wait.register] = key
	mc.wait = nil

	return nil
}

// TickTimers decrements the delay and sound timers. Invoked at 60Hz by the
// caller, independently of Step.
func (mc *Machine) TickTimers() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if !mc.running {
		return
	}

	mc.state.Timers.Tick()
}

// Frame returns a copy of the display and acknowledges the redraw if the
// display changed since the last call.
func (mc *Machine) Frame() (Frame, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if !mc.display.Dirty() {
		return Frame{}, false
	}

	frame := mc.display.Frame()
	mc.display.Redraw()

	return frame, true
}

func (mc *Machine) Status() Status {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	switch {
	case !mc.running:
		return StatusHalted
	case mc.wait != nil:
		return StatusWaiting
	default:
		return StatusRunning
	}
}

// Err returns the fault that halted the machine, if any
func (mc *Machine) Err() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	return mc.fault
}

func (mc *Machine) Timers() Timers {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	return mc.state.Timers
}

func (mc *Machine) Sounding() bool {
	return mc.Timers().Sound > 0
}

// Snapshot returns a copy of the registers and memory
func (mc *Machine) Snapshot() MachineState {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	return mc.state
}

func (mc *Machine) skipIf(cond bool) {
	if cond {
		mc.state.Program += 2
	}
}

func flag(cond bool) uint8 {
	if cond {
		return 1
	}
	return 0
}

// Executes a decoded instruction. The program counter already points past
// it; control flow overwrites it and skips add another 2.
func (mc *Machine) execute(addr uint16, in Instruction) error {
	st := &mc.state
	x, y := in.X(), in.Y()

	switch in.Op() {
	// CLS  |0000    |0000   |1110   |0000   | Clear display
	// RET  |0000    |0000   |1110   |1110   | Return from subroutine
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_SYS:
		switch in.NNN() {
		case SYS_CLS:
			mc.display.Clear()

		case SYS_RET:
			ret, err := st.pop()

			if err != nil {
				return err
			}

			st.Program = ret

		default:
			mc.unrecognized(addr, in)
		}

	// JP   |0001    |nnn                    | Jump
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_JP:
		st.Program = in.NNN()

	// CALL |0010    |nnn                    | Call subroutine
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_CALL:
		if err := st.push(st.Program); err != nil {
			return err
		}

		st.Program = in.NNN()

	// SE   |0011    |x      |kk             | Skip if Vx == kk
	// SNE  |0100    |x      |kk             | Skip if Vx != kk
	// SE   |0101    |x      |y      |0000   | Skip if Vx == Vy
	// SNE  |1001    |x      |y      |0000   | Skip if Vx != Vy
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_SE_IMM:
		mc.skipIf(st.Registers[x] == in.KK())

	case OP_SNE_IMM:
		mc.skipIf(st.Registers[x] != in.KK())

	case OP_SE_REG:
		if in.N() != 0 {
			mc.unrecognized(addr, in)
			break
		}

		mc.skipIf(st.Registers[x] == st.Registers[y])

	case OP_SNE_REG:
		if in.N() != 0 {
			mc.unrecognized(addr, in)
			break
		}

		mc.skipIf(st.Registers[x] != st.Registers[y])

	// LD   |0110    |x      |kk             | Vx = kk
	// ADD  |0111    |x      |kk             | Vx += kk, VF untouched
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LD_IMM:
		st.Registers[x] = in.KK()

	case OP_ADD_IMM:
		st.Registers[x] += in.KK()

	// ALU  |1000    |x      |y      |op     | Register arithmetic
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_ALU:
		return mc.executeALU(addr, in)

	// LD   |1010    |nnn                    | I = nnn
	// JP   |1011    |nnn                    | Jump to nnn + V0
	// RND  |1100    |x      |kk             | Vx = random & kk
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LD_I:
		st.Index = in.NNN()

	case OP_JP_V0:
		st.Program = in.NNN() + uint16(st.Registers[0])

	case OP_RND:
		st.Registers[x] = uint8(mc.random.UintN(256)) & in.KK()

	// DRW  |1101    |x      |y      |n      | Draw n-byte sprite at I
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_DRW:
		sprite, err := st.span(st.Index, int(in.N()))

		if err != nil {
			return err
		}

		collision := mc.display.DrawSprite(st.Registers[x], st.Registers[y], sprite)
		st.Registers[REG_FLAG] = flag(collision)

	// SKP  |1110    |x      |1001   |1110   | Skip if key Vx is down
	// SKNP |1110    |x      |1010   |0001   | Skip if key Vx is up
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_KEY:
		switch in.KK() {
		case KEY_SKP:
			mc.skipIf(mc.Keypad.Get(st.Registers[x]))
		case KEY_SKNP:
			mc.skipIf(!mc.Keypad.Get(st.Registers[x]))
		default:
			mc.unrecognized(addr, in)
		}

	case OP_MISC:
		return mc.executeMisc(addr, in)
	}

	return nil
}

// The flag register is always written last, so VF as a destination ends up
// holding the flag.
func (mc *Machine) executeALU(addr uint16, in Instruction) error {
	st := &mc.state
	x, y := in.X(), in.Y()
	vx, vy := st.Registers[x], st.Registers[y]

	switch in.N() {
	case ALU_LD:
		st.Registers[x] = vy

	case ALU_OR:
		st.Registers[x] = vx | vy
		st.Registers[REG_FLAG] = 0

	case ALU_AND:
		st.Registers[x] = vx & vy
		st.Registers[REG_FLAG] = 0

	case ALU_XOR:
		st.Registers[x] = vx ^ vy
		st.Registers[REG_FLAG] = 0

	case ALU_ADD:
		sum := uint16(vx) + uint16(vy)
		st.Registers[x] = uint8(sum)
		st.Registers[REG_FLAG] = flag(sum > 0xFF)

	case ALU_SUB:
		st.Registers[x] = vx - vy
		st.Registers[REG_FLAG] = flag(vx > vy)

	// Vy is copied into Vx before shifting
	case ALU_SHR:
		st.Registers[x] = vy >> 1
		st.Registers[REG_FLAG] = vy & 0x1

	case ALU_SUBN:
		st.Registers[x] = vy - vx
		st.Registers[REG_FLAG] = flag(vy > vx)

	case ALU_SHL:
		st.Registers[x] = vy << 1
		st.Registers[REG_FLAG] = vy >> 7

	default:
		mc.unrecognized(addr, in)
	}

	return nil
}

func (mc *Machine) executeMisc(addr uint16, in Instruction) error {
	st := &mc.state
	x := in.X()

	switch in.KK() {
	case MISC_LD_VX_DT:
		st.Registers[x] = st.Timers.Delay

	// Resolved by AwaitKey once a key is pressed
	case MISC_LD_VX_K:
		mc.wait = &keyWait{register: x, keys: mc.Keypad.subscribe()}

	case MISC_LD_DT:
		st.Timers.Delay = st.Registers[x]

	case MISC_LD_ST:
		st.Timers.Sound = st.Registers[x]

	case MISC_ADD_I:
		st.Index += uint16(st.Registers[x])

	case MISC_LD_F:
		st.Index = MEMSPACE_FONT + uint16(st.Registers[x])*GLYPH_SIZE

	case MISC_LD_B:
		digits, err := st.span(st.Index, 3)

		if err != nil {
			return err
		}

		value := st.Registers[x]
		digits[0] = value / 100
		digits[1] = value / 10 % 10
		digits[2] = value % 10

	case MISC_LD_MEM:
		mem, err := st.span(st.Index, int(x)+1)

		if err != nil {
			return err
		}

		copy(mem, st.Registers[:x+1])
		st.Index += uint16(x) + 1

	case MISC_LD_REG:
		mem, err := st.span(st.Index, int(x)+1)

		if err != nil {
			return err
		}

		copy(st.Registers[:x+1], mem)
		st.Index += uint16(x) + 1

	default:
		mc.unrecognized(addr, in)
	}

	return nil
}

func (mc *Machine) unrecognized(addr uint16, in Instruction) {
	mc.logger.Printf("warning: unrecognized instruction %s at %#04x", in, addr)
}
