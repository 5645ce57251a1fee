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

package machine_test

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/lassandro/gochip8/pkg/encoding"
	"github.com/lassandro/gochip8/pkg/machine"
	"github.com/retroenv/retrogolib/assert"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestLoad(t *testing.T) {
	mc := machine.New()

	assert.Equal(t, machine.StatusHalted, mc.Status())

	n, err := mc.Load(bytes.NewReader(encoding.EncodeProgram(0x00E0, 0x1200)))
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, machine.StatusRunning, mc.Status())

	state := mc.Snapshot()
	assert.Equal(t, machine.MEMSPACE_PROGRAM, state.Program)
	assert.Equal(t, uint8(0x00), state.Memory[0x200])
	assert.Equal(t, uint8(0xE0), state.Memory[0x201])
	assert.Equal(t, uint8(0x12), state.Memory[0x202])

	// Glyph 0 and glyph F
	assert.Equal(t, []uint8{0xF0, 0x90, 0x90, 0x90, 0xF0}, state.Memory[0:5])
	assert.Equal(t, []uint8{0xF0, 0x80, 0xF0, 0x80, 0x80}, state.Memory[75:80])
}

func TestLoadReplacesPreviousRun(t *testing.T) {
	mc := machine.New()

	_, err := mc.Load(bytes.NewReader(encoding.EncodeProgram(0x6A07, 0xA300)))
	assert.NoError(t, err)

	mc.Step()
	mc.Step()

	_, err = mc.Load(bytes.NewReader([]byte{0xFF}))
	assert.NoError(t, err)

	state := mc.Snapshot()
	assert.Equal(t, uint8(0), state.Registers[0xA])
	assert.Equal(t, uint16(0), state.Index)
	assert.Equal(t, uint8(0xFF), state.Memory[0x200])
	assert.Equal(t, uint8(0), state.Memory[0x201])
	assert.Equal(t, uint8(0), state.Memory[0x202])
}

func TestLoadTruncates(t *testing.T) {
	var out strings.Builder
	mc := machine.New(machine.WithLogger(log.New(&out, "", 0)))

	rom := bytes.Repeat([]byte{0xAB}, machine.PROGRAM_SIZE+10)

	n, err := mc.Load(bytes.NewReader(rom))
	assert.NoError(t, err)
	assert.Equal(t, machine.PROGRAM_SIZE, n)
	assert.True(t, strings.Contains(out.String(), "truncated"))

	state := mc.Snapshot()
	assert.Equal(t, uint8(0xAB), state.Memory[machine.MEMORY_SIZE-1])
}

func TestLoadExactFit(t *testing.T) {
	var out strings.Builder
	mc := machine.New(machine.WithLogger(log.New(&out, "", 0)))

	rom := bytes.Repeat([]byte{0xCD}, machine.PROGRAM_SIZE)

	n, err := mc.Load(bytes.NewReader(rom))
	assert.NoError(t, err)
	assert.Equal(t, machine.PROGRAM_SIZE, n)
	assert.Equal(t, "", out.String())
}

func TestLoadError(t *testing.T) {
	mc := machine.New()

	_, err := mc.Load(failingReader{})
	assert.True(t, err != nil)
	assert.Equal(t, machine.StatusHalted, mc.Status())
}

func TestStepUnloaded(t *testing.T) {
	mc := machine.New()

	before := mc.Snapshot()
	status, err := mc.Step()

	assert.NoError(t, err)
	assert.Equal(t, machine.StatusHalted, status)
	assert.Equal(t, before, mc.Snapshot())
}

func TestReset(t *testing.T) {
	mc := machine.New()

	_, err := mc.Load(bytes.NewReader(encoding.EncodeProgram(0x6A07, 0xD005)))
	assert.NoError(t, err)

	mc.Step()
	mc.Step()
	mc.Reset()

	assert.Equal(t, machine.StatusHalted, mc.Status())

	state := mc.Snapshot()
	assert.Equal(t, uint8(0), state.Registers[0xA])
	assert.Equal(t, machine.MEMSPACE_PROGRAM, state.Program)
	assert.Equal(t, uint8(0), state.Memory[0x200])

	frame, _ := mc.Frame()
	assert.Equal(t, machine.Frame{}, frame)
}

func TestFaultHaltsUntilLoad(t *testing.T) {
	mc := machine.New()

	_, err := mc.Load(bytes.NewReader(encoding.EncodeProgram(0x00EE)))
	assert.NoError(t, err)

	_, err = mc.Step()
	assert.True(t, errors.Is(err, machine.ErrStackUnderflow))
	assert.True(t, strings.Contains(err.Error(), "0x0200"))
	assert.Equal(t, machine.StatusHalted, mc.Status())

	_, err = mc.Load(bytes.NewReader(encoding.EncodeProgram(0x6001)))
	assert.NoError(t, err)
	assert.NoError(t, mc.Err())

	status, err := mc.Step()
	assert.NoError(t, err)
	assert.Equal(t, machine.StatusRunning, status)
}

func TestNestedCallOverflow(t *testing.T) {
	mc := machine.New()

	// Calls itself forever
	_, err := mc.Load(bytes.NewReader(encoding.EncodeProgram(0x2200)))
	assert.NoError(t, err)

	for i := 0; i < machine.STACK_DEPTH; i++ {
		_, err := mc.Step()
		assert.NoError(t, err)
	}

	_, err = mc.Step()
	assert.True(t, errors.Is(err, machine.ErrStackOverflow))
}

func TestTimers(t *testing.T) {
	mc := machine.New()

	// Timers are frozen until a program is running
	mc.RawState().Timers.Delay = 5
	mc.TickTimers()
	assert.Equal(t, uint8(5), mc.Timers().Delay)

	_, err := mc.Load(bytes.NewReader(encoding.EncodeProgram(0x6001, 0xF015, 0xF018)))
	assert.NoError(t, err)

	mc.Step()
	mc.Step()
	mc.Step()

	assert.Equal(t, machine.Timers{Delay: 1, Sound: 1}, mc.Timers())
	assert.True(t, mc.Sounding())

	mc.TickTimers()
	assert.Equal(t, machine.Timers{}, mc.Timers())
	assert.False(t, mc.Sounding())

	mc.TickTimers()
	assert.Equal(t, machine.Timers{}, mc.Timers())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "halted", machine.StatusHalted.String())
	assert.Equal(t, "running", machine.StatusRunning.String())
	assert.Equal(t, "waiting", machine.StatusWaiting.String())
}
