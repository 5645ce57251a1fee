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

package runner

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/lassandro/gochip8/pkg/machine"
	"golang.org/x/sync/errgroup"
)

const (
	CyclePeriod = 2 * time.Millisecond
	TimerPeriod = time.Second / 60
	FramePeriod = time.Second / 60
)

// Receives a copy of the display whenever it has changed
type Sink interface {
	Render(frame machine.Frame) error
}

type Runner struct {
	// Tick intervals of the three tasks, defaulting to the constants above
	Cycle time.Duration
	Timer time.Duration
	Frame time.Duration

	machine *machine.Machine
	sink    Sink
	logger  *log.Logger
	faults  chan error
}

func New(mc *machine.Machine, sink Sink, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Runner{
		Cycle:   CyclePeriod,
		Timer:   TimerPeriod,
		Frame:   FramePeriod,
		machine: mc,
		sink:    sink,
		logger:  logger,
		faults:  make(chan error, 16),
	}
}

// Faults delivers every fault that halts the machine. Faults are dropped if
// nobody drains the channel.
func (r *Runner) Faults() <-chan error {
	return r.faults
}

// Run drives execution, timers and rendering until ctx is done or the sink
// fails. Machine faults do not stop it; the halted machine idles until the
// next Load.
func (r *Runner) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return r.execute(ctx)
	})

	group.Go(func() error {
		return r.tick(ctx)
	})

	group.Go(func() error {
		return r.render(ctx)
	})

	return group.Wait()
}

func (r *Runner) execute(ctx context.Context) error {
	ticker := time.NewTicker(r.Cycle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		status, err := r.machine.Step()

		if err != nil {
			r.logger.Printf("error: %v", err)
			r.publish(err)
			continue
		}

		if status == machine.StatusWaiting {
			// Only fails once ctx is done
			if err := r.machine.AwaitKey(ctx); err != nil {
				return nil
			}
		}
	}
}

func (r *Runner) publish(err error) {
	select {
	case r.faults <- err:
	default:
	}
}

func (r *Runner) tick(ctx context.Context) error {
	ticker := time.NewTicker(r.Timer)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.machine.TickTimers()
		}
	}
}

func (r *Runner) render(ctx context.Context) error {
	ticker := time.NewTicker(r.Frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		frame, dirty := r.machine.Frame()

		if !dirty {
			continue
		}

		if err := r.sink.Render(frame); err != nil {
			return fmt.Errorf("rendering frame: %w", err)
		}
	}
}
