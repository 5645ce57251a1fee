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
	"sync"
)

// Keypad latches the state of the 16 hex keys. It is written by the input
// source and read by the machine, so it carries its own lock. The zero value
// is ready to use.
type Keypad struct {
	mu      sync.Mutex
	keys    [KEY_COUNT]bool
	waiters []chan uint8
}

func (kp *Keypad) Get(key uint8) bool {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	return kp.keys[key&0xF]
}

// Set records a key transition. A released-to-pressed edge wakes every
// pending WaitForKey.
func (kp *Keypad) Set(key uint8, pressed bool) {
	key &= 0xF

	kp.mu.Lock()
	defer kp.mu.Unlock()

	edge := pressed && !kp.keys[key]
	kp.keys[key] = pressed

	if !edge {
		return
	}

	for _, waiter := range kp.waiters {
		waiter <- key
	}

	kp.waiters = nil
}

// WaitForKey blocks until the next press edge after the call and returns
// that key. There is no timeout; only ctx can end the wait early.
// Registers a channel that receives the next press edge
func (kp *Keypad) subscribe() chan uint8 {
	waiter := make(chan uint8, 1)

	kp.mu.Lock()
	kp.waiters = append(kp.waiters, waiter)
	kp.mu.Unlock()

	return waiter
}

func (kp *Keypad) unsubscribe(waiter chan uint8) {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	for i, w := range kp.waiters {
		if w == waiter {
			kp.waiters = append(kp.waiters[:i], kp.waiters[i+1:]...)
			return
		}
	}
}

// WaitForKey blocks until the next press edge. Keys already held do not
// count.
func (kp *Keypad) WaitForKey(ctx context.Context) (uint8, error) {
	waiter := kp.subscribe()

	select {
	case key := <-waiter:
		return key, nil
	case <-ctx.Done():
		kp.unsubscribe(waiter)

		// An edge may have landed between ctx.Done and the removal
		select {
		case key := <-waiter:
			return key, nil
		default:
		}

		return 0, ctx.Err()
	}
}
