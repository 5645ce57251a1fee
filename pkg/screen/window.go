//go:build !headless

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
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"github.com/lassandro/gochip8/pkg/machine"
)

var ErrWindowClosed = errors.New("window closed")

var hostKeys = map[rune]ebiten.Key{
	'0': ebiten.KeyDigit0, '1': ebiten.KeyDigit1, '2': ebiten.KeyDigit2,
	'3': ebiten.KeyDigit3, '4': ebiten.KeyDigit4, '5': ebiten.KeyDigit5,
	'6': ebiten.KeyDigit6, '7': ebiten.KeyDigit7, '8': ebiten.KeyDigit8,
	'9': ebiten.KeyDigit9,
	'a': ebiten.KeyA, 'b': ebiten.KeyB, 'c': ebiten.KeyC, 'd': ebiten.KeyD,
	'e': ebiten.KeyE, 'f': ebiten.KeyF, 'g': ebiten.KeyG, 'h': ebiten.KeyH,
	'i': ebiten.KeyI, 'j': ebiten.KeyJ, 'k': ebiten.KeyK, 'l': ebiten.KeyL,
	'm': ebiten.KeyM, 'n': ebiten.KeyN, 'o': ebiten.KeyO, 'p': ebiten.KeyP,
	'q': ebiten.KeyQ, 'r': ebiten.KeyR, 's': ebiten.KeyS, 't': ebiten.KeyT,
	'u': ebiten.KeyU, 'v': ebiten.KeyV, 'w': ebiten.KeyW, 'x': ebiten.KeyX,
	'y': ebiten.KeyY, 'z': ebiten.KeyZ,
}

var (
	colorOn      = color.RGBA{0xE0, 0xE0, 0xE0, 0xFF}
	colorOff     = color.RGBA{0x10, 0x10, 0x10, 0xFF}
	colorOverlay = color.RGBA{0x00, 0x00, 0x00, 0xB4}
)

type binding struct {
	host ebiten.Key
	key  uint8
}

// Window shows frames in a desktop window and feeds the mapped host keys
// into the keypad. Run must be called from the main goroutine.
type Window struct {
	// Overlaid on the display when it returns a non-empty message
	Status func() string
	// Called when F5 is pressed
	Reload func()

	keypad   *machine.Keypad
	bindings []binding
	held     [machine.KEY_COUNT]bool
	scale    int

	mu     sync.Mutex
	frame  machine.Frame
	pixels []byte
	canvas *ebiten.Image
	closed bool
}

func NewWindow(keypad *machine.Keypad, keymap Keymap, scale int) *Window {
	if scale < 1 {
		scale = 1
	}

	w := &Window{
		keypad: keypad,
		scale:  scale,
		pixels: make([]byte, machine.DISPLAY_WIDTH*machine.DISPLAY_HEIGHT*4),
	}

	for r, key := range keymap {
		if host, ok := hostKeys[r]; ok {
			w.bindings = append(w.bindings, binding{host: host, key: key})
		}
	}

	return w
}

func (w *Window) Render(frame machine.Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWindowClosed
	}

	w.frame = frame

	return nil
}

// Run blocks until the window is closed or Escape is pressed
func (w *Window) Run() error {
	ebiten.SetWindowSize(
		machine.DISPLAY_WIDTH*w.scale, machine.DISPLAY_HEIGHT*w.scale,
	)
	ebiten.SetWindowTitle("gochip8")
	ebiten.SetRunnableOnUnfocused(true)

	err := ebiten.RunGame(w)

	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	if errors.Is(err, ebiten.Termination) {
		return nil
	}

	return err
}

func (w *Window) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if w.Reload != nil && inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		w.Reload()
	}

	var held [machine.KEY_COUNT]bool

	for _, b := range w.bindings {
		if ebiten.IsKeyPressed(b.host) {
			held[b.key] = true
		}
	}

	for key, pressed := range held {
		if pressed != w.held[key] {
			w.keypad.Set(uint8(key), pressed)
		}
	}

	w.held = held

	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	if w.canvas == nil {
		w.canvas = ebiten.NewImage(machine.DISPLAY_WIDTH, machine.DISPLAY_HEIGHT)
	}

	w.mu.Lock()
	for y, row := range w.frame {
		for x, on := range row {
			c := colorOff
			if on {
				c = colorOn
			}

			i := (y*machine.DISPLAY_WIDTH + x) * 4
			w.pixels[i] = c.R
			w.pixels[i+1] = c.G
			w.pixels[i+2] = c.B
			w.pixels[i+3] = c.A
		}
	}
	w.canvas.WritePixels(w.pixels)
	w.mu.Unlock()

	var opts ebiten.DrawImageOptions
	opts.GeoM.Scale(float64(w.scale), float64(w.scale))
	screen.DrawImage(w.canvas, &opts)

	if w.Status == nil {
		return
	}

	if msg := w.Status(); msg != "" {
		face := basicfont.Face7x13
		width, height := w.Layout(0, 0)

		ebitenutil.DrawRect(
			screen, 0, float64(height-18), float64(width), 18, colorOverlay,
		)
		text.Draw(screen, msg, face, 4, height-5, color.White)
	}
}

func (w *Window) Layout(_, _ int) (int, int) {
	return machine.DISPLAY_WIDTH * w.scale, machine.DISPLAY_HEIGHT * w.scale
}
