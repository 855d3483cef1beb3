// Package joypad emulates the P1 register and the 8 physical buttons,
// edge-triggered to the interrupt controller.
package joypad

import (
	"github.com/retrocore/pocketcore/internal/interrupts"
	"github.com/retrocore/pocketcore/internal/types"
)

// Button identifies one of the 8 physical buttons.
type Button uint8

const (
	Right Button = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// State holds the joypad's selector bits and the live button state.
type State struct {
	selectButtons   bool // P1 bit 5
	selectDirection bool // P1 bit 4
	pressed         [8]bool

	irq *interrupts.Controller
}

// New returns a joypad with no buttons held and both rows selected, the
// post-boot state (P1 reads 0xCF).
func New(irq *interrupts.Controller) *State {
	return &State{irq: irq, selectButtons: true, selectDirection: true}
}

// Read returns P1. Bits 6-7 always read 1; the selector bits read back
// active-low (0 = that row selected), and the low nibble reflects every
// selected row (active-low: pressed = 0).
func (s *State) Read() uint8 {
	out := uint8(0xC0)
	if !s.selectDirection {
		out |= types.Bit4
	}
	if !s.selectButtons {
		out |= types.Bit5
	}
	nibble := uint8(0x0F)
	if s.selectDirection {
		nibble &= s.rowNibble(Right, Left, Up, Down)
	}
	if s.selectButtons {
		nibble &= s.rowNibble(A, B, Select, Start)
	}
	return out | nibble
}

func (s *State) rowNibble(b0, b1, b2, b3 Button) uint8 {
	n := uint8(0x0F)
	if s.pressed[b0] {
		n &^= 0x01
	}
	if s.pressed[b1] {
		n &^= 0x02
	}
	if s.pressed[b2] {
		n &^= 0x04
	}
	if s.pressed[b3] {
		n &^= 0x08
	}
	return n
}

// Write updates the selector bits (bits 4-5 only; the rest are read-only).
func (s *State) Write(v uint8) {
	s.selectDirection = v&types.Bit4 == 0
	s.selectButtons = v&types.Bit5 == 0
}

// Press marks a button held and requests the Joypad interrupt.
func (s *State) Press(b Button) {
	s.pressed[b] = true
	s.irq.Request(interrupts.Joypad)
}

// Release marks a button no longer held.
func (s *State) Release(b Button) {
	s.pressed[b] = false
}

var _ types.Stater = (*State)(nil)

func (s *State) Save(st *types.State) {
	st.WriteBool(s.selectButtons)
	st.WriteBool(s.selectDirection)
	for _, p := range s.pressed {
		st.WriteBool(p)
	}
}

func (s *State) Load(st *types.State) {
	s.selectButtons = st.ReadBool()
	s.selectDirection = st.ReadBool()
	for i := range s.pressed {
		s.pressed[i] = st.ReadBool()
	}
}
