// Package timer implements the DIV/TIMA/TMA/TAC programmable interval
// timer, including the documented TIMA-overflow-to-reload delay.
package timer

import (
	"github.com/retrocore/pocketcore/internal/interrupts"
	"github.com/retrocore/pocketcore/internal/types"
)

// selectorBit, indexed by TAC's low 2 bits, names the bit of the internal
// 16-bit counter whose falling edge clocks TIMA (the real hardware ANDs
// that bit with the TAC-enable bit and watches for a 1->0 transition).
var selectorBit = [4]uint16{1 << 9, 1 << 3, 1 << 5, 1 << 7}

// Controller is the timer/divider unit. DIV is the upper 8 bits of
// internal; writing DIV (from the CPU) resets internal to 0 wholesale.
type Controller struct {
	internal uint16 // free-running counter, +4 every machine cycle

	tima uint8
	tma  uint8
	tac  uint8 // bits 0-1 select rate, bit 2 enables

	// overflow-to-reload delay: TIMA sits at 0x00 for 4 cycles before TMA
	// is loaded and the interrupt requested. A write to TIMA during that
	// window cancels the reload.
	reloadCyclesLeft int8
	reloadPending    bool
	reloadCancelled  bool

	irq *interrupts.Controller
}

// NewController returns a timer with the documented DMG post-boot DIV
// value.
func NewController(irq *interrupts.Controller) *Controller {
	return &Controller{internal: 0xABCC, irq: irq}
}

func (c *Controller) enabled() bool { return c.tac&types.Bit2 != 0 }
func (c *Controller) rate() uint16  { return selectorBit[c.tac&0x03] }

// Tick advances the timer by exactly one machine cycle: the internal
// counter moves by exactly 4 for every machine cycle stepped.
func (c *Controller) Tick() {
	for i := 0; i < 4; i++ {
		c.tickMasterClock()
	}
}

func (c *Controller) tickMasterClock() {
	// service a pending reload before the new clock's edge-detection, so
	// the 4-cycle window is measured in master clocks, matching hardware.
	if c.reloadPending {
		c.reloadCyclesLeft--
		if c.reloadCyclesLeft <= 0 {
			c.reloadPending = false
			if !c.reloadCancelled {
				c.tima = c.tma
				c.irq.Request(interrupts.Timer)
			}
			c.reloadCancelled = false
		}
	}

	before := c.internal & c.rate()
	c.internal++
	after := c.internal & c.rate()

	if c.enabled() && before != 0 && after == 0 {
		c.incrementTIMA()
	}
}

func (c *Controller) incrementTIMA() {
	c.tima++
	if c.tima == 0 {
		c.reloadPending = true
		c.reloadCyclesLeft = 4
		c.reloadCancelled = false
	}
}

// ReadDIV returns the upper 8 bits of the internal counter.
func (c *Controller) ReadDIV() uint8 { return uint8(c.internal >> 8) }

// DivBit8 returns bit 8 of the free-running divider, the edge the serial
// controller's internal clock is driven from.
func (c *Controller) DivBit8() bool { return c.internal&0x100 != 0 }

// WriteDIV resets the whole internal counter to 0 regardless of the
// written value. If the currently-selected rate bit was set before the
// reset and the timer is enabled, the falling edge this produces fires
// one TIMA increment pulse, the documented DIV-write quirk of the
// hardware's edge-detector circuit.
func (c *Controller) WriteDIV(uint8) {
	before := c.internal & c.rate()
	c.internal = 0
	if c.enabled() && before != 0 {
		c.incrementTIMA()
	}
}

// ReadTIMA/WriteTIMA/ReadTMA/WriteTMA/ReadTAC/WriteTAC implement the
// remaining MMIO surface.
func (c *Controller) ReadTIMA() uint8 { return c.tima }

func (c *Controller) WriteTIMA(v uint8) {
	if c.reloadPending {
		// a write during the 4-cycle delay window cancels the reload.
		c.reloadCancelled = true
	}
	c.tima = v
}

func (c *Controller) ReadTMA() uint8 { return c.tma }

func (c *Controller) WriteTMA(v uint8) {
	c.tma = v
	// a TMA write on the same cycle TIMA is about to reload takes effect
	// immediately on the pending reload value.
	if c.reloadPending && !c.reloadCancelled {
		c.tma = v
	}
}

func (c *Controller) ReadTAC() uint8 { return c.tac | 0xF8 }

func (c *Controller) WriteTAC(v uint8) {
	wasEnabled := c.enabled()
	oldRate := c.rate()
	c.tac = v & 0x07

	// disabling the timer while the old selector bit is high is itself a
	// falling edge at the TIMA clock input.
	if wasEnabled && !c.enabled() && c.internal&oldRate != 0 {
		c.incrementTIMA()
	}
}

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.Write16(c.internal)
	s.Write8(c.tima)
	s.Write8(c.tma)
	s.Write8(c.tac)
	s.WriteBool(c.reloadPending)
	s.WriteBool(c.reloadCancelled)
	s.Write8(uint8(c.reloadCyclesLeft))
}

func (c *Controller) Load(s *types.State) {
	c.internal = s.Read16()
	c.tima = s.Read8()
	c.tma = s.Read8()
	c.tac = s.Read8()
	c.reloadPending = s.ReadBool()
	c.reloadCancelled = s.ReadBool()
	c.reloadCyclesLeft = int8(s.Read8())
}
