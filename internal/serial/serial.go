// Package serial stubs the link-cable port. No second console is modeled;
// the port behaves as a terminal-style write: an internal-clock byte
// transfer always shifts in 0xFF (no peer attached) and completes in the
// documented time, requesting the Serial interrupt.
package serial

import (
	"github.com/retrocore/pocketcore/internal/interrupts"
	"github.com/retrocore/pocketcore/internal/types"
)

// Device is an attachable serial peer. The default Device is a terminal
// stub; tests (e.g. Blargg-style test ROMs that print over serial) attach
// a recording Device instead.
type Device interface {
	// Exchange returns the bit this device would shift out in response to
	// the given outgoing bit, and observes the outgoing bit.
	Exchange(out bool) (in bool)
}

// terminalDevice is the default peer: a disconnected cable that always
// shifts in 1 bits. The byte-level "terminal-style write" hook lives on
// Controller.OnByte, where the whole shifted byte is visible.
type terminalDevice struct{}

func (terminalDevice) Exchange(bool) bool { return true }

// Controller models SB/SC and the bit-shift transfer clocked from the
// timer's internal divider.
type Controller struct {
	data    uint8 // SB
	control uint8 // SC

	bitsShifted uint8
	device      Device
	onByte      func(byte)

	lastDivBit8 bool

	irq *interrupts.Controller
}

// NewController returns a Controller with the default terminal Device
// attached and SC at its documented post-boot value.
func NewController(irq *interrupts.Controller) *Controller {
	c := &Controller{irq: irq, control: 0x7E}
	c.device = terminalDevice{}
	return c
}

// Attach replaces the attached peer Device.
func (c *Controller) Attach(d Device) { c.device = d }

// OnByte installs a callback invoked with each byte shifted out while
// using the internal clock; this is the "terminal-style write" hook a
// host can use to capture test-ROM serial output.
func (c *Controller) OnByte(f func(byte)) { c.onByte = f }

func (c *Controller) ReadSB() uint8   { return c.data }
func (c *Controller) WriteSB(v uint8) { c.data = v }

func (c *Controller) ReadSC() uint8 { return c.control | 0x7C }
func (c *Controller) WriteSC(v uint8) {
	c.control = v & 0x83
	if c.transferRequested() && c.internalClock() {
		c.bitsShifted = 0
	}
}

func (c *Controller) transferRequested() bool { return c.control&types.Bit7 != 0 }
func (c *Controller) internalClock() bool     { return c.control&types.Bit0 != 0 }

// Tick is driven once per machine cycle with bit 8 of the timer's
// internal divider (the real hardware clocks serial transfer from the
// same 16-bit counter that drives DIV). A transfer shifts one bit per
// falling edge of that bit (every 128 machine cycles, 8192 Hz) and
// completes after 8 bits, 1024 machine cycles.
func (c *Controller) Tick(divBit8 bool) {
	if !c.transferRequested() || !c.internalClock() {
		c.lastDivBit8 = divBit8
		return
	}
	fallingEdge := c.lastDivBit8 && !divBit8
	c.lastDivBit8 = divBit8
	if !fallingEdge {
		return
	}

	out := c.data&types.Bit7 != 0
	in := c.device.Exchange(out)
	c.data <<= 1
	if in {
		c.data |= 1
	}
	c.bitsShifted++

	if c.bitsShifted >= 8 {
		if c.onByte != nil {
			c.onByte(c.data)
		}
		c.control &^= types.Bit7
		c.bitsShifted = 0
		c.irq.Request(interrupts.Serial)
	}
}

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.Write8(c.data)
	s.Write8(c.control)
	s.Write8(c.bitsShifted)
	s.WriteBool(c.lastDivBit8)
}

func (c *Controller) Load(s *types.State) {
	c.data = s.Read8()
	c.control = s.Read8()
	c.bitsShifted = s.Read8()
	c.lastDivBit8 = s.ReadBool()
}
