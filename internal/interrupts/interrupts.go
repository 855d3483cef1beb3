// Package interrupts implements the five-source interrupt controller: the
// IF/IE register pair, the IME master-enable latch (with its one
// instruction EI delay), and priority-ordered vector dispatch.
package interrupts

import "github.com/retrocore/pocketcore/internal/types"

// Source identifies one of the five interrupt lines, ordered by priority
// (lowest index wins when more than one bit is pending).
type Source uint8

const (
	VBlank Source = iota
	LCDStat
	Timer
	Serial
	Joypad
)

// Vector returns the service routine address for s.
func (s Source) Vector() uint16 {
	return 0x0040 + uint16(s)*0x0008
}

// Controller holds IF, IE and IME, and the one-instruction EI delay.
type Controller struct {
	Flag   uint8 // IF, 0xFF0F - bits 5-7 always read as 1
	Enable uint8 // IE, 0xFFFF

	IME       bool
	pendingEI bool // EI takes effect after the *following* instruction
}

// NewController returns a power-on Controller: nothing pending, IME off.
func NewController() *Controller {
	return &Controller{}
}

// Request latches an interrupt request. Settable from either side of the
// bus: hardware components call this directly; software sets it by
// writing FF0F.
func (c *Controller) Request(s Source) {
	c.Flag |= 1 << uint8(s)
}

// Clear drops a pending request, used once a source has been serviced.
func (c *Controller) Clear(s Source) {
	c.Flag &^= 1 << uint8(s)
}

// Pending reports whether any enabled interrupt is currently requested,
// irrespective of IME; this is the condition that wakes the CPU from
// HALT/STOP.
func (c *Controller) Pending() bool {
	return c.Flag&c.Enable&0x1F != 0
}

// Ready reports whether the CPU should vector to an interrupt handler this
// instruction boundary: IME set and at least one enabled source pending.
func (c *Controller) Ready() bool {
	return c.IME && c.Pending()
}

// NextSource returns the lowest-priority-bit pending&enabled source. Only
// valid when Pending() is true.
func (c *Controller) NextSource() Source {
	bits := c.Flag & c.Enable & 0x1F
	for s := VBlank; s <= Joypad; s++ {
		if bits&(1<<uint8(s)) != 0 {
			return s
		}
	}
	return VBlank
}

// RequestEI schedules IME to become true after the instruction that
// follows the current one (the CPU calls Step once between EI and the
// latch taking effect).
func (c *Controller) RequestEI() {
	c.pendingEI = true
}

// DisableIME implements DI: immediate, no delay.
func (c *Controller) DisableIME() {
	c.IME = false
	c.pendingEI = false
}

// EnableIMEImmediate implements the EI-then-immediate-latch behavior used
// by RETI (RET followed by EI with no delay).
func (c *Controller) EnableIMEImmediate() {
	c.IME = true
	c.pendingEI = false
}

// Step advances the EI delay by one instruction boundary; call once per
// instruction fetched.
func (c *Controller) Step() {
	if c.pendingEI {
		c.pendingEI = false
		c.IME = true
	}
}

// ReadIF returns FF0F with the documented always-1 top three bits.
func (c *Controller) ReadIF() uint8 {
	return c.Flag&0x1F | 0xE0
}

// WriteIF writes FF0F; only the low 5 bits are meaningful but all 8 are
// stored so ReadIF's masking stays the single source of truth.
func (c *Controller) WriteIF(v uint8) {
	c.Flag = v
}

// ReadIE returns FFFF.
func (c *Controller) ReadIE() uint8 { return c.Enable }

// WriteIE writes FFFF.
func (c *Controller) WriteIE(v uint8) { c.Enable = v }

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.Write8(c.Flag)
	s.Write8(c.Enable)
	s.WriteBool(c.IME)
	s.WriteBool(c.pendingEI)
}

func (c *Controller) Load(s *types.State) {
	c.Flag = s.Read8()
	c.Enable = s.Read8()
	c.IME = s.ReadBool()
	c.pendingEI = s.ReadBool()
}
