package cpu

import (
	"github.com/retrocore/pocketcore/internal/apu"
	"github.com/retrocore/pocketcore/internal/interrupts"
	"github.com/retrocore/pocketcore/internal/ppu"
	"github.com/retrocore/pocketcore/internal/serial"
	"github.com/retrocore/pocketcore/internal/timer"
	"github.com/retrocore/pocketcore/internal/types"
)

// ClockSpeed is the master clock speed in Hz.
const ClockSpeed = 4194304

type mode = uint8

const (
	// ModeNormal is the normal fetch-decode-execute CPU mode.
	ModeNormal mode = iota
	// ModeHalt is entered by HALT with IME set; ticks components without
	// fetching until an enabled interrupt becomes pending.
	ModeHalt
	// ModeStop is entered by STOP; behaves like ModeHalt for the purposes
	// of the instruction loop.
	ModeStop
	// ModeHaltBug reproduces the PC-not-incremented quirk: HALT executed
	// with IME clear while an interrupt is already pending.
	ModeHaltBug
	// ModeHaltDI is HALT with IME clear and nothing pending yet; the CPU
	// resumes without servicing an interrupt once one arrives.
	ModeHaltDI
	// ModeHang is entered by the opcodes documented to lock up the CPU;
	// only a reset leaves it.
	ModeHang
)

// Bus is the address space the CPU fetches instructions and operands
// from, and the target of every LD/ALU memory access. Implementations
// wire together cartridge ROM/RAM, work RAM, OAM, and the I/O register
// block behind a single flat 16-bit address space.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// CPU emulates the 8080/Z80 hybrid core: registers, instruction dispatch,
// and the machine-cycle tick loop that drives every other component.
type CPU struct {
	PC uint16
	SP uint16
	Registers

	Debug           bool
	DebugBreakpoint bool

	bus Bus
	irq *interrupts.Controller

	timer  *timer.Controller
	ppu    *ppu.PPU
	sound  *apu.APU
	serial *serial.Controller

	currentTick uint8
	mode        mode
}

// NewCPU wires a CPU to its bus and the components it steps every
// machine cycle in lockstep: timer, serial, PPU (which steps its own
// OAM-DMA engine internally), APU.
func NewCPU(bus Bus, irq *interrupts.Controller, t *timer.Controller, p *ppu.PPU, sound *apu.APU, ser *serial.Controller) *CPU {
	c := &CPU{
		Registers: Registers{},
		bus:       bus,
		irq:       irq,
		timer:     t,
		ppu:       p,
		sound:     sound,
		serial:    ser,
	}
	c.BC = &RegisterPair{&c.B, &c.C}
	c.DE = &RegisterPair{&c.D, &c.E}
	c.HL = &RegisterPair{&c.H, &c.L}
	c.AF = &RegisterPair{&c.A, &c.F}

	return c
}

// Step executes one instruction (or one mode-appropriate tick while
// halted/stopped) and returns the number of machine cycles it took.
func (c *CPU) Step() uint8 {
	c.currentTick = 0
	c.irq.Step()

	reqInt := false
	switch c.mode {
	case ModeNormal:
		c.runInstruction(c.readInstruction())
		reqInt = c.irq.Ready()
	case ModeHalt, ModeStop:
		c.tickCycle()
		reqInt = c.irq.Pending()
	case ModeHaltDI:
		c.tickCycle()
		if c.irq.Pending() {
			c.mode = ModeNormal
		}
	case ModeHang:
		c.tickCycle()
	case ModeHaltBug:
		instr := c.readInstruction()
		c.PC--
		c.runInstruction(instr)
		c.mode = ModeNormal
		reqInt = c.irq.Ready()
	}

	if reqInt {
		c.executeInterrupt()
	}

	return c.currentTick
}

// readInstruction fetches the opcode at PC, ticking one machine cycle.
func (c *CPU) readInstruction() uint8 {
	c.tickCycle()
	value := c.bus.Read(c.PC)
	c.PC++
	return value
}

// readOperand reads the next operand byte. Same cost as readInstruction;
// kept distinct so callers read intent at the call site.
func (c *CPU) readOperand() uint8 {
	c.tickCycle()
	value := c.bus.Read(c.PC)
	c.PC++
	return value
}

func (c *CPU) skipOperand() {
	c.tickCycle()
	c.PC++
}

// readByte reads a byte from the bus, ticking one machine cycle.
func (c *CPU) readByte(addr uint16) uint8 {
	c.tickCycle()
	return c.bus.Read(addr)
}

// writeByte writes a byte to the bus, ticking one machine cycle.
func (c *CPU) writeByte(addr uint16, val uint8) {
	c.tickCycle()
	c.bus.Write(addr, val)
}

func (c *CPU) runInstruction(opcode uint8) {
	if opcode == 0xCB {
		c.decodeCB(c.readOperand())
		return
	}

	InstructionSet[opcode].fn(c)
}

// executeInterrupt services the highest-priority pending interrupt: push
// PC, clear its IF bit, jump to its vector, and clear IME. If IME is
// clear this only wakes the CPU out of HALT/STOP without vectoring.
func (c *CPU) executeInterrupt() {
	if c.irq.IME {
		source := c.irq.NextSource()

		c.SP--
		c.writeByte(c.SP, uint8(c.PC>>8))
		c.SP--
		c.writeByte(c.SP, uint8(c.PC&0xFF))

		c.irq.Clear(source)
		c.PC = source.Vector()
		c.irq.DisableIME()

		c.tickCycle()
		c.tickCycle()
		c.tickCycle()
	}

	c.mode = ModeNormal
}

// tickCycle advances every component by one machine cycle (4 master
// clocks), in the order the CPU itself observes bus state: timer,
// serial, PPU (which steps its own OAM-DMA engine internally), APU.
func (c *CPU) tickCycle() {
	c.timer.Tick()
	c.serial.Tick(c.timer.DivBit8())
	c.ppu.Tick()
	c.sound.Tick()
	c.currentTick++
}

// shouldZeroFlag sets FlagZero if the given value is 0.
func (c *CPU) shouldZeroFlag(value uint8) {
	if value == 0 {
		c.setFlag(FlagZero)
	} else {
		c.clearFlag(FlagZero)
	}
}

var _ types.Stater = (*CPU)(nil)

func (c *CPU) Load(s *types.State) {
	c.A = s.Read8()
	c.F = s.Read8()
	c.B = s.Read8()
	c.C = s.Read8()
	c.D = s.Read8()
	c.E = s.Read8()
	c.H = s.Read8()
	c.L = s.Read8()
	c.SP = s.Read16()
	c.PC = s.Read16()
	c.mode = s.Read8()
}

func (c *CPU) Save(s *types.State) {
	s.Write8(c.A)
	s.Write8(c.F)
	s.Write8(c.B)
	s.Write8(c.C)
	s.Write8(c.D)
	s.Write8(c.E)
	s.Write8(c.H)
	s.Write8(c.L)
	s.Write16(c.SP)
	s.Write16(c.PC)
	s.Write8(c.mode)
}
