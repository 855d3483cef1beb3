// Package mmu provides the bus facade: the 64KB address space decoder
// that dispatches every CPU read/write to the cartridge, work RAM, PPU,
// APU, timer, serial port, joypad, and interrupt controller. The MMU owns
// no emulation state of its own beyond work RAM and the high page;
// everything else it forwards.
package mmu

import (
	"fmt"

	"github.com/retrocore/pocketcore/internal/apu"
	"github.com/retrocore/pocketcore/internal/cartridge"
	"github.com/retrocore/pocketcore/internal/cheats"
	"github.com/retrocore/pocketcore/internal/interrupts"
	"github.com/retrocore/pocketcore/internal/joypad"
	"github.com/retrocore/pocketcore/internal/ppu"
	"github.com/retrocore/pocketcore/internal/serial"
	"github.com/retrocore/pocketcore/internal/timer"
	"github.com/retrocore/pocketcore/internal/types"
	"github.com/retrocore/pocketcore/pkg/log"
)

// MMU is the bus every other component is wired through. It satisfies
// cpu.Bus.
type MMU struct {
	Cart *cartridge.Cartridge

	ppu    *ppu.PPU
	apu    *apu.APU
	timer  *timer.Controller
	serial *serial.Controller
	joypad *joypad.State
	irq    *interrupts.Controller

	wram [0x2000]uint8 // 0xC000-0xDFFF, mirrored at 0xE000-0xFDFF
	hram [0x7F]uint8   // 0xFF80-0xFFFE

	bootROM      []byte
	bootDisabled bool

	warned map[uint16]bool // unimplemented MMIO addresses already logged

	Cheats *cheats.Registry

	Log log.Logger
}

// New returns an MMU wired to every peripheral. The PPU's OAM-DMA source
// reader is attached here, since the DMA engine's source range spans the
// whole address space rather than just PPU-owned memory.
func New(cart *cartridge.Cartridge, irq *interrupts.Controller, p *ppu.PPU, a *apu.APU, t *timer.Controller, ser *serial.Controller, pad *joypad.State) *MMU {
	m := &MMU{
		Cart:   cart,
		ppu:    p,
		apu:    a,
		timer:  t,
		serial: ser,
		joypad: pad,
		irq:    irq,
		Cheats: cheats.NewRegistry(),
		Log:    log.New(),
		warned: make(map[uint16]bool),
	}
	p.AttachBusRead(m.Read)
	return m
}

// SetBootROM attaches a boot ROM image, mapped over the low cartridge
// bank until disabled via a write to FF50. A DMG boot ROM is
// 0x100 bytes (0x0000-0x00FF); a CGB one is 0x900 bytes split either
// side of the cartridge header at 0x0100-0x01FF.
func (m *MMU) SetBootROM(rom []byte) {
	m.bootROM = rom
	m.bootDisabled = false
}

// bootROMMapped reports whether address falls within the currently
// attached, not-yet-disabled boot ROM's window.
func (m *MMU) bootROMMapped(address uint16) bool {
	if m.bootDisabled || len(m.bootROM) == 0 {
		return false
	}
	if address < 0x0100 {
		return int(address) < len(m.bootROM)
	}
	if len(m.bootROM) > 0x100 && address >= 0x0200 && address < 0x0900 {
		return int(address) < len(m.bootROM)
	}
	return false
}

// Read returns the byte at address, decoding the full memory map.
func (m *MMU) Read(address uint16) uint8 {
	switch {
	case m.bootROMMapped(address):
		return m.bootROM[address]
	case address <= types.ROMBankNEnd:
		return m.Cheats.InterceptROM(address, m.Cart.Read(address))
	case address >= types.VRAMStart && address <= types.VRAMEnd:
		return m.ppu.ReadVRAM(address - types.VRAMStart)
	case address >= types.ExternalRAMStart && address <= types.ExternalRAMEnd:
		return m.Cart.Read(address)
	case address >= types.WRAMStart && address <= types.WRAMEnd:
		return m.wram[address-types.WRAMStart]
	case address >= types.EchoStart && address <= types.EchoEnd:
		return m.wram[address-types.EchoStart]
	case address >= types.OAMStart && address <= types.OAMEnd:
		return m.ppu.ReadOAM(address - types.OAMStart)
	case address >= types.UnusableStart && address <= types.UnusableEnd:
		return 0xFF
	case address >= types.MMIOStart && address <= types.MMIOEnd:
		return m.readMMIO(address)
	case address >= types.HRAMStart && address <= types.HRAMEnd:
		return m.hram[address-types.HRAMStart]
	case address == types.IE:
		return m.irq.ReadIE()
	}
	panic(fmt.Sprintf("mmu: unreachable address 0x%04X", address))
}

// Write stores value at address, decoding the full memory map.
func (m *MMU) Write(address uint16, value uint8) {
	switch {
	case address <= types.ROMBankNEnd:
		m.Cart.Write(address, value)
	case address >= types.VRAMStart && address <= types.VRAMEnd:
		m.ppu.WriteVRAM(address-types.VRAMStart, value)
	case address >= types.ExternalRAMStart && address <= types.ExternalRAMEnd:
		m.Cart.Write(address, value)
	case address >= types.WRAMStart && address <= types.WRAMEnd:
		m.wram[address-types.WRAMStart] = value
	case address >= types.EchoStart && address <= types.EchoEnd:
		m.wram[address-types.EchoStart] = value
	case address >= types.OAMStart && address <= types.OAMEnd:
		m.ppu.WriteOAM(address-types.OAMStart, value)
	case address >= types.UnusableStart && address <= types.UnusableEnd:
		// writes to the unusable region are discarded
	case address >= types.MMIOStart && address <= types.MMIOEnd:
		m.writeMMIO(address, value)
	case address >= types.HRAMStart && address <= types.HRAMEnd:
		m.hram[address-types.HRAMStart] = value
	case address == types.IE:
		m.irq.WriteIE(value)
	default:
		panic(fmt.Sprintf("mmu: unreachable address 0x%04X", address))
	}
}

// readMMIO dispatches register reads in 0xFF00-0xFF7F. Register 0xFF46
// (DMA) is handled by the PPU itself, not here, since it owns the DMA
// engine.
func (m *MMU) readMMIO(address uint16) uint8 {
	switch address {
	case types.P1:
		return m.joypad.Read()
	case types.SB:
		return m.serial.ReadSB()
	case types.SC:
		return m.serial.ReadSC()
	case types.DIV:
		return m.timer.ReadDIV()
	case types.TIMA:
		return m.timer.ReadTIMA()
	case types.TMA:
		return m.timer.ReadTMA()
	case types.TAC:
		return m.timer.ReadTAC()
	case types.IF:
		return m.irq.ReadIF()
	case types.LCDC, types.STAT, types.SCY, types.SCX, types.LY, types.LYC,
		types.DMA, types.BGP, types.OBP0, types.OBP1, types.WY, types.WX,
		types.VBK, types.BCPS, types.BCPD, types.OCPS, types.OCPD:
		return m.ppu.ReadRegister(address)
	case types.KEY1, types.SVBK, types.BDIS:
		return 0xFF
	}
	if address >= types.NR10 && address <= types.WaveRAMEnd {
		return m.apu.ReadRegister(address)
	}
	m.warnOnce(address, "mmu: unimplemented MMIO read at 0x%04X", address)
	return 0xFF
}

// warnOnce logs an unimplemented-register warning the first time each
// address is touched, so a game polling a missing register doesn't flood
// the log.
func (m *MMU) warnOnce(address uint16, format string, args ...interface{}) {
	if m.warned[address] {
		return
	}
	m.warned[address] = true
	m.Log.Warnf(format, args...)
}

// writeMMIO dispatches register writes in 0xFF00-0xFF7F.
func (m *MMU) writeMMIO(address uint16, value uint8) {
	switch address {
	case types.P1:
		m.joypad.Write(value)
	case types.SB:
		m.serial.WriteSB(value)
	case types.SC:
		m.serial.WriteSC(value)
	case types.DIV:
		m.timer.WriteDIV(value)
	case types.TIMA:
		m.timer.WriteTIMA(value)
	case types.TMA:
		m.timer.WriteTMA(value)
	case types.TAC:
		m.timer.WriteTAC(value)
	case types.IF:
		m.irq.WriteIF(value)
	case types.LCDC, types.STAT, types.SCY, types.SCX, types.LY, types.LYC,
		types.DMA, types.BGP, types.OBP0, types.OBP1, types.WY, types.WX,
		types.VBK, types.BCPS, types.BCPD, types.OCPS, types.OCPD:
		m.ppu.WriteRegister(address, value)
	case types.KEY1, types.SVBK:
		// CGB-only registers, no-op in DMG-compat mode
	case types.BDIS:
		if value&0x01 != 0 {
			m.bootDisabled = true
		}
	default:
		if address >= types.NR10 && address <= types.WaveRAMEnd {
			m.apu.WriteRegister(address, value)
			return
		}
		m.warnOnce(address, "mmu: unimplemented MMIO write at 0x%04X = 0x%02X", address, value)
	}
}

// ApplyCheats pokes any enabled Game Shark codes into work RAM. A host
// calls this once per frame.
func (m *MMU) ApplyCheats() {
	m.Cheats.ApplyPokes(m.Write)
}

var _ types.Stater = (*MMU)(nil)

func (m *MMU) Save(s *types.State) {
	s.WriteData(m.wram[:])
	s.WriteData(m.hram[:])
	s.WriteBool(m.bootDisabled)
	m.Cart.Save(s)
}

func (m *MMU) Load(s *types.State) {
	s.ReadData(m.wram[:])
	s.ReadData(m.hram[:])
	m.bootDisabled = s.ReadBool()
	m.Cart.Load(s)
}
