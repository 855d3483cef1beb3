// Package ppu implements the pixel processing unit: a per-scanline
// rasterizer driven by a fixed 456-master-clock line timing, modeled as
// a four-mode state machine (OAMSearch/PixelTransfer/HBlank/VBlank)
// rather than a pixel FIFO, which per-line rasterization does not need.
package ppu

import (
	"github.com/retrocore/pocketcore/internal/interrupts"
	"github.com/retrocore/pocketcore/internal/types"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// Per-line mode budget in master clocks. With per-line rasterization the
// PixelTransfer and HBlank shares are fixed; a pixel-FIFO model would
// stretch PixelTransfer (and shrink HBlank) with SCX and sprite count.
const (
	oamSearchClocks     = 80
	pixelTransferClocks = 172
	hblankClocks        = 204
	lineClocks          = oamSearchClocks + pixelTransferClocks + hblankClocks
)

// PPU owns video RAM, OAM, the OAM-DMA engine, and the LCD register file,
// and renders one RGB scanline at a time into Frame as HBlank is entered.
type PPU struct {
	cgb bool

	vram     [2][8192]byte
	vramBank uint8
	oam      *OAM
	dma      *DMA

	lcdc       lcdc
	stat       stat
	scy, scx   uint8
	ly, lyc    uint8
	wy, wx     uint8
	windowLine uint8

	bgp, obp0, obp1       monoPalette
	bgPalette, objPalette cgbPalette

	mode     Mode
	cycle    int
	statLine bool // last computed STAT-interrupt condition, for edge detection

	bgAttrLine [ScreenWidth]uint8 // CGB BG palette number per pixel, current line scratch

	Frame      [ScreenHeight][ScreenWidth]rgb
	FrameReady bool

	irq *interrupts.Controller
}

func New(irq *interrupts.Controller, cgb bool) *PPU {
	p := &PPU{irq: irq, cgb: cgb}
	p.oam = NewOAM()
	p.dma = NewDMA(p.oam, nil)
	return p
}

// AttachBusRead wires the DMA engine's source reader; the bus calls this
// once during construction since the DMA source spans the whole address
// space (cartridge, WRAM, etc.), not just PPU-owned memory.
func (p *PPU) AttachBusRead(read func(addr uint16) uint8) { p.dma = NewDMA(p.oam, read) }

func (p *PPU) DMA() *DMA { return p.dma }

// vramReadable/oamReadable report the hardware's access-window gating:
// VRAM is inaccessible during PixelTransfer, OAM during both
// OAMSearch and PixelTransfer and also while OAM DMA is in flight. DMA
// does not block VRAM.
func (p *PPU) vramReadable() bool { return p.mode != PixelTransfer }
func (p *PPU) oamReadable() bool {
	return p.mode != OAMSearch && p.mode != PixelTransfer && !p.dma.Active()
}

func (p *PPU) ReadVRAM(addr uint16) uint8 {
	if !p.vramReadable() {
		return 0xFF
	}
	return p.vram[p.vramBank][addr]
}

func (p *PPU) WriteVRAM(addr uint16, v uint8) {
	if !p.vramReadable() {
		return
	}
	p.vram[p.vramBank][addr] = v
}

func (p *PPU) ReadOAM(addr uint16) uint8 {
	if !p.oamReadable() {
		return 0xFF
	}
	return p.oam.Read(addr)
}

func (p *PPU) WriteOAM(addr uint16, v uint8) {
	if !p.oamReadable() {
		return
	}
	p.oam.Write(addr, v)
}

func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case types.LCDC:
		return p.lcdc.read()
	case types.STAT:
		return p.stat.read(p.mode, p.ly == p.lyc)
	case types.SCY:
		return p.scy
	case types.SCX:
		return p.scx
	case types.LY:
		return p.ly
	case types.LYC:
		return p.lyc
	case types.BGP:
		return p.bgp.encode()
	case types.OBP0:
		return p.obp0.encode()
	case types.OBP1:
		return p.obp1.encode()
	case types.WY:
		return p.wy
	case types.WX:
		return p.wx
	case types.DMA:
		return p.dma.Source()
	case types.VBK:
		if !p.cgb {
			return 0xFF
		}
		return p.vramBank | 0xFE
	case types.BCPS:
		return p.bgPalette.readIndex()
	case types.BCPD:
		return p.bgPalette.read()
	case types.OCPS:
		return p.objPalette.readIndex()
	case types.OCPD:
		return p.objPalette.read()
	}
	return 0xFF
}

func (p *PPU) WriteRegister(addr uint16, v uint8) {
	switch addr {
	case types.LCDC:
		wasEnabled := p.lcdc.Enabled
		p.lcdc.write(v)
		if wasEnabled && !p.lcdc.Enabled {
			p.disable()
		} else if !wasEnabled && p.lcdc.Enabled {
			p.enable()
		}
	case types.STAT:
		p.stat.write(v)
	case types.SCY:
		p.scy = v
	case types.SCX:
		p.scx = v
	case types.LY:
		// read-only; writes reset to 0 on real hardware
		p.ly = 0
	case types.LYC:
		p.lyc = v
	case types.BGP:
		p.bgp = decodeMonoPalette(v)
	case types.OBP0:
		p.obp0 = decodeMonoPalette(v)
	case types.OBP1:
		p.obp1 = decodeMonoPalette(v)
	case types.WY:
		p.wy = v
	case types.WX:
		p.wx = v
	case types.DMA:
		p.dma.Start(v)
	case types.VBK:
		if p.cgb {
			p.vramBank = v & 0x01
		}
	case types.BCPS:
		p.bgPalette.writeIndex(v)
	case types.BCPD:
		p.bgPalette.write(v)
	case types.OCPS:
		p.objPalette.writeIndex(v)
	case types.OCPD:
		p.objPalette.write(v)
	}
}

// FrameBuffer packs the current front buffer into the 15-bit RGB +
// always-set alpha bit encoding the frame-ready callback hands out, so a
// host never needs this package's unexported color type.
func (p *PPU) FrameBuffer() [ScreenHeight][ScreenWidth]uint16 {
	var out [ScreenHeight][ScreenWidth]uint16
	for y := range p.Frame {
		for x := range p.Frame[y] {
			c := p.Frame[y][x]
			out[y][x] = 1<<15 | uint16(c.r>>3)<<10 | uint16(c.g>>3)<<5 | uint16(c.b>>3)
		}
	}
	return out
}

func (p *PPU) disable() {
	p.mode = HBlank
	p.ly = 0
	p.cycle = 0
	for y := range p.Frame {
		for x := range p.Frame[y] {
			p.Frame[y][x] = monoShades[0]
		}
	}
}

func (p *PPU) enable() {
	p.mode = OAMSearch
	p.cycle = 0
	p.windowLine = 0
}

// Tick advances the PPU by one machine cycle (4 master clocks), stepping
// the OAM-DMA engine alongside it in the same fixed per-cycle order.
func (p *PPU) Tick() {
	p.dma.Tick()
	p.dma.Tick()
	p.dma.Tick()
	p.dma.Tick()

	if !p.lcdc.Enabled {
		return
	}
	p.cycle += 4

	switch p.mode {
	case OAMSearch:
		if p.cycle >= oamSearchClocks {
			p.cycle -= oamSearchClocks
			p.mode = PixelTransfer
			p.checkStat(false)
		}
	case PixelTransfer:
		if p.cycle >= pixelTransferClocks {
			p.cycle -= pixelTransferClocks
			p.mode = HBlank
			p.renderScanline()
			p.checkStat(false)
		}
	case HBlank:
		if p.cycle >= hblankClocks {
			p.cycle -= hblankClocks
			p.ly++
			if p.ly == 144 {
				p.mode = VBlank
				p.irq.Request(interrupts.VBlank)
				p.FrameReady = true
				p.checkStat(true)
			} else {
				p.mode = OAMSearch
				p.checkStat(false)
			}
		}
	case VBlank:
		if p.cycle >= lineClocks {
			p.cycle -= lineClocks
			p.ly++
			if p.ly > 153 {
				p.ly = 0
				p.windowLine = 0
				p.mode = OAMSearch
			}
			p.checkStat(false)
		}
	}
}

// checkStat re-evaluates the STAT interrupt sources and requests the
// LCDStat interrupt on the rising edge of the OR of all enabled sources
// (the STAT-IRQ "glitch" real hardware exhibits from multiple sources
// sharing one line).
func (p *PPU) checkStat(enteringVBlankFromOAM bool) {
	coincidence := p.ly == p.lyc
	line := (coincidence && p.stat.CoincidenceInterrupt) ||
		(p.mode == HBlank && p.stat.HBlankInterrupt) ||
		(p.mode == VBlank && p.stat.VBlankInterrupt) ||
		(p.mode == OAMSearch && p.stat.OAMInterrupt) ||
		(enteringVBlankFromOAM && p.stat.OAMInterrupt)

	if line && !p.statLine {
		p.irq.Request(interrupts.LCDStat)
	}
	p.statLine = line
}

var _ types.Stater = (*PPU)(nil)

func (p *PPU) Save(s *types.State) {
	s.WriteData(p.vram[0][:])
	s.WriteData(p.vram[1][:])
	s.Write8(p.vramBank)
	s.WriteData(p.oam.data[:])
	s.Write8(p.lcdc.read())
	s.Write8(p.stat.rawBits())
	s.Write8(p.scy)
	s.Write8(p.scx)
	s.Write8(p.ly)
	s.Write8(p.lyc)
	s.Write8(p.wy)
	s.Write8(p.wx)
	s.Write8(p.windowLine)
	s.Write8(p.bgp.encode())
	s.Write8(p.obp0.encode())
	s.Write8(p.obp1.encode())
	s.WriteData(p.bgPalette.raw[:])
	s.WriteData(p.objPalette.raw[:])
	s.Write8(uint8(p.mode))
	s.Write32(uint32(p.cycle))
	s.WriteBool(p.statLine)
	p.dma.Save(s)
}

func (p *PPU) Load(s *types.State) {
	s.ReadData(p.vram[0][:])
	s.ReadData(p.vram[1][:])
	p.vramBank = s.Read8()
	s.ReadData(p.oam.data[:])
	p.lcdc.write(s.Read8())
	p.stat.write(s.Read8())
	p.scy = s.Read8()
	p.scx = s.Read8()
	p.ly = s.Read8()
	p.lyc = s.Read8()
	p.wy = s.Read8()
	p.wx = s.Read8()
	p.windowLine = s.Read8()
	p.bgp = decodeMonoPalette(s.Read8())
	p.obp0 = decodeMonoPalette(s.Read8())
	p.obp1 = decodeMonoPalette(s.Read8())
	s.ReadData(p.bgPalette.raw[:])
	s.ReadData(p.objPalette.raw[:])
	p.mode = Mode(s.Read8())
	p.cycle = int(s.Read32())
	p.statLine = s.ReadBool()
	p.dma.Load(s)
}
