package ppu

import "github.com/retrocore/pocketcore/internal/types"

// DMA models the OAM DMA engine: writing to FF46 starts a transfer of
// 160 bytes from src<<8 into OAM, taking 640 master clocks (160 machine
// cycles). While busy, OAM reads back 0xFF and OAM writes are dropped
// for the whole transfer window; the CPU's access to every other region,
// VRAM included, is not restricted.
type DMA struct {
	oam  *OAM
	read func(addr uint16) uint8

	source   uint8
	active   bool
	cycles   int // master clocks remaining
	nextByte uint8
}

func NewDMA(oam *OAM, read func(addr uint16) uint8) *DMA {
	return &DMA{oam: oam, read: read}
}

// Start begins a transfer from source<<8. Re-triggering while already
// active restarts the transfer from byte 0 with the new source.
func (d *DMA) Start(source uint8) {
	d.source = source
	d.active = true
	d.cycles = 640
	d.nextByte = 0
}

func (d *DMA) Source() uint8 { return d.source }
func (d *DMA) Active() bool  { return d.active }

// Tick advances the DMA engine by one master clock; it copies one byte
// every 4 clocks (one machine cycle) while active.
func (d *DMA) Tick() {
	if !d.active {
		return
	}
	d.cycles--
	if d.cycles%4 == 0 && d.nextByte < 160 {
		addr := uint16(d.source)<<8 + uint16(d.nextByte)
		d.oam.Write(uint16(d.nextByte), d.read(addr))
		d.nextByte++
	}
	if d.cycles <= 0 {
		d.active = false
	}
}

func (d *DMA) Save(s *types.State) {
	s.Write8(d.source)
	s.WriteBool(d.active)
	s.Write32(uint32(d.cycles))
	s.Write8(d.nextByte)
}

func (d *DMA) Load(s *types.State) {
	d.source = s.Read8()
	d.active = s.ReadBool()
	d.cycles = int(s.Read32())
	d.nextByte = s.Read8()
}
