package ppu

import (
	"testing"

	"github.com/retrocore/pocketcore/internal/interrupts"
)

func newTestPPU() *PPU {
	p := New(interrupts.NewController(), false)
	p.WriteRegister(0x0, 0) // no-op, keeps LCDC write path exercised below
	p.lcdc.write(0x91)      // LCD on, BG on, unsigned tile data, map 0x9800
	p.mode = OAMSearch
	return p
}

func TestModeProgressesOAMToPixelTransferToHBlank(t *testing.T) {
	p := newTestPPU()
	for i := 0; i < 20; i++ {
		p.Tick()
	}
	if p.mode != PixelTransfer {
		t.Fatalf("mode after 80 clocks = %v, want PixelTransfer", p.mode)
	}
	for i := 0; i < 43; i++ {
		p.Tick()
	}
	if p.mode != HBlank {
		t.Fatalf("mode after 172 more clocks = %v, want HBlank", p.mode)
	}
}

func TestVBlankInterruptFiresAtLine144(t *testing.T) {
	p := newTestPPU()
	irq := p.irq
	irq.Enable = 0x1F
	for line := 0; line < 144; line++ {
		for i := 0; i < 114; i++ { // 456 clocks / 4 per Tick = 114
			p.Tick()
		}
	}
	if !irq.Pending() {
		t.Fatal("expected VBlank interrupt request at line 144")
	}
	if p.ly != 144 {
		t.Fatalf("ly = %d, want 144", p.ly)
	}
}

func TestVRAMBlockedDuringPixelTransfer(t *testing.T) {
	p := newTestPPU()
	p.mode = PixelTransfer
	p.WriteVRAM(0, 0x42)
	if got := p.ReadVRAM(0); got != 0xFF {
		t.Fatalf("VRAM read during PixelTransfer = %#x, want 0xFF", got)
	}
}

func TestOAMBlockedDuringDMA(t *testing.T) {
	p := newTestPPU()
	p.mode = HBlank
	rom := make([]byte, 256)
	p.AttachBusRead(func(addr uint16) uint8 { return rom[addr%256] })
	p.dma.Start(0xC0)
	if got := p.ReadOAM(0); got != 0xFF {
		t.Fatalf("OAM read during active DMA = %#x, want 0xFF", got)
	}
}

func TestTileRowDecode(t *testing.T) {
	// lo=0x55, hi=0x33 interleave to the color indices 0,1,2,3,0,1,2,3
	// (2bpp: hi byte holds the high bit of each pixel).
	got := tileRow(0x55, 0x33)
	want := [8]uint8{0, 1, 2, 3, 0, 1, 2, 3}
	if got != want {
		t.Fatalf("tileRow(0x55, 0x33) = %v, want %v", got, want)
	}
}

func TestIdentityBGPMapsIndicesToShades(t *testing.T) {
	pal := decodeMonoPalette(0xE4) // 11 10 01 00: identity mapping
	for idx := uint8(0); idx < 4; idx++ {
		if pal[idx] != idx {
			t.Fatalf("BGP=0xE4 maps index %d to shade %d, want identity", idx, pal[idx])
		}
	}
	if monoShades[pal[0]] != monoShades[0] || monoShades[pal[3]] != monoShades[3] {
		t.Fatal("identity palette should render white for index 0 and black for index 3")
	}
}

func TestMonoPaletteEncodeRoundTrip(t *testing.T) {
	for _, v := range []uint8{0x00, 0xE4, 0x1B, 0xFC} {
		if got := decodeMonoPalette(v).encode(); got != v {
			t.Errorf("palette %#02x round-trips to %#02x", v, got)
		}
	}
}

func TestLYCCoincidenceReflectedInSTAT(t *testing.T) {
	p := newTestPPU()
	p.ly = 10
	p.lyc = 10
	if got := p.ReadRegister(0xFF41); got&0x04 == 0 {
		t.Fatalf("STAT coincidence bit not set for ly==lyc (got %#x)", got)
	}
}
