package mmu

import (
	"testing"

	"github.com/retrocore/pocketcore/internal/apu"
	"github.com/retrocore/pocketcore/internal/cartridge"
	"github.com/retrocore/pocketcore/internal/interrupts"
	"github.com/retrocore/pocketcore/internal/joypad"
	"github.com/retrocore/pocketcore/internal/ppu"
	"github.com/retrocore/pocketcore/internal/serial"
	"github.com/retrocore/pocketcore/internal/timer"
	"github.com/retrocore/pocketcore/internal/types"
	"github.com/retrocore/pocketcore/pkg/log"
)

func newTestMMU(t *testing.T) *MMU {
	t.Helper()
	rom := make([]byte, 32768)
	cart, err := cartridge.New(rom)
	if err != nil {
		t.Fatalf("cartridge.New: %v", err)
	}
	irq := interrupts.NewController()
	m := New(cart, irq, ppu.New(irq, false), apu.New(),
		timer.NewController(irq), serial.NewController(irq), joypad.New(irq))
	m.Log = log.NewNull()
	return m
}

func TestWorkRAMEchoedAtE000(t *testing.T) {
	m := newTestMMU(t)
	m.Write(0xC123, 0x42)
	if got := m.Read(0xE123); got != 0x42 {
		t.Errorf("echo RAM read = %#02x, want 0x42", got)
	}
	m.Write(0xE234, 0x24)
	if got := m.Read(0xC234); got != 0x24 {
		t.Errorf("work RAM read after echo write = %#02x, want 0x24", got)
	}
}

func TestUnusableRegionReadsFF(t *testing.T) {
	m := newTestMMU(t)
	m.Write(0xFEA0, 0x12)
	if got := m.Read(0xFEA0); got != 0xFF {
		t.Errorf("unusable region read = %#02x, want 0xFF", got)
	}
}

func TestHighRAMRoundTrip(t *testing.T) {
	m := newTestMMU(t)
	m.Write(0xFF80, 0xAB)
	m.Write(0xFFFE, 0xCD)
	if got := m.Read(0xFF80); got != 0xAB {
		t.Errorf("HRAM[0] = %#02x, want 0xAB", got)
	}
	if got := m.Read(0xFFFE); got != 0xCD {
		t.Errorf("HRAM[last] = %#02x, want 0xCD", got)
	}
}

func TestIFTopBitsReadAsOnes(t *testing.T) {
	m := newTestMMU(t)
	m.Write(types.IF, 0x00)
	if got := m.Read(types.IF); got&0xE0 != 0xE0 {
		t.Errorf("IF = %08b, want top 3 bits set", got)
	}
}

func TestUnimplementedMMIOReadsFF(t *testing.T) {
	m := newTestMMU(t)
	if got := m.Read(0xFF03); got != 0xFF {
		t.Errorf("unimplemented MMIO read = %#02x, want 0xFF", got)
	}
	m.Write(0xFF03, 0x55) // must not panic, silently dropped
}

// TestOAMDMATransfer drives the documented OAM DMA sequence over the bus:
// writing the page to FF46 makes OAM read 0xFF for the 160-machine-cycle
// transfer window, after which OAM mirrors the source page.
func TestOAMDMATransfer(t *testing.T) {
	m := newTestMMU(t)
	for i := 0; i < 160; i++ {
		m.Write(0xC000+uint16(i), uint8(i)^0xA5)
	}

	m.Write(types.DMA, 0xC0)
	dma := m.ppu.DMA()
	for cycle := 0; cycle < 160; cycle++ {
		if got := m.Read(0xFE00 + uint16(cycle%160)); got != 0xFF {
			t.Fatalf("OAM read mid-DMA (cycle %d) = %#02x, want 0xFF", cycle, got)
		}
		m.ppu.Tick()
	}
	if dma.Active() {
		t.Fatal("DMA still active after 160 machine cycles")
	}
	for i := 0; i < 160; i++ {
		if got := m.Read(0xFE00 + uint16(i)); got != uint8(i)^0xA5 {
			t.Fatalf("OAM[%d] = %#02x, want %#02x", i, got, uint8(i)^0xA5)
		}
	}
}

func TestDIVWriteResetsCounter(t *testing.T) {
	m := newTestMMU(t)
	for i := 0; i < 300; i++ {
		m.timer.Tick()
	}
	m.Write(types.DIV, 0x77)
	if got := m.Read(types.DIV); got != 0x00 {
		t.Errorf("DIV after write = %#02x, want 0x00", got)
	}
}

func TestSaveLoadRestoresRAM(t *testing.T) {
	m := newTestMMU(t)
	m.Write(0xC000, 0x11)
	m.Write(0xFF80, 0x22)

	s := types.NewState()
	m.Save(s)

	m.Write(0xC000, 0x99)
	m.Write(0xFF80, 0x99)
	m.Load(types.StateFromBytes(s.Bytes()))

	if got := m.Read(0xC000); got != 0x11 {
		t.Errorf("WRAM after load = %#02x, want 0x11", got)
	}
	if got := m.Read(0xFF80); got != 0x22 {
		t.Errorf("HRAM after load = %#02x, want 0x22", got)
	}
}
