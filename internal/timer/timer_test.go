package timer

import (
	"testing"

	"github.com/retrocore/pocketcore/internal/interrupts"
)

func newZeroed() *Controller {
	c := NewController(interrupts.NewController())
	c.WriteDIV(0) // force internal counter to a known 0
	return c
}

func TestTIMAIncrementAt262144Hz(t *testing.T) {
	c := newZeroed()
	c.WriteTIMA(0x00)
	c.WriteTMA(0x00)
	c.WriteTAC(0x05) // enabled, rate index 1 -> every 16 master clocks
	for i := 0; i < 16; i++ {
		c.tickMasterClock()
	}
	if c.ReadTIMA() != 0x01 {
		t.Errorf("expected TIMA=0x01 after 16 clocks, got 0x%02X", c.ReadTIMA())
	}
}

func TestOverflowRequestsInterruptWithinDelay(t *testing.T) {
	irq := interrupts.NewController()
	irq.Enable = 0x1F
	c := NewController(irq)
	c.WriteDIV(0)
	c.WriteTAC(0x05)
	c.WriteTIMA(0xFF)

	for i := 0; i < 16; i++ {
		c.tickMasterClock()
	}
	if c.ReadTIMA() != 0x00 {
		t.Fatalf("expected TIMA to land on 0x00 the instant it overflows, got 0x%02X", c.ReadTIMA())
	}
	if irq.Pending() {
		t.Fatal("interrupt should not fire the instant TIMA hits 0x00")
	}
	for i := 0; i < 4; i++ {
		c.tickMasterClock()
	}
	if !irq.Pending() {
		t.Fatal("expected timer interrupt to be requested within 4 cycles of overflow")
	}
}

func TestWriteDuringReloadWindowCancelsReload(t *testing.T) {
	c := newZeroed()
	c.WriteTAC(0x05)
	c.WriteTMA(0x42)
	c.WriteTIMA(0xFF)
	for i := 0; i < 16; i++ {
		c.tickMasterClock()
	}
	c.WriteTIMA(0x7F) // cancel the reload mid-delay
	for i := 0; i < 4; i++ {
		c.tickMasterClock()
	}
	if c.ReadTIMA() != 0x7F {
		t.Errorf("expected cancelled reload to leave written value, got 0x%02X", c.ReadTIMA())
	}
}

func TestWriteDIVResetsToZero(t *testing.T) {
	c := NewController(interrupts.NewController())
	for i := 0; i < 1000; i++ {
		c.tickMasterClock()
	}
	c.WriteDIV(0xFF)
	if c.ReadDIV() != 0 {
		t.Errorf("expected DIV=0 after write, got 0x%02X", c.ReadDIV())
	}
}
