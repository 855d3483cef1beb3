package interrupts

import "testing"

func TestReadIFTopBitsAlwaysSet(t *testing.T) {
	c := NewController()
	c.WriteIF(0x00)
	if got := c.ReadIF(); got&0xE0 != 0xE0 {
		t.Errorf("IF top 3 bits not set: got %08b", got)
	}
}

func TestPriorityOrder(t *testing.T) {
	c := NewController()
	c.Enable = 0x1F
	c.Request(Timer)
	c.Request(VBlank)
	if got := c.NextSource(); got != VBlank {
		t.Errorf("expected VBlank (lowest bit) to win, got %v", got)
	}
}

func TestEIDelaysOneInstruction(t *testing.T) {
	c := NewController()
	c.RequestEI()
	if c.IME {
		t.Fatal("IME should not be set immediately after EI")
	}
	c.Step()
	if !c.IME {
		t.Fatal("IME should be set after the instruction following EI")
	}
}

func TestDIImmediate(t *testing.T) {
	c := NewController()
	c.EnableIMEImmediate()
	c.DisableIME()
	if c.IME {
		t.Fatal("DI should clear IME immediately")
	}
}

func TestReadyRequiresIME(t *testing.T) {
	c := NewController()
	c.Enable = 0x1F
	c.Request(VBlank)
	if c.Ready() {
		t.Fatal("should not be ready without IME")
	}
	c.EnableIMEImmediate()
	if !c.Ready() {
		t.Fatal("should be ready once IME is set")
	}
}
