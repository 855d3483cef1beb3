package cpu

import "testing"

func TestShiftLeftIntoCarry(t *testing.T) {
	c, _ := newTestCPU()

	if got := c.shiftLeftIntoCarry(0x80); got != 0x00 {
		t.Errorf("expected 0x80 to shift to 0x00, got %02X", got)
	}
	if !c.isFlagSet(FlagCarry) {
		t.Errorf("expected carry flag set from old bit 7")
	}

	if got := c.shiftLeftIntoCarry(0x40); got != 0x80 {
		t.Errorf("expected 0x40 to shift to 0x80, got %02X", got)
	}
	if c.isFlagSet(FlagCarry) {
		t.Errorf("expected carry flag clear, old bit 7 was 0")
	}
}

func TestShiftRightIntoCarry(t *testing.T) {
	c, _ := newTestCPU()

	if got := c.shiftRightIntoCarry(0x81); got != 0xC0 {
		t.Errorf("expected MSB preserved and carry set, got %02X", got)
	}
	if !c.isFlagSet(FlagCarry) {
		t.Errorf("expected carry flag set from old bit 0")
	}

	if got := c.shiftRightIntoCarry(0x40); got != 0x20 {
		t.Errorf("expected 0x40 to shift to 0x20, got %02X", got)
	}
	if c.isFlagSet(FlagCarry) {
		t.Errorf("expected carry flag clear, old bit 0 was 0")
	}
}

func TestShiftRightLogical(t *testing.T) {
	c, _ := newTestCPU()

	if got := c.shiftRightLogical(0x81); got != 0x40 {
		t.Errorf("expected 0x81 to shift to 0x40, got %02X", got)
	}
	if !c.isFlagSet(FlagCarry) {
		t.Errorf("expected carry flag set from old bit 0")
	}

	if got := c.shiftRightLogical(0x40); got != 0x20 {
		t.Errorf("expected 0x40 to shift to 0x20, got %02X", got)
	}
	if c.isFlagSet(FlagCarry) {
		t.Errorf("expected carry flag clear, old bit 0 was 0")
	}
}
