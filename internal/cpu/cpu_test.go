package cpu

import "testing"

func TestInstruction_Control(t *testing.T) {
	t.Run("NOP", func(t *testing.T) {
		c, _ := newTestCPU()
		pc := c.PC
		c.runInstruction(0x00)
		if c.PC != pc {
			t.Errorf("expected PC to be unchanged by NOP, got %04X want %04X", c.PC, pc)
		}
	})
	t.Run("STOP", func(t *testing.T) {
		c, _ := newTestCPU()
		c.runInstruction(0x10)
		if c.mode != ModeStop {
			t.Errorf("expected CPU to enter ModeStop, got mode %d", c.mode)
		}
	})
	t.Run("HALT", func(t *testing.T) {
		c, _ := newTestCPU()
		c.irq.EnableIMEImmediate()
		c.runInstruction(0x76)
		if c.mode != ModeHalt {
			t.Errorf("expected CPU to enter ModeHalt, got mode %d", c.mode)
		}
	})
	t.Run("DI", func(t *testing.T) {
		c, _ := newTestCPU()
		c.irq.RequestEI()
		c.irq.Step()
		c.runInstruction(0xF3)
		if c.irq.IME {
			t.Errorf("expected IME to be cleared by DI")
		}
	})
	t.Run("EI", func(t *testing.T) {
		c, _ := newTestCPU()
		c.runInstruction(0xFB)
		c.irq.Step()
		if !c.irq.IME {
			t.Errorf("expected IME to be set one instruction after EI")
		}
	})
}
