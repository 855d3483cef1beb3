package cpu

import "testing"

var allFlags = []Flag{FlagZero, FlagSubtract, FlagHalfCarry, FlagCarry}

func TestFlag(t *testing.T) {
	c, _ := newTestCPU()
	t.Run("clear", func(t *testing.T) {
		for _, f := range allFlags {
			c.clearFlag(f)
			if c.isFlagSet(f) {
				t.Errorf("expected flag %d to be unset, got set", f)
			}
		}
	})
	t.Run("set", func(t *testing.T) {
		for _, f := range allFlags {
			c.setFlag(f)
			if !c.isFlagSet(f) {
				t.Errorf("expected flag %d to be set, got unset", f)
			}
		}
	})
	t.Run("lowNibbleAlwaysZero", func(t *testing.T) {
		for _, f := range allFlags {
			c.F = 0x0F
			c.setFlag(f)
			if c.F&0x0F != 0 {
				t.Errorf("expected low nibble of F to stay zero, got F=%02X", c.F)
			}
		}
	})
}
