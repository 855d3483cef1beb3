package apu

import (
	"path/filepath"
	"testing"

	"github.com/retrocore/pocketcore/internal/types"
)

func TestRenderWaveformProducesFile(t *testing.T) {
	a := New()
	a.WriteRegister(types.NR52, 0x80)
	a.WriteRegister(types.NR11, 0x80) // duty 50%
	a.WriteRegister(types.NR12, 0xF3) // envelope initial volume, direction
	a.WriteRegister(types.NR13, 0x00)
	a.WriteRegister(types.NR14, 0x87) // trigger, frequency high bits

	out := filepath.Join(t.TempDir(), "channel1.png")
	if err := RenderWaveform(a, 256, out); err != nil {
		t.Fatalf("RenderWaveform: %v", err)
	}
}
