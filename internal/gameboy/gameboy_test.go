package gameboy

import (
	"testing"

	"github.com/retrocore/pocketcore/internal/cartridge"
	"github.com/retrocore/pocketcore/internal/serial/accessories"
	"github.com/retrocore/pocketcore/internal/types"
	"github.com/retrocore/pocketcore/pkg/log"
)

// romOnlyCart builds the smallest valid ROM-only cartridge, filled with
// NOPs so a stepped core runs harmlessly off the end of ROM bank 0.
func romOnlyCart(t *testing.T) *cartridge.Cartridge {
	t.Helper()
	rom := make([]byte, 32768)
	rom[0x0148] = 0 // 32KB
	rom[0x0149] = 0 // no RAM
	copy(rom[0x134:], []byte("TEST"))
	c, err := cartridge.New(rom)
	if err != nil {
		t.Fatalf("cartridge.New: %v", err)
	}
	return c
}

func TestNewPostBootRegisterState(t *testing.T) {
	gb := New(romOnlyCart(t), NoAudio())

	if gb.CPU.PC != 0x0100 {
		t.Errorf("PC = %#04x, want 0x0100", gb.CPU.PC)
	}
	if gb.CPU.SP != 0xFFFE {
		t.Errorf("SP = %#04x, want 0xFFFE", gb.CPU.SP)
	}
	if gb.CPU.A != 0x01 || gb.CPU.F != 0xB0 {
		t.Errorf("AF = %#02x%02x, want 0x01B0", gb.CPU.A, gb.CPU.F)
	}
	if gb.CPU.B != 0x00 || gb.CPU.C != 0x13 {
		t.Errorf("BC = %#02x%02x, want 0x0013", gb.CPU.B, gb.CPU.C)
	}
	if gb.CPU.D != 0x00 || gb.CPU.E != 0xD8 {
		t.Errorf("DE = %#02x%02x, want 0x00D8", gb.CPU.D, gb.CPU.E)
	}
	if gb.CPU.H != 0x01 || gb.CPU.L != 0x4D {
		t.Errorf("HL = %#02x%02x, want 0x014D", gb.CPU.H, gb.CPU.L)
	}
}

func TestWithBootROMStartsAtZero(t *testing.T) {
	bootROM := make([]byte, 0x100)
	gb := New(romOnlyCart(t), NoAudio(), WithBootROM(bootROM))

	if gb.CPU.PC != 0x0000 {
		t.Errorf("PC = %#04x, want 0x0000 with a boot ROM attached", gb.CPU.PC)
	}
	if got := gb.MMU.Read(0x0000); got != 0x00 {
		t.Errorf("expected boot ROM byte 0, got %#02x", got)
	}

	gb.MMU.Write(0xFF50, 0x01)
	if got := gb.MMU.Read(0x0000); got != gb.MMU.Cart.Read(0x0000) {
		t.Errorf("boot ROM still mapped after FF50 disable write, read %#02x", got)
	}
}

func TestPauseFreezesFrameBuffer(t *testing.T) {
	gb := New(romOnlyCart(t), NoAudio())
	gb.Pause()
	if !gb.Paused() {
		t.Fatal("expected Paused() true")
	}

	before := gb.Frame()
	after := gb.Frame()
	if before != after {
		t.Errorf("frame buffer changed while paused")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	gb := New(romOnlyCart(t), NoAudio())
	for i := 0; i < 1000; i++ {
		gb.Step()
	}

	out := types.NewState()
	gb.Save(out)
	container := types.EncodeContainer(out)
	pcBefore, spBefore := gb.CPU.PC, gb.CPU.SP

	for i := 0; i < 1000; i++ {
		gb.Step()
	}
	if gb.CPU.PC == pcBefore && gb.CPU.SP == spBefore {
		t.Fatal("test setup did not advance CPU state")
	}

	in, err := types.DecodeContainer(container)
	if err != nil {
		t.Fatalf("DecodeContainer: %v", err)
	}
	gb.Load(in)
	if gb.CPU.PC != pcBefore || gb.CPU.SP != spBefore {
		t.Errorf("load did not restore CPU state: PC=%#04x SP=%#04x, want PC=%#04x SP=%#04x",
			gb.CPU.PC, gb.CPU.SP, pcBefore, spBefore)
	}
}

func TestSerialDebuggerCapturesOutput(t *testing.T) {
	var out string
	gb := New(romOnlyCart(t), NoAudio(), SerialDebugger(&out))

	gb.MMU.Write(0xFF01, 'P')
	gb.MMU.Write(0xFF02, 0x81) // internal clock, transfer requested
	for i := 0; i < 8*2048 && !gb.CPU.DebugBreakpoint; i++ {
		gb.Step()
	}

	if out == "" {
		t.Error("expected SerialDebugger to observe at least one shifted byte")
	}
}

func TestWithPrinterAttaches(t *testing.T) {
	p := accessories.NewPrinter()
	gb := New(romOnlyCart(t), NoAudio(), WithPrinter(p))
	if p.HasPrintJob() {
		t.Fatal("fresh printer should have no pending job")
	}
	_ = gb
}

func TestWithLoggerOverridesDefault(t *testing.T) {
	l := log.NewNull()
	gb := New(romOnlyCart(t), NoAudio(), WithLogger(l))
	if gb.Logger != l {
		t.Error("WithLogger did not install the supplied Logger on GameBoy")
	}
	if gb.MMU.Log != l {
		t.Error("WithLogger did not install the supplied Logger on MMU")
	}
}
