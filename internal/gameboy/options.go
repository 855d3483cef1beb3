package gameboy

import (
	"strings"

	"github.com/retrocore/pocketcore/internal/serial/accessories"
	"github.com/retrocore/pocketcore/internal/types"
	"github.com/retrocore/pocketcore/pkg/log"
)

// Debug enables the CPU's LD B,B debug-breakpoint convention, used by
// test-ROM harnesses to signal completion without a real debugger
// attached.
func Debug() Opt {
	return func(gb *GameBoy) {
		gb.CPU.Debug = true
	}
}

// NoAudio detaches any sample callback, discarding APU output. Useful
// for headless/test runs where nothing drains the audio ring.
func NoAudio() Opt {
	return func(gb *GameBoy) {
		gb.APU.OnSample = nil
	}
}

// SerialDebugger intercepts every byte the serial port shifts out under
// its own internal clock and appends it to output, the mechanism Blargg's
// test ROMs use to report PASS/FAIL over the link cable. Once the
// accumulated text contains "Passed" or "Failed" the CPU's debug
// breakpoint flag is set so a harness can stop stepping.
func SerialDebugger(output *string) Opt {
	return func(gb *GameBoy) {
		gb.Serial.OnByte(func(v byte) {
			*output += string(v)
			if strings.Contains(*output, "Passed") || strings.Contains(*output, "Failed") {
				gb.CPU.DebugBreakpoint = true
			}
		})
	}
}

// WithLogger swaps the default logrus-backed Logger for a host-supplied
// one (or the no-op Logger for tests that want quiet output).
func WithLogger(logger log.Logger) Opt {
	return func(gb *GameBoy) {
		gb.Logger = logger
		gb.MMU.Log = logger
	}
}

// WithBootROM attaches a boot ROM image and starts the core at its entry
// point instead of seeding the documented post-boot register state.
// See MMU.SetBootROM for the supported image sizes.
func WithBootROM(rom []byte) Opt {
	return func(gb *GameBoy) {
		gb.MMU.SetBootROM(rom)
		gb.bootROMAttached = true
	}
}

// WithPrinter attaches a Game Boy Printer accessory to the serial port.
func WithPrinter(p *accessories.Printer) Opt {
	return func(gb *GameBoy) {
		gb.Serial.Attach(p)
	}
}

// WithModel overrides the hardware model the reset sequence seeds CPU
// registers for, e.g. forcing DMG boot state on a CGB-flagged cartridge.
// The PPU's color feature gating still follows the cartridge header.
func WithModel(m types.Model) Opt {
	return func(gb *GameBoy) {
		gb.model = m
	}
}

// WithSampleRate sets the APU mixer's output rate in Hz (default
// apu.SampleRate).
func WithSampleRate(hz int) Opt {
	return func(gb *GameBoy) {
		gb.APU.SetSampleRate(hz)
	}
}
