// Package gameboy wires the whole core together: cartridge, CPU, PPU,
// APU, timer, serial port, joypad, and interrupt controller behind the
// bus facade in internal/mmu. It is the single entry point a host
// constructs and steps; everything below it is headless.
package gameboy

import (
	"github.com/retrocore/pocketcore/internal/apu"
	"github.com/retrocore/pocketcore/internal/cartridge"
	"github.com/retrocore/pocketcore/internal/cpu"
	"github.com/retrocore/pocketcore/internal/interrupts"
	"github.com/retrocore/pocketcore/internal/joypad"
	"github.com/retrocore/pocketcore/internal/mmu"
	"github.com/retrocore/pocketcore/internal/ppu"
	"github.com/retrocore/pocketcore/internal/serial"
	"github.com/retrocore/pocketcore/internal/timer"
	"github.com/retrocore/pocketcore/internal/types"
	"github.com/retrocore/pocketcore/pkg/log"
)

// ClockSpeed is the master clock speed in Hz, see cpu.ClockSpeed.
const ClockSpeed = cpu.ClockSpeed

// FrameRate is the nominal refresh rate. A full frame is 70224 master
// clocks (about 59.7 Hz), so ClockSpeed/FrameRate master clocks only
// approximate the spacing of frame-ready events.
const FrameRate = 60

// CyclesPerFrame is the number of machine cycles (not master clocks) in
// one video frame: 70224 master clocks / 4 clocks-per-cycle.
const CyclesPerFrame = 70224 / 4

// GameBoy is a fully wired core: one cartridge, one CPU, and the
// peripherals it steps in lockstep every machine cycle.
type GameBoy struct {
	CPU *cpu.CPU
	MMU *mmu.MMU
	PPU *ppu.PPU
	APU *apu.APU

	Joypad     *joypad.State
	Interrupts *interrupts.Controller
	Timer      *timer.Controller
	Serial     *serial.Controller

	Logger log.Logger

	model           types.Model
	paused          bool
	bootROMAttached bool
}

// Opt configures a GameBoy at construction time.
type Opt func(gb *GameBoy)

// New constructs a GameBoy from a parsed cartridge and wires every
// peripheral, configured through functional options.
func New(cart *cartridge.Cartridge, opts ...Opt) *GameBoy {
	irq := interrupts.NewController()
	pad := joypad.New(irq)
	ser := serial.NewController(irq)
	t := timer.NewController(irq)
	sound := apu.New()
	cgb := cart.Header.CGBFlag&0x80 != 0
	video := ppu.New(irq, cgb)
	bus := mmu.New(cart, irq, video, sound, t, ser, pad)

	model := types.ModelDMG
	if cgb {
		model = types.ModelCGB
	}

	gb := &GameBoy{
		CPU:        cpu.NewCPU(bus, irq, t, video, sound, ser),
		MMU:        bus,
		PPU:        video,
		APU:        sound,
		Joypad:     pad,
		Interrupts: irq,
		Timer:      t,
		Serial:     ser,
		Logger:     log.New(),
		model:      model,
	}

	for _, opt := range opts {
		opt(gb)
	}

	gb.reset()

	return gb
}

// reset seeds the documented post-boot-ROM register values for the
// hardware model this core runs as (see Model) (the core has no boot ROM of its own; a host wanting
// boot-ROM fidelity supplies one via WithBootROM and starts from PC=0). If
// a boot ROM was attached, the real boot sequence is left to set up CPU
// and register state itself, so reset only seeds PC/SP to the boot ROM's
// entry point.
func (gb *GameBoy) reset() {
	if gb.bootROMAttached {
		gb.CPU.PC = 0x0000
		gb.CPU.SP = 0x0000
		return
	}

	gb.CPU.PC = 0x0100
	gb.CPU.SP = 0xFFFE
	r := gb.model.BootRegisters()
	gb.CPU.A, gb.CPU.F = r[0], r[1]
	gb.CPU.B, gb.CPU.C = r[2], r[3]
	gb.CPU.D, gb.CPU.E = r[4], r[5]
	gb.CPU.H, gb.CPU.L = r[6], r[7]

	// NR52 first: the APU ignores writes to its other registers while off.
	gb.MMU.Write(types.NR52, 0xF1)
	gb.MMU.Write(types.NR10, 0x80)
	gb.MMU.Write(types.NR11, 0xBF)
	gb.MMU.Write(types.NR12, 0xF3)
	gb.MMU.Write(types.NR14, 0xBF)
	gb.MMU.Write(types.NR21, 0x3F)
	gb.MMU.Write(types.NR24, 0xBF)
	gb.MMU.Write(types.NR30, 0x7F)
	gb.MMU.Write(types.NR32, 0x9F)
	gb.MMU.Write(types.NR50, 0x77)
	gb.MMU.Write(types.NR51, 0xF3)
	gb.MMU.Write(types.LCDC, 0x91)
	gb.MMU.Write(types.BGP, 0xFC)
}

// Model reports which hardware revision's boot state this core seeds.
func (gb *GameBoy) Model() types.Model { return gb.model }

// Pause stops Frame from advancing the CPU; a paused core still answers
// reads/writes (save-state, inspection).
func (gb *GameBoy) Pause() { gb.paused = true }

func (gb *GameBoy) Unpause() { gb.paused = false }

func (gb *GameBoy) Paused() bool { return gb.paused }

// Step advances the core by exactly one CPU instruction (or one stalled
// machine cycle while halted/stopped) and returns the number of machine
// cycles it consumed.
func (gb *GameBoy) Step() uint8 {
	return gb.CPU.Step()
}

// Frame runs the core until the PPU has completed a frame (or the paused
// flag is set, in which case it returns the last buffer unchanged) and
// returns the 15-bit-RGB frame buffer a host's frame callback consumes.
func (gb *GameBoy) Frame() [ppu.ScreenHeight][ppu.ScreenWidth]uint16 {
	if gb.paused {
		return gb.PPU.FrameBuffer()
	}

	cycles := 0
	for !gb.PPU.FrameReady && cycles < CyclesPerFrame*2 {
		cycles += int(gb.Step())
	}
	gb.PPU.FrameReady = false
	gb.MMU.ApplyCheats()

	return gb.PPU.FrameBuffer()
}

var _ types.Stater = (*GameBoy)(nil)

// Save appends every component's state, in a fixed order mirrored by
// Load.
func (gb *GameBoy) Save(s *types.State) {
	gb.CPU.Save(s)
	gb.Interrupts.Save(s)
	gb.Timer.Save(s)
	gb.Serial.Save(s)
	gb.PPU.Save(s)
	gb.APU.Save(s)
	gb.Joypad.Save(s)
	gb.MMU.Save(s)
}

func (gb *GameBoy) Load(s *types.State) {
	gb.CPU.Load(s)
	gb.Interrupts.Load(s)
	gb.Timer.Load(s)
	gb.Serial.Load(s)
	gb.PPU.Load(s)
	gb.APU.Load(s)
	gb.Joypad.Load(s)
	gb.MMU.Load(s)
}
