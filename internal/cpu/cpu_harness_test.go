package cpu

import (
	"github.com/retrocore/pocketcore/internal/apu"
	"github.com/retrocore/pocketcore/internal/interrupts"
	"github.com/retrocore/pocketcore/internal/ppu"
	"github.com/retrocore/pocketcore/internal/serial"
	"github.com/retrocore/pocketcore/internal/timer"
)

// flatBus is a 64KB flat-memory Bus used to exercise the CPU in
// isolation from cartridge/MMIO concerns.
type flatBus struct {
	mem [65536]uint8
}

func (b *flatBus) Read(addr uint16) uint8     { return b.mem[addr] }
func (b *flatBus) Write(addr uint16, v uint8) { b.mem[addr] = v }

// newTestCPU wires a CPU to a flat memory bus and real, freshly
// constructed peripherals, mirroring how the bus assembles them in
// production but without any cartridge/MMIO dispatch.
func newTestCPU() (*CPU, *flatBus) {
	bus := &flatBus{}
	irq := interrupts.NewController()
	t := timer.NewController(irq)
	p := ppu.New(irq, false)
	p.AttachBusRead(bus.Read)
	snd := apu.New()
	ser := serial.NewController(irq)

	return NewCPU(bus, irq, t, p, snd, ser), bus
}
