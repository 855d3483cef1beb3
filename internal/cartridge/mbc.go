package cartridge

import "github.com/retrocore/pocketcore/internal/types"

// MBC is the contract every bank controller implements: a Read and a
// Write over the cartridge's slice of the address space, with writes in
// the 0x0000-0x7FFF range latching bank registers instead of storing.
// One concrete type exists per MBC family, selected once at construction;
// callers only ever hold a *Cartridge.
type MBC interface {
	types.Stater
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
	// RAM returns the live external RAM backing slice (nil if the
	// cartridge has none), for save-RAM snapshotting.
	RAM() []byte
}

// noMBC is the fixed-32KiB, no-banking, no-RAM cartridge.
type noMBC struct {
	rom [32768]byte
}

func newNoMBC(rom []byte) *noMBC {
	m := &noMBC{}
	copy(m.rom[:], rom)
	return m
}

func (m *noMBC) Read(addr uint16) uint8 {
	if int(addr) < len(m.rom) {
		return m.rom[addr]
	}
	return 0xFF
}

func (m *noMBC) Write(uint16, uint8) {}
func (m *noMBC) RAM() []byte         { return nil }

func (m *noMBC) Save(s *types.State) {}
func (m *noMBC) Load(s *types.State) {}
