package cartridge

import "github.com/retrocore/pocketcore/internal/types"

// mbc2 supports up to 256KiB ROM and has a built-in 512x4-bit RAM array.
// Address bit 8 selects whether a low-range write latches the ROM bank
// or the RAM-enable gate.
type mbc2 struct {
	rom []byte
	ram [512]byte // low nibble only

	ramEnabled bool
	romBank    uint8 // 4 bits, never 0

	onDisable func()
}

func newMBC2(rom []byte) *mbc2 {
	return &mbc2{rom: rom, romBank: 1}
}

func (m *mbc2) Read(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		return m.rom[addr]
	case addr < 0x8000:
		banks := len(m.rom) / 0x4000
		bank := int(m.romBank) % max(banks, 1)
		i := bank*0x4000 + int(addr-0x4000)
		if i < len(m.rom) {
			return m.rom[i]
		}
		return 0xFF
	default: // 0xA000-0xBFFF, mirrored every 0x200
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[addr&0x1FF] | 0xF0
	}
}

func (m *mbc2) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x4000:
		if addr&0x100 != 0 {
			v := value & 0x0F
			if v == 0 {
				v = 1
			}
			m.romBank = v
			return
		}
		wasEnabled := m.ramEnabled
		m.ramEnabled = value&0x0F == 0x0A
		if wasEnabled && !m.ramEnabled && m.onDisable != nil {
			m.onDisable()
		}
	case addr >= 0xA000 && addr < 0xC000:
		if m.ramEnabled {
			m.ram[addr&0x1FF] = value & 0x0F
		}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (m *mbc2) RAM() []byte { return m.ram[:] }

var _ types.Stater = (*mbc2)(nil)

func (m *mbc2) Save(s *types.State) {
	s.WriteData(m.ram[:])
	s.WriteBool(m.ramEnabled)
	s.Write8(m.romBank)
}

func (m *mbc2) Load(s *types.State) {
	s.ReadData(m.ram[:])
	m.ramEnabled = s.ReadBool()
	m.romBank = s.Read8()
}
