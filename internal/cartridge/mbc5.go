package cartridge

import "github.com/retrocore/pocketcore/internal/types"

// mbc5 supports up to 8MiB ROM (9-bit bank select) and 128KiB RAM, and is
// the only family the boot hardware guarantees runs at full CPU speed in
// CGB double-speed mode. Rumble variants wire bit 3 of the RAM-bank
// register to a motor instead of a RAM bank; the core has no motor, so
// that bit is simply masked off.
type mbc5 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	romBankLo  uint8 // bits 0-7
	romBankHi  uint8 // bit 8
	ramBank    uint8 // 4 bits

	rumble    bool
	onDisable func()
}

func newMBC5(rom []byte, ramSize int, rumble bool) *mbc5 {
	return &mbc5{rom: rom, ram: make([]byte, ramSize), romBankLo: 1, rumble: rumble}
}

func (m *mbc5) bank() int {
	bank := int(m.romBankLo) | int(m.romBankHi)<<8
	banks := len(m.rom) / 0x4000
	if banks == 0 {
		return 0
	}
	return bank % banks
}

func (m *mbc5) ramSelect() uint8 {
	if m.rumble {
		return m.ramBank & 0x07
	}
	return m.ramBank & 0x0F
}

func (m *mbc5) Read(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		i := m.bank()*0x4000 + int(addr-0x4000)
		if i < len(m.rom) {
			return m.rom[i]
		}
		return 0xFF
	default: // 0xA000-0xBFFF
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		i := int(m.ramSelect())*0x2000 + int(addr-0xA000)
		if i < len(m.ram) {
			return m.ram[i]
		}
		return 0xFF
	}
}

func (m *mbc5) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		wasEnabled := m.ramEnabled
		m.ramEnabled = value&0x0F == 0x0A
		if wasEnabled && !m.ramEnabled && m.onDisable != nil {
			m.onDisable()
		}
	case addr < 0x3000:
		m.romBankLo = value
	case addr < 0x4000:
		m.romBankHi = value & 0x01
	case addr < 0x6000:
		m.ramBank = value & 0x0F
	case addr < 0x8000:
		// unused
	default: // 0xA000-0xBFFF
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		i := int(m.ramSelect())*0x2000 + int(addr-0xA000)
		if i < len(m.ram) {
			m.ram[i] = value
		}
	}
}

func (m *mbc5) RAM() []byte { return m.ram }

var _ types.Stater = (*mbc5)(nil)

func (m *mbc5) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnabled)
	s.Write8(m.romBankLo)
	s.Write8(m.romBankHi)
	s.Write8(m.ramBank)
}

func (m *mbc5) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramEnabled = s.ReadBool()
	m.romBankLo = s.Read8()
	m.romBankHi = s.Read8()
	m.ramBank = s.Read8()
}
