package cartridge

import "github.com/retrocore/pocketcore/internal/types"

// mbc1 supports up to 2MiB ROM and 32KiB RAM. The mode bit selects
// whether bank2's two bits apply to the ROM bank (mode 0) or the RAM
// bank / upper ROM address lines for large multicarts (mode 1).
type mbc1 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	bank1      uint8 // 5 bits, never 0 (0 requests bank 1)
	bank2      uint8 // 2 bits
	mode       bool

	onDisable func()
}

func newMBC1(rom []byte, ramSize int) *mbc1 {
	return &mbc1{rom: rom, ram: make([]byte, ramSize), bank1: 1}
}

func (m *mbc1) romBank() int {
	bank := int(m.bank1) | int(m.bank2)<<5
	banks := len(m.rom) / 0x4000
	if banks == 0 {
		return 0
	}
	return bank % banks
}

func (m *mbc1) zeroBank() int {
	if !m.mode {
		return 0
	}
	bank := int(m.bank2) << 5
	banks := len(m.rom) / 0x4000
	if banks == 0 {
		return 0
	}
	return bank % banks
}

func (m *mbc1) ramOffset() int {
	if !m.mode || len(m.ram) <= 0x2000 {
		return 0
	}
	return int(m.bank2&0x03) * 0x2000
}

func (m *mbc1) Read(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		i := m.zeroBank()*0x4000 + int(addr)
		if i < len(m.rom) {
			return m.rom[i]
		}
		return 0xFF
	case addr < 0x8000:
		i := m.romBank()*0x4000 + int(addr-0x4000)
		if i < len(m.rom) {
			return m.rom[i]
		}
		return 0xFF
	default: // 0xA000-0xBFFF
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		i := m.ramOffset() + int(addr-0xA000)
		if i < len(m.ram) {
			return m.ram[i]
		}
		return 0xFF
	}
}

func (m *mbc1) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		wasEnabled := m.ramEnabled
		m.ramEnabled = value&0x0F == 0x0A
		if wasEnabled && !m.ramEnabled && m.onDisable != nil {
			m.onDisable()
		}
	case addr < 0x4000:
		v := value & 0x1F
		if v == 0 {
			v = 1
		}
		m.bank1 = v
	case addr < 0x6000:
		m.bank2 = value & 0x03
	case addr < 0x8000:
		m.mode = value&0x01 != 0
	default: // 0xA000-0xBFFF
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		i := m.ramOffset() + int(addr-0xA000)
		if i < len(m.ram) {
			m.ram[i] = value
		}
	}
}

func (m *mbc1) RAM() []byte { return m.ram }

var _ types.Stater = (*mbc1)(nil)

func (m *mbc1) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnabled)
	s.Write8(m.bank1)
	s.Write8(m.bank2)
	s.WriteBool(m.mode)
}

func (m *mbc1) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramEnabled = s.ReadBool()
	m.bank1 = s.Read8()
	m.bank2 = s.Read8()
	m.mode = s.ReadBool()
}
