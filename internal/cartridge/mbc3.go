package cartridge

import "github.com/retrocore/pocketcore/internal/types"

// mbc3 supports up to 2MiB ROM, 32KiB RAM, and an optional real-time-clock
// register set selected behind RAM-bank values 0x08-0x0C. The RTC does not
// tick against wall-clock time; its registers are plain read/write storage
// snapshotted by the documented 0x00->0x01 write sequence to 0x6000-0x7FFF.
type mbc3 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	romBank    uint8 // 7 bits, never 0
	ramBank    uint8 // 0-3 selects RAM, 0x08-0x0C selects an RTC register

	rtc       [5]uint8 // seconds, minutes, hours, day-low, day-high/halt/carry
	rtcLatch  [5]uint8
	latchPrep bool

	onDisable func()
}

func newMBC3(rom []byte, ramSize int) *mbc3 {
	return &mbc3{rom: rom, ram: make([]byte, ramSize), romBank: 1}
}

func (m *mbc3) bank() int {
	banks := len(m.rom) / 0x4000
	if banks == 0 {
		return 0
	}
	return int(m.romBank) % banks
}

func (m *mbc3) Read(addr uint16) uint8 {
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
		if !m.ramEnabled {
			return 0xFF
		}
		if m.ramBank <= 0x03 {
			i := int(m.ramBank)*0x2000 + int(addr-0xA000)
			if i < len(m.ram) {
				return m.ram[i]
			}
			return 0xFF
		}
		if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			return m.rtcLatch[m.ramBank-0x08]
		}
		return 0xFF
	}
}

func (m *mbc3) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		wasEnabled := m.ramEnabled
		m.ramEnabled = value&0x0F == 0x0A
		if wasEnabled && !m.ramEnabled && m.onDisable != nil {
			m.onDisable()
		}
	case addr < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		m.ramBank = value
	case addr < 0x8000:
		if value == 0x00 {
			m.latchPrep = true
			return
		}
		if value == 0x01 && m.latchPrep {
			m.rtcLatch = m.rtc
		}
		m.latchPrep = false
	default: // 0xA000-0xBFFF
		if !m.ramEnabled {
			return
		}
		if m.ramBank <= 0x03 {
			i := int(m.ramBank)*0x2000 + int(addr-0xA000)
			if i < len(m.ram) {
				m.ram[i] = value
			}
			return
		}
		if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			m.rtc[m.ramBank-0x08] = value
		}
	}
}

func (m *mbc3) RAM() []byte { return m.ram }

var _ types.Stater = (*mbc3)(nil)

func (m *mbc3) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnabled)
	s.Write8(m.romBank)
	s.Write8(m.ramBank)
	for _, v := range m.rtc {
		s.Write8(v)
	}
	for _, v := range m.rtcLatch {
		s.Write8(v)
	}
}

func (m *mbc3) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramEnabled = s.ReadBool()
	m.romBank = s.Read8()
	m.ramBank = s.Read8()
	for i := range m.rtc {
		m.rtc[i] = s.Read8()
	}
	for i := range m.rtcLatch {
		m.rtcLatch[i] = s.Read8()
	}
}
