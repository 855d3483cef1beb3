package cartridge

import "testing"

func buildHeader(romSize, ramSizeCode uint8, mbcType Type, romLen int) []byte {
	rom := make([]byte, romLen)
	rom[0x0147] = byte(mbcType)
	rom[0x0148] = romSize
	rom[0x0149] = ramSizeCode
	copy(rom[0x134:], []byte("TESTROM"))
	return rom
}

func TestNewROMOnly(t *testing.T) {
	rom := buildHeader(0, 0, ROMOnly, 32768)
	c, err := New(rom)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := c.mbc.(*noMBC); !ok {
		t.Fatalf("expected noMBC, got %T", c.mbc)
	}
}

func TestNewRejectsBadROMLength(t *testing.T) {
	rom := buildHeader(0, 0, ROMOnly, 16384) // header says 32768
	if _, err := New(rom); err == nil {
		t.Fatal("expected error for mismatched ROM length")
	}
}

func TestNewRejectsUnknownMBCType(t *testing.T) {
	rom := buildHeader(0, 0, Type(0xFE), 32768)
	if _, err := New(rom); err == nil {
		t.Fatal("expected error for unknown MBC type")
	}
}

func TestMBC1BankSwitch(t *testing.T) {
	romLen := 0x4000 * 4
	rom := buildHeader(1, 0, MBC1, romLen) // code 1 -> 65536 bytes... use 4 banks directly
	rom = make([]byte, romLen)
	rom[0x0147] = byte(MBC1)
	rom[0x0148] = 0 // romSizeBytes(0)=32768 but we want 4 banks; override by constructing mbc1 directly
	m := newMBC1(rom, 0)
	rom[3*0x4000] = 0xAB // bank 3 byte 0

	m.Write(0x2000, 0x03) // select bank 3
	if got := m.Read(0x4000); got != 0xAB {
		t.Fatalf("bank 3 byte 0 = %#x, want 0xAB", got)
	}
}

func TestMBC1RAMEnableDisableFiresCallback(t *testing.T) {
	m := newMBC1(make([]byte, 0x8000), 0x2000)
	fired := false
	m.onDisable = func() { fired = true }

	m.Write(0x0000, 0x0A) // enable
	m.Write(0xA000, 0x42)
	m.Write(0x0000, 0x00) // disable
	if !fired {
		t.Fatal("expected onDisable callback on RAM enable->disable transition")
	}
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("RAM read while disabled = %#x, want 0xFF", got)
	}
}

func TestMBC2RAMMaskedToNibble(t *testing.T) {
	m := newMBC2(make([]byte, 0x4000))
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0xFF)
	if got := m.Read(0xA000); got != 0xFF { // 0x0F nibble | 0xF0 on read = 0xFF
		t.Fatalf("got %#x, want 0xFF", got)
	}
	if m.ram[0] != 0x0F {
		t.Fatalf("stored nibble = %#x, want 0x0F", m.ram[0])
	}
}

func TestMBC3RTCLatch(t *testing.T) {
	m := newMBC3(make([]byte, 0x8000), 0)
	m.rtc[0] = 42
	m.Write(0x0000, 0x0A) // enable RAM/RTC access
	m.Write(0x6000, 0x00)
	m.Write(0x6000, 0x01)
	m.Write(0x4000, 0x08) // select RTC seconds register
	if got := m.Read(0xA000); got != 42 {
		t.Fatalf("latched RTC seconds = %d, want 42", got)
	}
}

func TestMBC5NineBitBankSelect(t *testing.T) {
	romLen := 0x4000 * 256
	rom := make([]byte, romLen)
	rom[255*0x4000] = 0x77
	m := newMBC5(rom, 0, false)
	m.Write(0x2000, 0xFF) // low 8 bits
	m.Write(0x3000, 0x00)
	if got := m.Read(0x4000); got != 0x77 {
		t.Fatalf("bank 255 byte 0 = %#x, want 0x77", got)
	}
}

func TestLoadRAMSizeMismatch(t *testing.T) {
	rom := buildHeader(0, 2, MBC1RAMBattery, 32768) // 8K of cartridge RAM
	c, err := New(rom)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.LoadRAM(make([]byte, 123)); err == nil {
		t.Fatal("expected an error for a mismatched save-RAM image")
	}
	for _, b := range c.RAM() {
		if b != 0 {
			t.Fatal("RAM should stay zeroed after a rejected load")
		}
	}
	img := make([]byte, 8*1024)
	img[0] = 0x42
	if err := c.LoadRAM(img); err != nil {
		t.Fatalf("LoadRAM: %v", err)
	}
	if c.RAM()[0] != 0x42 {
		t.Fatal("LoadRAM did not restore the image")
	}
}

func TestCartridgeID(t *testing.T) {
	rom := buildHeader(0, 0, ROMOnly, 32768)
	c, _ := New(rom)
	if c.ID() == 0 {
		t.Fatal("expected non-zero ID")
	}
}
