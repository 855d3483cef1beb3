package cartridge

import (
	"fmt"
	"strings"
)

// Type identifies the MBC family a cartridge header declares.
type Type uint8

const (
	ROMOnly           Type = 0x00
	MBC1              Type = 0x01
	MBC1RAM           Type = 0x02
	MBC1RAMBattery    Type = 0x03
	MBC2              Type = 0x05
	MBC2Battery       Type = 0x06
	MBC3TimerBattery  Type = 0x0F
	MBC3TimerRAMBatt  Type = 0x10
	MBC3              Type = 0x11
	MBC3RAM           Type = 0x12
	MBC3RAMBattery    Type = 0x13
	MBC5              Type = 0x19
	MBC5RAM           Type = 0x1A
	MBC5RAMBattery    Type = 0x1B
	MBC5Rumble        Type = 0x1C
	MBC5RumbleRAM     Type = 0x1D
	MBC5RumbleRAMBatt Type = 0x1E
)

// hasBattery reports whether a cartridge type's RAM is battery-backed,
// used to decide whether to wire up save-RAM snapshots.
func (t Type) hasBattery() bool {
	switch t {
	case MBC1RAMBattery, MBC2Battery, MBC3TimerBattery, MBC3TimerRAMBatt,
		MBC3RAMBattery, MBC5RAMBattery, MBC5RumbleRAMBatt:
		return true
	}
	return false
}

// romSizeBytes decodes header byte 0x0148: 32768 << code.
func romSizeBytes(code uint8) (int, error) {
	if code > 8 {
		return 0, fmt.Errorf("cartridge: invalid ROM size code 0x%02X", code)
	}
	return 32768 << code, nil
}

// ramSizeBytes decodes header byte 0x0149 per the documented table; code 1
// has no defined encoding.
func ramSizeBytes(code uint8) (int, error) {
	switch code {
	case 0:
		return 0, nil
	case 2:
		return 8 * 1024, nil
	case 3:
		return 32 * 1024, nil
	case 4:
		return 128 * 1024, nil
	case 5:
		return 64 * 1024, nil
	}
	return 0, fmt.Errorf("cartridge: invalid RAM size code 0x%02X", code)
}

// Header is the parsed cartridge header fields, read from their fixed
// documented ROM offsets.
type Header struct {
	Title   string
	Type    Type
	ROMSize int
	RAMSize int
	CGBFlag byte
}

func parseHeader(rom []byte) (Header, error) {
	if len(rom) < 0x150 {
		return Header{}, fmt.Errorf("cartridge: ROM too short to contain a header (%d bytes)", len(rom))
	}

	title := strings.TrimRight(string(rom[0x134:0x143]), "\x00")
	for i, r := range title {
		if r == 0 {
			title = title[:i]
			break
		}
	}

	romSize, err := romSizeBytes(rom[0x0148])
	if err != nil {
		return Header{}, err
	}
	ramSize, err := ramSizeBytes(rom[0x0149])
	if err != nil {
		return Header{}, err
	}
	if len(rom) != romSize {
		return Header{}, fmt.Errorf("cartridge: ROM length %d does not match header-declared size %d", len(rom), romSize)
	}

	return Header{
		Title:   title,
		Type:    Type(rom[0x0147]),
		ROMSize: romSize,
		RAMSize: ramSize,
		CGBFlag: rom[0x0143],
	}, nil
}
