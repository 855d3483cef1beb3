// Package cartridge parses a Game Boy ROM header and dispatches to the
// memory-bank-controller family it declares.
package cartridge

import (
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/retrocore/pocketcore/internal/types"
)

// Cartridge owns the parsed header and the selected MBC. Read/Write are
// the only entry points a bus needs; everything else (battery RAM,
// identity) hangs off this struct.
type Cartridge struct {
	Header Header
	mbc    MBC

	onBatteryUpdate func(ram []byte)
}

// New parses rom's header and constructs the MBC family it declares.
// Returns an error for an unrecognised MBC type code, an invalid RAM/ROM
// size code, or a ROM whose length does not match its header; construction
// problems surface to the host rather than being silently tolerated.
func New(rom []byte) (*Cartridge, error) {
	header, err := parseHeader(rom)
	if err != nil {
		return nil, err
	}

	c := &Cartridge{Header: header}

	switch header.Type {
	case ROMOnly:
		c.mbc = newNoMBC(rom)
	case MBC1, MBC1RAM, MBC1RAMBattery:
		c.mbc = newMBC1(rom, header.RAMSize)
	case MBC2, MBC2Battery:
		c.mbc = newMBC2(rom)
	case MBC3TimerBattery, MBC3TimerRAMBatt, MBC3, MBC3RAM, MBC3RAMBattery:
		c.mbc = newMBC3(rom, header.RAMSize)
	case MBC5, MBC5RAM, MBC5RAMBattery:
		c.mbc = newMBC5(rom, header.RAMSize, false)
	case MBC5Rumble, MBC5RumbleRAM, MBC5RumbleRAMBatt:
		c.mbc = newMBC5(rom, header.RAMSize, true)
	default:
		return nil, fmt.Errorf("cartridge: unsupported MBC type code 0x%02X", header.Type)
	}

	if header.Type.hasBattery() {
		c.wireBatteryCallback()
	}

	return c, nil
}

// wireBatteryCallback installs the RAM-enable->disable hook each MBC
// variant exposes so that a host OnBatteryUpdate callback fires exactly
// when real hardware would actually persist save RAM: on cartridge RAM
// being disabled (games disable RAM before the Game Boy powers off).
func (c *Cartridge) wireBatteryCallback() {
	fire := func() {
		if c.onBatteryUpdate != nil {
			c.onBatteryUpdate(c.mbc.RAM())
		}
	}
	switch m := c.mbc.(type) {
	case *mbc1:
		m.onDisable = fire
	case *mbc2:
		m.onDisable = fire
	case *mbc3:
		m.onDisable = fire
	case *mbc5:
		m.onDisable = fire
	}
}

// OnBatteryUpdate installs a host hook invoked with the cartridge's RAM
// contents whenever the game disables cartridge RAM, for battery-backed
// variants. A host uses this to persist save data.
func (c *Cartridge) OnBatteryUpdate(f func(ram []byte)) { c.onBatteryUpdate = f }

func (c *Cartridge) Read(addr uint16) uint8         { return c.mbc.Read(addr) }
func (c *Cartridge) Write(addr uint16, value uint8) { c.mbc.Write(addr, value) }

// RAM returns the live external RAM backing slice, or nil if this
// cartridge has none.
func (c *Cartridge) RAM() []byte { return c.mbc.RAM() }

// LoadRAM restores a previously saved battery-RAM image, e.g. from a host
// .sav file loaded alongside the ROM. A size mismatch leaves the zeroed
// RAM image in place and returns an error for the host to log; emulation
// can proceed either way.
func (c *Cartridge) LoadRAM(data []byte) error {
	ram := c.mbc.RAM()
	if len(data) != len(ram) {
		return fmt.Errorf("cartridge: save RAM is %d bytes, cartridge has %d", len(data), len(ram))
	}
	copy(ram, data)
	return nil
}

// ID returns a stable 64-bit identity digest derived from the ROM title
// and declared size fields, suitable for keying a host's save-RAM/
// save-state files to a specific cartridge without hashing the full ROM.
func (c *Cartridge) ID() uint64 {
	var buf []byte
	buf = append(buf, c.Header.Title...)
	buf = append(buf, byte(c.Header.Type))
	buf = append(buf, byte(c.Header.ROMSize), byte(c.Header.ROMSize>>8), byte(c.Header.ROMSize>>16))
	buf = append(buf, byte(c.Header.RAMSize), byte(c.Header.RAMSize>>8), byte(c.Header.RAMSize>>16))
	return xxhash.Sum64(buf)
}

var _ types.Stater = (*Cartridge)(nil)

func (c *Cartridge) Save(s *types.State) { c.mbc.Save(s) }
func (c *Cartridge) Load(s *types.State) { c.mbc.Load(s) }
