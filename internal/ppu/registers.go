package ppu

import "github.com/retrocore/pocketcore/internal/types"

// Mode is the current scanline phase, mirrored in STAT bits 0-1.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OAMSearch
	PixelTransfer
)

// lcdc is the LCDC register (FF40), decoded into its named fields.
type lcdc struct {
	Enabled             bool
	WindowTileMapHi     bool // 0=9800, 1=9C00
	WindowEnabled       bool
	TileDataLo          bool // 0=8800 signed, 1=8000 unsigned
	BackgroundTileMapHi bool
	SpriteSize16        bool
	SpriteEnabled       bool
	BackgroundEnabled   bool
}

func (l *lcdc) write(v uint8) {
	l.BackgroundEnabled = v&types.Bit0 != 0
	l.SpriteEnabled = v&types.Bit1 != 0
	l.SpriteSize16 = v&types.Bit2 != 0
	l.BackgroundTileMapHi = v&types.Bit3 != 0
	l.TileDataLo = v&types.Bit4 != 0
	l.WindowEnabled = v&types.Bit5 != 0
	l.WindowTileMapHi = v&types.Bit6 != 0
	l.Enabled = v&types.Bit7 != 0
}

func (l *lcdc) read() uint8 {
	var v uint8
	if l.BackgroundEnabled {
		v |= types.Bit0
	}
	if l.SpriteEnabled {
		v |= types.Bit1
	}
	if l.SpriteSize16 {
		v |= types.Bit2
	}
	if l.BackgroundTileMapHi {
		v |= types.Bit3
	}
	if l.TileDataLo {
		v |= types.Bit4
	}
	if l.WindowEnabled {
		v |= types.Bit5
	}
	if l.WindowTileMapHi {
		v |= types.Bit6
	}
	if l.Enabled {
		v |= types.Bit7
	}
	return v
}

// stat is the STAT register (FF41): mode bits are derived from Mode, the
// rest are interrupt-source enable latches.
type stat struct {
	CoincidenceInterrupt bool
	OAMInterrupt         bool
	VBlankInterrupt      bool
	HBlankInterrupt      bool
}

func (s *stat) write(v uint8) {
	s.HBlankInterrupt = v&types.Bit3 != 0
	s.VBlankInterrupt = v&types.Bit4 != 0
	s.OAMInterrupt = v&types.Bit5 != 0
	s.CoincidenceInterrupt = v&types.Bit6 != 0
}

// rawBits packs just the interrupt-enable latches (mode/coincidence are
// reconstructed separately on load from ly/lyc/mode).
func (s *stat) rawBits() uint8 {
	var v uint8
	if s.HBlankInterrupt {
		v |= types.Bit3
	}
	if s.VBlankInterrupt {
		v |= types.Bit4
	}
	if s.OAMInterrupt {
		v |= types.Bit5
	}
	if s.CoincidenceInterrupt {
		v |= types.Bit6
	}
	return v
}

func (s *stat) read(mode Mode, coincidence bool) uint8 {
	v := uint8(mode) | types.Bit7
	if coincidence {
		v |= types.Bit2
	}
	if s.HBlankInterrupt {
		v |= types.Bit3
	}
	if s.VBlankInterrupt {
		v |= types.Bit4
	}
	if s.OAMInterrupt {
		v |= types.Bit5
	}
	if s.CoincidenceInterrupt {
		v |= types.Bit6
	}
	return v
}
