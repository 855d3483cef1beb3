package ppu

// spriteAttr decodes an OAM entry's fourth byte.
type spriteAttr struct {
	priority   bool // true = behind background colors 1-3
	flipY      bool
	flipX      bool
	paletteNum uint8 // DMG: OBP0/OBP1. CGB: 0-7 into sprite cgbPalette
	vramBank   uint8 // CGB only
}

func decodeSpriteAttr(v uint8) spriteAttr {
	return spriteAttr{
		paletteNum: func() uint8 {
			if v&0x08 != 0 {
				return 1
			}
			return 0
		}(),
		vramBank: (v >> 3) & 0x01,
		flipX:    v&0x20 != 0,
		flipY:    v&0x40 != 0,
		priority: v&0x80 != 0,
	}
}

func decodeSpriteAttrCGB(v uint8) spriteAttr {
	return spriteAttr{
		paletteNum: v & 0x07,
		vramBank:   (v >> 3) & 0x01,
		flipX:      v&0x20 != 0,
		flipY:      v&0x40 != 0,
		priority:   v&0x80 != 0,
	}
}

type sprite struct {
	y, x   uint8
	tileID uint8
	attr   spriteAttr
}

// OAM is the 160-byte sprite attribute table: 40 entries of 4 bytes.
type OAM struct {
	data [160]byte
}

func NewOAM() *OAM { return &OAM{} }

func (o *OAM) Read(addr uint16) uint8     { return o.data[addr] }
func (o *OAM) Write(addr uint16, v uint8) { o.data[addr] = v }

// Sprites decodes all 40 OAM entries.
func (o *OAM) Sprites(cgb bool) [40]sprite {
	var s [40]sprite
	for i := 0; i < 40; i++ {
		base := i * 4
		s[i] = sprite{
			y:      o.data[base],
			x:      o.data[base+1],
			tileID: o.data[base+2],
		}
		if cgb {
			s[i].attr = decodeSpriteAttrCGB(o.data[base+3])
		} else {
			s[i].attr = decodeSpriteAttr(o.data[base+3])
		}
	}
	return s
}

// searchLine returns up to 10 sprites that intersect scanline ly, in
// OAM order (hardware priority: lower OAM index drawn on top for equal X,
// lower X drawn on top otherwise).
func searchLine(all [40]sprite, ly uint8, tall bool) []sprite {
	height := uint8(8)
	if tall {
		height = 16
	}
	var found []sprite
	for _, s := range all {
		spriteY := int(s.y) - 16
		if int(ly) < spriteY || int(ly) >= spriteY+int(height) {
			continue
		}
		found = append(found, s)
		if len(found) == 10 {
			break
		}
	}
	return found
}
