package ppu

// renderScanline composites background, window, and sprites for the
// current line (p.ly) into Frame, honoring LCDC enable bits and DMG/CGB
// palette selection. Runs once per line, at HBlank entry.
func (p *PPU) renderScanline() {
	line := p.ly
	if line >= ScreenHeight {
		return
	}

	var bgIndex [ScreenWidth]uint8   // raw 2-bit color index, pre-palette
	var bgPriority [ScreenWidth]bool // CGB BG-to-OBJ priority bit

	if p.lcdc.BackgroundEnabled || p.cgb {
		p.renderBackgroundLine(line, &bgIndex, &bgPriority)
	}
	if p.lcdc.WindowEnabled && p.wy <= line && p.wx < ScreenWidth+7 {
		p.renderWindowLine(line, &bgIndex, &bgPriority)
	}

	for x := 0; x < ScreenWidth; x++ {
		p.Frame[line][x] = p.shadeBackground(bgIndex[x], p.bgAttrLine[x])
	}

	if p.lcdc.SpriteEnabled {
		p.renderSpriteLine(line, bgIndex, bgPriority)
	}
}

func (p *PPU) bgTileMapBase(highMap bool) uint16 {
	if highMap {
		return 0x1C00
	}
	return 0x1800
}

func (p *PPU) renderBackgroundLine(line uint8, bgIndex *[ScreenWidth]uint8, bgPriority *[ScreenWidth]bool) {
	mapBase := p.bgTileMapBase(p.lcdc.BackgroundTileMapHi)
	y := line + p.scy
	tileRow8 := y / 8
	rowInTile := y % 8

	for x := 0; x < ScreenWidth; x++ {
		px := uint8(x) + p.scx
		tileCol := px / 8
		colInTile := px % 8

		mapAddr := mapBase + uint16(tileRow8)*32 + uint16(tileCol)
		tileID := p.vram[0][mapAddr]

		var attr uint8
		vramBank := uint8(0)
		flipY, flipX, priority := false, false, false
		if p.cgb {
			attr = p.vram[1][mapAddr]
			vramBank = (attr >> 3) & 0x01
			flipY = attr&0x40 != 0
			flipX = attr&0x20 != 0
			priority = attr&0x80 != 0
		}

		r := rowInTile
		if flipY {
			r = 7 - r
		}
		addr := tileDataAddr(tileID, p.lcdc.TileDataLo) + uint16(r)*2
		lo := p.vram[vramBank][addr]
		hi := p.vram[vramBank][addr+1]
		row := tileRow(lo, hi)

		c := colInTile
		if flipX {
			c = 7 - c
		}
		bgIndex[x] = row[c]
		bgPriority[x] = priority
		if p.cgb {
			p.bgAttrLine[x] = attr & 0x07
		}
	}
}

func (p *PPU) renderWindowLine(line uint8, bgIndex *[ScreenWidth]uint8, bgPriority *[ScreenWidth]bool) {
	if p.wx > ScreenWidth+6 {
		return
	}
	mapBase := p.bgTileMapBase(p.lcdc.WindowTileMapHi)
	tileRow8 := p.windowLine / 8
	rowInTile := p.windowLine % 8

	startX := int(p.wx) - 7
	for x := 0; x < ScreenWidth; x++ {
		if x < startX {
			continue
		}
		wx := uint8(x - startX)
		tileCol := wx / 8
		colInTile := wx % 8

		mapAddr := mapBase + uint16(tileRow8)*32 + uint16(tileCol)
		tileID := p.vram[0][mapAddr]

		var attr uint8
		vramBank := uint8(0)
		flipY, flipX, priority := false, false, false
		if p.cgb {
			attr = p.vram[1][mapAddr]
			vramBank = (attr >> 3) & 0x01
			flipY = attr&0x40 != 0
			flipX = attr&0x20 != 0
			priority = attr&0x80 != 0
		}

		r := rowInTile
		if flipY {
			r = 7 - r
		}
		addr := tileDataAddr(tileID, p.lcdc.TileDataLo) + uint16(r)*2
		lo := p.vram[vramBank][addr]
		hi := p.vram[vramBank][addr+1]
		row := tileRow(lo, hi)

		c := colInTile
		if flipX {
			c = 7 - c
		}
		bgIndex[x] = row[c]
		bgPriority[x] = priority
		if p.cgb {
			p.bgAttrLine[x] = attr & 0x07
		}
	}
	p.windowLine++
}

func (p *PPU) renderSpriteLine(line uint8, bgIndex [ScreenWidth]uint8, bgPriority [ScreenWidth]bool) {
	all := p.oam.Sprites(p.cgb)
	sprites := searchLine(all, line, p.lcdc.SpriteSize16)

	for x := 0; x < ScreenWidth; x++ {
		var best *sprite
		for i := range sprites {
			s := &sprites[i]
			spriteX := int(s.x) - 8
			if x < spriteX || x >= spriteX+8 {
				continue
			}
			// DMG resolves overlaps by smaller X (OAM order breaks ties,
			// which the scan order gives for free); CGB uses OAM order
			// alone, so the first covering sprite wins outright.
			if best == nil || (!p.cgb && s.x < best.x) {
				best = s
			}
			if p.cgb && best != nil {
				break
			}
		}
		if best == nil {
			continue
		}

		spriteY := int(best.y) - 16
		spriteX := int(best.x) - 8
		row := uint8(int(line) - spriteY)
		if best.attr.flipY {
			height := uint8(8)
			if p.lcdc.SpriteSize16 {
				height = 16
			}
			row = height - 1 - row
		}

		tileID := best.tileID
		if p.lcdc.SpriteSize16 {
			tileID &= 0xFE
			if row >= 8 {
				tileID |= 0x01
				row -= 8
			}
		}

		col := uint8(x - spriteX)
		if best.attr.flipX {
			col = 7 - col
		}

		bank := uint8(0)
		if p.cgb {
			bank = best.attr.vramBank
		}
		addr := uint16(tileID)*16 + uint16(row)*2
		lo := p.vram[bank][addr]
		hi := p.vram[bank][addr+1]
		r := tileRow(lo, hi)
		idx := r[col]
		if idx == 0 {
			continue // transparent
		}

		if best.attr.priority && bgIndex[x] != 0 && !(p.cgb && bgPriority[x]) {
			continue // behind non-zero background color
		}
		if p.cgb && bgPriority[x] && bgIndex[x] != 0 {
			continue // BG-to-OBJ priority bit wins regardless of sprite attr
		}

		p.Frame[line][x] = p.shadeSprite(idx, best.attr)
	}
}

func (p *PPU) shadeBackground(idx, palNum uint8) rgb {
	if p.cgb {
		return p.bgPalette.color(palNum, idx)
	}
	return monoShades[p.bgp[idx]]
}

func (p *PPU) shadeSprite(idx uint8, attr spriteAttr) rgb {
	if p.cgb {
		return p.objPalette.color(attr.paletteNum, idx)
	}
	if attr.paletteNum == 1 {
		return monoShades[p.obp1[idx]]
	}
	return monoShades[p.obp0[idx]]
}
