package ppu

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// DumpTileData renders all 384 decoded tiles (768 in CGB mode, one full
// bank each) into a debug grid image, useful for asset/inspector tooling.
func (p *PPU) DumpTileData() image.Image {
	banks := 1
	if p.cgb {
		banks = 2
	}
	img := image.NewRGBA(image.Rect(0, 0, 16*8, banks*24*8))

	for bank := 0; bank < banks; bank++ {
		for tile := 0; tile < 384; tile++ {
			x := (tile % 16) * 8
			y := (tile/16)*8 + bank*24*8
			for row := 0; row < 8; row++ {
				addr := uint16(tile)*16 + uint16(row)*2
				lo := p.vram[bank][addr]
				hi := p.vram[bank][addr+1]
				pixels := tileRow(lo, hi)
				for col := 0; col < 8; col++ {
					c := monoShades[pixels[col]]
					img.Set(x+col, y+row, color.RGBA{c.r, c.g, c.b, 0xFF})
				}
			}
		}
	}
	return img
}

// DumpTileMap renders the two 32x32-tile background maps (0x9800 and
// 0x9C00) resolved through the currently selected tile-data addressing
// mode, scaled 2x for legibility via golang.org/x/image/draw.
func (p *PPU) DumpTileMap() image.Image {
	raw := image.NewRGBA(image.Rect(0, 0, 256, 512))

	for mapIdx, base := range []uint16{0x1800, 0x1C00} {
		for ty := 0; ty < 32; ty++ {
			for tx := 0; tx < 32; tx++ {
				addr := base + uint16(ty)*32 + uint16(tx)
				tileID := p.vram[0][addr]
				for row := 0; row < 8; row++ {
					tileAddr := tileDataAddr(tileID, p.lcdc.TileDataLo) + uint16(row)*2
					lo := p.vram[0][tileAddr]
					hi := p.vram[0][tileAddr+1]
					pixels := tileRow(lo, hi)
					for col := 0; col < 8; col++ {
						c := monoShades[pixels[col]]
						raw.Set(tx*8+col, mapIdx*256+ty*8+row, color.RGBA{c.r, c.g, c.b, 0xFF})
					}
				}
			}
		}
	}

	scaled := image.NewRGBA(image.Rect(0, 0, 512, 1024))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), raw, raw.Bounds(), draw.Over, nil)
	return scaled
}
