// Package accessories models link-cable peripherals that attach to the
// serial port as a serial.Device: the port's default peer is a terminal
// stub, but nothing stops a host attaching a real protocol device to the
// same Exchange hook.
package accessories

import (
	"fmt"
	"image"
	"image/color"

	"github.com/retrocore/pocketcore/internal/types"
	"github.com/retrocore/pocketcore/pkg/log"
)

// commandPosition tracks where in the Game Boy Printer's command framing
// the next received byte falls.
type commandPosition uint8

const (
	posMagic1 commandPosition = iota
	posMagic2
	posID
	posCompression
	posLengthLow
	posLengthHigh
	posData
	posChecksumLow
	posChecksumHigh
	posKeepAlive
	posStatus
)

// command identifies a Game Boy Printer command packet.
type command = uint8

const (
	cmdInit   command = 0x01
	cmdStart  command = 0x02
	cmdData   command = 0x04
	cmdStatus command = 0x0F
)

// printerShades is a 4-level greyscale ramp for decoding the printer's
// 2-bit packed image data, independent of the PPU's own palette so this
// package carries no dependency on ppu internals.
var printerShades = [4]color.RGBA{
	{0xFF, 0xFF, 0xFF, 0xFF},
	{0xAA, 0xAA, 0xAA, 0xFF},
	{0x55, 0x55, 0x55, 0xFF},
	{0x00, 0x00, 0x00, 0xFF},
}

// Printer emulates the Game Boy Printer: a serial.Device that decodes the
// link-cable protocol used by Pokémon/Game & Watch Gallery-era software to
// send an image to be rasterized.
type Printer struct {
	log log.Logger

	byteToSend uint8

	byteBeingReceived uint8
	bitCount          uint8
	commandLength     uint16
	lengthLeft        uint16
	position          commandPosition
	id                command
	compression       bool
	data              [0x280]byte
	checksum          uint16
	status            uint8
	packetSize        uint8

	imageData   [160 * 200]byte
	imageOffset int

	hasJob   bool
	printJob image.Image
}

// NewPrinter returns a Printer ready to be attached via a GameBoy's
// WithPrinter option.
func NewPrinter() *Printer {
	return &Printer{log: log.New()}
}

// Exchange implements serial.Device: each call shifts one bit in both
// directions, matching the full-duplex nature of the link cable.
func (p *Printer) Exchange(out bool) bool {
	bit := p.byteToSend&types.Bit7 != 0
	p.byteToSend <<= 1

	p.byteBeingReceived <<= 1
	if out {
		p.byteBeingReceived |= types.Bit0
	}
	if p.bitCount++; p.bitCount == 8 {
		p.onReceive(p.byteBeingReceived)
		p.byteBeingReceived = 0
		p.bitCount = 0
	}
	return bit
}

// onReceive decodes one byte of the printer protocol's command framing.
func (p *Printer) onReceive(b byte) {
	switch p.position {
	case posMagic1:
		if b != 0x88 {
			return
		}
		p.status, p.commandLength, p.checksum = 0, 0, 0
	case posMagic2:
		if b != 0x33 {
			if b != 0x88 {
				p.position = posMagic1
			}
			return
		}
		p.byteToSend = 0
	case posID:
		p.id = b
		p.packetSize++
	case posCompression:
		p.compression = b&types.Bit0 != 0
	case posLengthLow:
		p.lengthLeft = uint16(b)
	case posLengthHigh:
		p.lengthLeft |= uint16(b&3) << 8
		if p.lengthLeft == 0 {
			p.position++
		}
	case posData:
		p.data[p.commandLength] = b
		p.commandLength++
		if p.lengthLeft > 0 {
			p.lengthLeft--
		}
	case posChecksumLow:
		p.checksum ^= uint16(b)
	case posChecksumHigh:
		p.checksum ^= uint16(b) << 8
		if p.checksum != 0 {
			p.log.Warnf("accessories: printer checksum mismatch, dropping packet")
			p.status |= 1
			p.position = posMagic1
			return
		}
		p.byteToSend = 0x81
	case posKeepAlive:
		if p.id == cmdInit {
			p.byteToSend = 0
		} else {
			if p.status == 6 {
				p.status = 4 // ready
			}
			p.byteToSend = p.status
		}
	case posStatus:
		if b == 0 {
			p.packetSize++
			if p.packetSize == 1 {
				p.byteToSend = 0x81
			} else if p.packetSize == 2 {
				p.runCommand(p.id)
				p.byteToSend = p.status
				p.packetSize = 0
				p.position = posMagic1
			}
		}
		return
	default:
		p.log.Warnf("accessories: printer in unknown frame position %d", p.position)
		p.position = posMagic1
		return
	}

	if p.position >= posID && p.position < posChecksumLow {
		p.checksum += uint16(b)
	}
	if p.position != posData {
		p.position++
	}
	if p.position == posData && p.lengthLeft == 0 {
		p.position++
	}
}

// runCommand executes a fully-received command packet.
func (p *Printer) runCommand(cmd command) {
	switch cmd {
	case cmdInit:
		p.status = 0
		p.imageOffset = 0
	case cmdStart:
		if p.commandLength == 4 {
			p.status = 0x04
			p.rasterize()
		}
	case cmdData:
		if p.commandLength == 0x280 {
			p.status = 0x08
			p.unpackTile()
		}
	case cmdStatus:
		p.status |= 0
	default:
		p.log.Warnf("accessories: printer received unknown command 0x%02X", cmd)
	}
}

// unpackTile decodes one 2bpp strip (two rows of 20 tiles, 160x16 pixels) from
// p.data into the accumulated image buffer, per the Game Boy Printer's
// packed tile-row wire format.
func (p *Printer) unpackTile() {
	for row := 0; row < 2; row++ {
		for col := 0; col < 20; col++ {
			for y := 0; y < 8; y++ {
				lo := &p.data[row*0x140+(col*8+y)*2]
				hi := &p.data[row*0x140+(col*8+y)*2+1]
				for x := 0; x < 8; x++ {
					bit1 := (*lo >> 7) & 0x01
					bit2 := (*hi >> 6) & 0x02
					p.imageData[p.imageOffset+col*8+y*160+x] = bit1 | bit2
					*lo <<= 1
					*hi <<= 1
				}
			}
		}
		p.imageOffset += 160 * 8
	}
}

// rasterize converts the accumulated 2-bit image buffer into a viewable
// image.Image and marks a print job ready.
func (p *Printer) rasterize() {
	img := image.NewRGBA(image.Rect(0, 0, 160, p.imageOffset/160))
	for i := 0; i < p.imageOffset; i++ {
		c := printerShades[p.imageData[i]&0b11]
		img.Set(i%160, i/160, c)
	}
	p.hasJob = true
	p.printJob = img
}

// HasPrintJob reports whether a completed print job is waiting to be
// collected.
func (p *Printer) HasPrintJob() bool { return p.hasJob }

// GetPrintJob returns and clears the pending print job.
func (p *Printer) GetPrintJob() image.Image {
	p.hasJob = false
	return p.printJob
}

func (p *Printer) String() string {
	return fmt.Sprintf("accessories.Printer{status=0x%02X, hasJob=%t}", p.status, p.hasJob)
}
