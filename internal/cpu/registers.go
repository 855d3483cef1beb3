package cpu

// Register holds an 8-bit value. The CPU exposes 8 of them: A, B, C, D,
// E, H, L and F, where F is special in that only its top nibble (the
// flags) is ever meaningful.
type Register = uint8

// RegisterPair views two Registers as a single 16-bit value, used for the
// BC/DE/HL/AF register pairs and the instructions that address memory or
// do arithmetic through them.
type RegisterPair struct {
	High *Register
	Low  *Register
}

// Uint16 returns the pair's combined value, High in the upper byte.
func (r *RegisterPair) Uint16() uint16 {
	return uint16(*r.High)<<8 | uint16(*r.Low)
}

// SetUint16 splits value across the pair's two Registers.
func (r *RegisterPair) SetUint16(value uint16) {
	*r.High = uint8(value >> 8)
	*r.Low = uint8(value)
}

// Registers holds the 8 Registers and the 4 RegisterPair views over them.
type Registers struct {
	A Register
	B Register
	C Register
	D Register
	E Register
	F Register
	H Register
	L Register

	BC *RegisterPair
	DE *RegisterPair
	HL *RegisterPair
	AF *RegisterPair
}
