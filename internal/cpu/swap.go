package cpu

// swap implements SWAP n: exchange the upper and lower nibbles of reg.
func (c *CPU) swap(reg *Register) {
	*reg = c.swapByte(*reg)
}

func (c *CPU) swapByte(b uint8) uint8 {
	computed := ((b << 4) & 0xF0) | (b >> 4)
	c.shouldZeroFlag(computed)
	c.clearFlag(FlagSubtract)
	c.clearFlag(FlagHalfCarry)
	c.clearFlag(FlagCarry)
	return computed
}
