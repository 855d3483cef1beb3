package cpu

// incrementNN increments the given RegisterPair by 1.
//
//	INC nn
//	nn = 16-bit register
func (c *CPU) incrementNN(register *RegisterPair) {
	register.SetUint16(register.Uint16() + 1)
}

// decrementNN decrements the given RegisterPair by 1.
//
//	DEC nn
//	nn = 16-bit register
//
// Flags affected:
//
//	None.
func (c *CPU) decrementNN(register *RegisterPair) {
	register.SetUint16(register.Uint16() - 1)
}

// addHLRR adds the given RegisterPair to the HL RegisterPair.
//
//	ADD HL, rr
//	rr = 16-bit register
//
// Flags affected:
//
//	Z - Not affected.
//	N - Reset.
//	H - Set if carry from bit 11.
//	C - Set if carry from bit 15.
func (c *CPU) addHLRR(register *RegisterPair) {
	c.HL.SetUint16(c.addUint16(c.HL.Uint16(), register.Uint16()))
}

// add adds value, plus the carry flag if useCarry is set, to A.
//
//	ADD A, n
//	ADC A, n
//	n = 8-bit value
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func (c *CPU) add(value uint8, useCarry bool) {
	carry := uint8(0)
	if useCarry && c.isFlagSet(FlagCarry) {
		carry = 1
	}

	a := c.A
	computed := a + value + carry

	c.setFlags(
		computed == 0x00,
		false,
		(a&0x0F)+(value&0x0F)+carry > 0x0F,
		uint16(a)+uint16(value)+uint16(carry) > 0xFF,
	)
	c.A = computed
}

// sub subtracts value, plus the carry flag if useCarry is set, from A.
//
//	SUB n
//	SBC A, n
//	n = 8-bit value
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if borrow from bit 4.
//	C - Set if borrow.
func (c *CPU) sub(value uint8, useCarry bool) {
	carry := uint8(0)
	if useCarry && c.isFlagSet(FlagCarry) {
		carry = 1
	}

	a := c.A
	computed := a - value - carry

	c.setFlags(
		computed == 0x00,
		true,
		int(a&0x0F)-int(value&0x0F)-int(carry) < 0,
		int(a)-int(value)-int(carry) < 0,
	)
	c.A = computed
}

// increment is a helper function for incrementing a byte and
// setting the flags accordingly.
func (c *CPU) increment(value uint8) uint8 {
	incremented := value + 0x01
	c.clearFlag(FlagSubtract)
	if incremented == 0x00 {
		c.setFlag(FlagZero)
	} else {
		c.clearFlag(FlagZero)
	}
	if (incremented^value)&0x10 == 0x10 {
		c.setFlag(FlagHalfCarry)
	} else {
		c.clearFlag(FlagHalfCarry)
	}
	return incremented
}

// decrement is a helper function for decrementing a byte and
// setting the flags accordingly.
func (c *CPU) decrement(value uint8) uint8 {
	decremented := value - 0x01
	c.setFlag(FlagSubtract)
	if decremented == 0x00 {
		c.setFlag(FlagZero)
	} else {
		c.clearFlag(FlagZero)
	}
	if (decremented^value)&0x10 == 0x10 {
		c.setFlag(FlagHalfCarry)
	} else {
		c.clearFlag(FlagHalfCarry)
	}
	return decremented
}
