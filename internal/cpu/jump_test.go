package cpu

import "testing"

func TestCall(t *testing.T) {
	c, bus := newTestCPU()
	c.PC = 0x1234
	c.SP = 0xFFFE
	bus.mem[0x1234] = 0x42
	bus.mem[0x1235] = 0x42

	c.call(true)

	if c.PC != 0x4242 {
		t.Errorf("expected PC to be 0x4242, got 0x%04X", c.PC)
	}
	if c.SP != 0xFFFC {
		t.Errorf("expected SP to be 0xFFFC, got 0x%04X", c.SP)
	}
	// the return address (0x1236, the instruction after the 2-byte operand)
	// should have been pushed high-byte-first
	if bus.mem[0xFFFD] != 0x12 || bus.mem[0xFFFC] != 0x36 {
		t.Errorf("expected return address 0x1236 on the stack, got %02X%02X", bus.mem[0xFFFD], bus.mem[0xFFFC])
	}
}

func TestCallNotTaken(t *testing.T) {
	c, _ := newTestCPU()
	c.PC = 0x1000
	c.SP = 0xFFFE

	c.call(false)

	if c.PC != 0x1002 {
		t.Errorf("expected PC to skip the 2-byte operand, got 0x%04X", c.PC)
	}
	if c.SP != 0xFFFE {
		t.Errorf("expected SP to be unchanged, got 0x%04X", c.SP)
	}
}

func TestJumpAbsolute(t *testing.T) {
	c, bus := newTestCPU()
	c.PC = 0x0000
	bus.mem[0] = 0x34
	bus.mem[1] = 0x12

	c.jumpAbsolute(true)

	if c.PC != 0x1234 {
		t.Errorf("expected PC to be 0x1234, got 0x%04X", c.PC)
	}
}

func TestJumpAbsoluteNotTaken(t *testing.T) {
	c, _ := newTestCPU()
	c.PC = 0x0000

	c.jumpAbsolute(false)

	if c.PC != 0x0002 {
		t.Errorf("expected PC to skip the 2-byte operand, got 0x%04X", c.PC)
	}
}

func TestRet(t *testing.T) {
	c, bus := newTestCPU()
	c.SP = 0xFFFC
	bus.mem[0xFFFC] = 0x36
	bus.mem[0xFFFD] = 0x12

	c.ret(true)

	if c.PC != 0x1236 {
		t.Errorf("expected PC to be 0x1236, got 0x%04X", c.PC)
	}
	if c.SP != 0xFFFE {
		t.Errorf("expected SP to be 0xFFFE, got 0x%04X", c.SP)
	}
}

func TestRetNotTaken(t *testing.T) {
	c, _ := newTestCPU()
	c.SP = 0xFFFC
	c.PC = 0xABCD

	c.ret(false)

	if c.PC != 0xABCD {
		t.Errorf("expected PC to be unchanged, got 0x%04X", c.PC)
	}
	if c.SP != 0xFFFC {
		t.Errorf("expected SP to be unchanged, got 0x%04X", c.SP)
	}
}

func TestPush(t *testing.T) {
	c, bus := newTestCPU()
	c.SP = 0xFFFE

	c.push(0x12, 0x34)

	if c.SP != 0xFFFC {
		t.Errorf("expected SP to be 0xFFFC, got 0x%04X", c.SP)
	}
	if bus.mem[0xFFFD] != 0x12 || bus.mem[0xFFFC] != 0x34 {
		t.Errorf("expected 0x12 then 0x34 on the stack, got %02X %02X", bus.mem[0xFFFD], bus.mem[0xFFFC])
	}
}
