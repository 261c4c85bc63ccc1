package cpu

import "github.com/bytevm/vm8/pkg/isa"

// buildDispatchTable wires every opcode in isa.Table to its handler.
// It is built once per CPU, at construction, into a fixed 256-entry
// array indexed by opcode byte (spec.md Design Notes: "a fixed-size
// jump table indexed by opcode"); any opcode absent from isa.Table has
// no handler and is rejected by Run as an UnknownOpcodeError.
func (c *CPU) buildDispatchTable() {
	set := func(op isa.Opcode, fn handlerFunc) {
		c.handlers[byte(op)] = fn
	}
	set(isa.MOV, (*CPU).opMOV)
	set(isa.SET, (*CPU).opSET)
	set(isa.LOAD, (*CPU).opLOAD)
	set(isa.STOR, (*CPU).opSTOR)

	set(isa.ADD, (*CPU).opADD)
	set(isa.SUB, (*CPU).opSUB)
	set(isa.MUL, (*CPU).opMUL)
	set(isa.DIV, (*CPU).opDIV)
	set(isa.MOD, (*CPU).opMOD)
	set(isa.OR, (*CPU).opOR)
	set(isa.AND, (*CPU).opAND)
	set(isa.XOR, (*CPU).opXOR)
	set(isa.NOT, (*CPU).opNOT)
	set(isa.SHL, (*CPU).opSHL)
	set(isa.SHR, (*CPU).opSHR)

	set(isa.CMP, (*CPU).opCMP)
	set(isa.JZ, (*CPU).opJZ)
	set(isa.JNZ, (*CPU).opJNZ)
	set(isa.JC, (*CPU).opJC)
	set(isa.JNC, (*CPU).opJNC)
	set(isa.JBE, (*CPU).opJBE)
	set(isa.JA, (*CPU).opJA)

	set(isa.PUSH, (*CPU).opPUSH)
	set(isa.POP, (*CPU).opPOP)

	set(isa.JMP, (*CPU).opJMP)
	set(isa.JMPR, (*CPU).opJMPR)
	set(isa.CALL, (*CPU).opCALL)
	set(isa.CALR, (*CPU).opCALR)
	set(isa.RET, (*CPU).opRET)

	set(isa.IN, (*CPU).opIN)
	set(isa.OUT, (*CPU).opOUT)

	set(isa.HALT, (*CPU).opHALT)
}

func (c *CPU) opMOV() error {
	dst, err := c.fetchRegister()
	if err != nil {
		return err
	}
	src, err := c.fetchRegister()
	if err != nil {
		return err
	}
	c.registers[dst] = c.registers[src]
	return nil
}

func (c *CPU) opSET() error {
	dst, err := c.fetchRegister()
	if err != nil {
		return err
	}
	imm, err := c.fetch()
	if err != nil {
		return err
	}
	c.registers[dst] = imm
	return nil
}

func (c *CPU) opLOAD() error {
	dst, err := c.fetchRegister()
	if err != nil {
		return err
	}
	src, err := c.fetchRegister()
	if err != nil {
		return err
	}
	value, err := c.ramRead(c.registers[src])
	if err != nil {
		return err
	}
	c.registers[dst] = value
	return nil
}

func (c *CPU) opSTOR() error {
	dstAddrReg, err := c.fetchRegister()
	if err != nil {
		return err
	}
	srcValReg, err := c.fetchRegister()
	if err != nil {
		return err
	}
	return c.ramWrite(c.registers[dstAddrReg], c.registers[srcValReg])
}

func (c *CPU) opADD() error {
	c.clearCarry()
	dst, err := c.fetchRegister()
	if err != nil {
		return err
	}
	src, err := c.fetchRegister()
	if err != nil {
		return err
	}
	a, b := int(c.registers[src]), int(c.registers[dst])
	if a+b >= wordSize {
		c.setCarry()
	}
	c.registers[dst] = byte((a + b) % wordSize)
	return nil
}

// opSUB preserves the reference implementation's literal carry path:
// on underflow, the destination becomes wordSize - old_dst rather than
// the conventional two's-complement wraparound (spec.md §9 Open
// Questions; pinned by R0=0x01, R1=0x02 -> R0=0xFF).
func (c *CPU) opSUB() error {
	c.clearCarry()
	dst, err := c.fetchRegister()
	if err != nil {
		return err
	}
	src, err := c.fetchRegister()
	if err != nil {
		return err
	}
	a, b := int(c.registers[src]), int(c.registers[dst])
	result := b - a
	if result < 0 {
		c.setCarry()
		result = wordSize - b
	}
	c.registers[dst] = byte(result)
	return nil
}

func (c *CPU) opMUL() error {
	c.clearCarry()
	dst, err := c.fetchRegister()
	if err != nil {
		return err
	}
	src, err := c.fetchRegister()
	if err != nil {
		return err
	}
	a, b := int(c.registers[src]), int(c.registers[dst])
	if a*b >= wordSize {
		c.setCarry()
	}
	c.registers[dst] = byte((a * b) % wordSize)
	return nil
}

func (c *CPU) opDIV() error {
	c.clearCarry()
	dst, err := c.fetchRegister()
	if err != nil {
		return err
	}
	src, err := c.fetchRegister()
	if err != nil {
		return err
	}
	a, b := c.registers[src], c.registers[dst]
	if a == 0 {
		return &DivideByZeroError{}
	}
	c.registers[dst] = b / a
	return nil
}

// opMOD leaves carry untouched unlike DIV, preserving the reference
// implementation's asymmetry (spec.md §9 Open Questions).
func (c *CPU) opMOD() error {
	dst, err := c.fetchRegister()
	if err != nil {
		return err
	}
	src, err := c.fetchRegister()
	if err != nil {
		return err
	}
	a, b := c.registers[src], c.registers[dst]
	if a == 0 {
		return &DivideByZeroError{}
	}
	c.registers[dst] = b % a
	return nil
}

func (c *CPU) opOR() error {
	dst, err := c.fetchRegister()
	if err != nil {
		return err
	}
	src, err := c.fetchRegister()
	if err != nil {
		return err
	}
	c.registers[dst] = c.registers[dst] | c.registers[src]
	return nil
}

func (c *CPU) opAND() error {
	dst, err := c.fetchRegister()
	if err != nil {
		return err
	}
	src, err := c.fetchRegister()
	if err != nil {
		return err
	}
	c.registers[dst] = c.registers[dst] & c.registers[src]
	return nil
}

func (c *CPU) opXOR() error {
	dst, err := c.fetchRegister()
	if err != nil {
		return err
	}
	src, err := c.fetchRegister()
	if err != nil {
		return err
	}
	c.registers[dst] = c.registers[dst] ^ c.registers[src]
	return nil
}

func (c *CPU) opNOT() error {
	dst, err := c.fetchRegister()
	if err != nil {
		return err
	}
	c.registers[dst] = ^c.registers[dst]
	return nil
}

func (c *CPU) opSHL() error {
	dst, err := c.fetchRegister()
	if err != nil {
		return err
	}
	v := int(c.registers[dst])
	result := v << 1
	if result >= wordSize {
		c.setCarry()
	}
	c.registers[dst] = byte(result % wordSize)
	return nil
}

func (c *CPU) opSHR() error {
	dst, err := c.fetchRegister()
	if err != nil {
		return err
	}
	c.registers[dst] = c.registers[dst] >> 1
	return nil
}

func (c *CPU) opCMP() error {
	c.clearCarry()
	c.clearZero()
	dst, err := c.fetchRegister()
	if err != nil {
		return err
	}
	src, err := c.fetchRegister()
	if err != nil {
		return err
	}
	b, a := int(c.registers[dst]), int(c.registers[src])
	switch {
	case b < a:
		c.setCarry()
	case b == a:
		c.setZero()
	}
	return nil
}

func (c *CPU) opJZ() error {
	off, err := c.fetch()
	if err != nil {
		return err
	}
	if c.zeroSet() {
		c.jumpBy(off)
	}
	return nil
}

func (c *CPU) opJNZ() error {
	off, err := c.fetch()
	if err != nil {
		return err
	}
	if !c.zeroSet() {
		c.jumpBy(off)
	}
	return nil
}

func (c *CPU) opJC() error {
	off, err := c.fetch()
	if err != nil {
		return err
	}
	if c.carrySet() {
		c.jumpBy(off)
	}
	return nil
}

func (c *CPU) opJNC() error {
	off, err := c.fetch()
	if err != nil {
		return err
	}
	if !c.carrySet() {
		c.jumpBy(off)
	}
	return nil
}

func (c *CPU) opJBE() error {
	off, err := c.fetch()
	if err != nil {
		return err
	}
	if c.carrySet() || c.zeroSet() {
		c.jumpBy(off)
	}
	return nil
}

// opJA requires carry set AND zero clear, the reference
// implementation's unusual "jump if above" (spec.md §9 Open
// Questions) rather than the conventional NOT-carry-AND-NOT-zero.
func (c *CPU) opJA() error {
	off, err := c.fetch()
	if err != nil {
		return err
	}
	if c.carrySet() && !c.zeroSet() {
		c.jumpBy(off)
	}
	return nil
}

func (c *CPU) opPUSH() error {
	src, err := c.fetchRegister()
	if err != nil {
		return err
	}
	return c.push(c.registers[src])
}

func (c *CPU) opPOP() error {
	dst, err := c.fetchRegister()
	if err != nil {
		return err
	}
	v, err := c.pop()
	if err != nil {
		return err
	}
	c.registers[dst] = v
	return nil
}

func (c *CPU) opJMP() error {
	off, err := c.fetch()
	if err != nil {
		return err
	}
	c.jumpBy(off)
	return nil
}

func (c *CPU) opJMPR() error {
	src, err := c.fetchRegister()
	if err != nil {
		return err
	}
	c.registers[isa.RegPC] = c.registers[src]
	return nil
}

func (c *CPU) opCALL() error {
	off, err := c.fetch()
	if err != nil {
		return err
	}
	if err := c.push(c.registers[isa.RegPC]); err != nil {
		return err
	}
	c.jumpBy(off)
	return nil
}

func (c *CPU) opCALR() error {
	src, err := c.fetchRegister()
	if err != nil {
		return err
	}
	target := c.registers[src]
	if err := c.push(c.registers[isa.RegPC]); err != nil {
		return err
	}
	c.registers[isa.RegPC] = target
	return nil
}

func (c *CPU) opRET() error {
	v, err := c.pop()
	if err != nil {
		return err
	}
	c.registers[isa.RegPC] = v
	return nil
}

func (c *CPU) opIN() error {
	port, err := c.fetch()
	if err != nil {
		return err
	}
	dst, err := c.fetchRegister()
	if err != nil {
		return err
	}
	v, err := c.readPort(port)
	if err != nil {
		return err
	}
	c.registers[dst] = v
	return nil
}

func (c *CPU) opOUT() error {
	port, err := c.fetch()
	if err != nil {
		return err
	}
	src, err := c.fetchRegister()
	if err != nil {
		return err
	}
	return c.writePort(port, c.registers[src])
}

func (c *CPU) opHALT() error {
	c.running = false
	return nil
}
