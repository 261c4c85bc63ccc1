// Package cpu implements the fetch/decode/execute engine of the 8-bit
// virtual machine: registers, flags, the ALU, the call/data stack in
// RAM, control flow, and port I/O routed through a terminal.
package cpu

import (
	"github.com/pkg/errors"

	"github.com/bytevm/vm8/pkg/isa"
	"github.com/bytevm/vm8/pkg/terminal"
)

const (
	wordSize  = 1 << 8
	carryFlag = 1 << 1
	zeroFlag  = 1 << 0
	romSize   = 0xFF
)

// handlerFunc executes one instruction. Operands are fetched from the
// ROM by the handler itself via fetch, so an instruction's length is
// implicit in which fetches its handler performs.
type handlerFunc func(*CPU) error

// CPU is one virtual machine instance. It borrows its RAM and its
// terminal from the caller for the lifetime of Run; it is not safe
// for concurrent use (spec.md §5).
type CPU struct {
	registers [isa.NumRegisters]byte
	ram       []byte
	rom       [romSize]byte
	ports     [3]terminal.Port
	handlers  [256]handlerFunc
	running   bool
	debug     bool
	onTrace   func(pc byte, opcode byte)
}

// New binds a CPU to an externally owned RAM buffer and a terminal,
// initialising registers to the values in spec.md §3: every general
// register and FR at 0, SP at 0xFF, PC at 0x00.
func New(ram []byte, term terminal.Terminal, debug bool) *CPU {
	c := &CPU{ram: ram, debug: debug}
	c.registers[isa.RegSP] = 0xFF
	c.ports = [3]terminal.Port{
		0x00: term.ControlPort(),
		0x01: term.DataInPort(),
		0x02: term.DataOutPort(),
	}
	c.buildDispatchTable()
	return c
}

// SetTrace installs a callback invoked just before each instruction is
// executed, with the PC it was fetched from and the opcode byte. Used
// by cmd/vm8run's -v flag; nil disables tracing.
func (c *CPU) SetTrace(fn func(pc byte, opcode byte)) {
	c.onTrace = fn
}

// Reg returns the current value of a register.
func (c *CPU) Reg(r isa.Register) byte {
	return c.registers[r]
}

// SetReg sets a register's value directly, bypassing instruction
// dispatch. Useful for test fixtures that need to preset a register
// before Run.
func (c *CPU) SetReg(r isa.Register, value byte) {
	c.registers[r] = value
}

// Running reports whether the CPU is mid-execution. It is true inside
// Run until HALT executes or an error is raised.
func (c *CPU) Running() bool {
	return c.running
}

// Run copies program into the ROM view, right-padding with HALT
// (0xFF) to romSize bytes, resets PC to 0, and executes until HALT
// runs or a handler raises an error. Programs longer than romSize are
// truncated to the bytes the ROM view can address (spec.md §6).
func (c *CPU) Run(program []byte) error {
	for i := range c.rom {
		if i < len(program) {
			c.rom[i] = program[i]
		} else {
			c.rom[i] = byte(isa.HALT)
		}
	}
	c.registers[isa.RegPC] = 0x00
	c.running = true
	defer func() { c.running = false }()
	for c.running {
		pc := c.registers[isa.RegPC]
		opcode, err := c.fetch()
		if err != nil {
			return errors.Wrap(err, "cpu: fetch failed")
		}
		if c.onTrace != nil {
			c.onTrace(pc, opcode)
		}
		handler := c.handlers[opcode]
		if handler == nil {
			return errors.Wrap(&UnknownOpcodeError{Opcode: opcode, PC: pc}, "cpu: run failed")
		}
		if err := handler(c); err != nil {
			return errors.Wrap(err, "cpu: run failed")
		}
	}
	return nil
}

// fetch reads the byte at PC from the ROM and post-increments PC. A PC
// of 0xFF lies one past the last ROM cell and yields an
// OutOfRangeError, so the increment here never wraps; modulo-256
// wrap-around of PC happens in jumpBy's byte arithmetic.
func (c *CPU) fetch() (byte, error) {
	pc := c.registers[isa.RegPC]
	if int(pc) >= len(c.rom) {
		return 0, &OutOfRangeError{Address: pc, Size: len(c.rom)}
	}
	b := c.rom[pc]
	c.registers[isa.RegPC] = pc + 1
	return b, nil
}

func (c *CPU) registerIndex(id byte, offset byte) (isa.Register, error) {
	r, ok := isa.RegisterIndex(id)
	if !ok {
		return 0, &UnknownRegisterError{ID: id, Offset: offset}
	}
	return r, nil
}

// fetchRegister reads the next ROM byte and resolves it to a
// register.
func (c *CPU) fetchRegister() (isa.Register, error) {
	offset := c.registers[isa.RegPC]
	id, err := c.fetch()
	if err != nil {
		return 0, err
	}
	return c.registerIndex(id, offset)
}

func (c *CPU) validateAddress(address byte) error {
	if int(address) >= len(c.ram) {
		return &OutOfRangeError{Address: address, Size: len(c.ram)}
	}
	return nil
}

func (c *CPU) ramRead(address byte) (byte, error) {
	if err := c.validateAddress(address); err != nil {
		return 0, err
	}
	return c.ram[address], nil
}

func (c *CPU) ramWrite(address byte, value byte) error {
	if err := c.validateAddress(address); err != nil {
		return err
	}
	c.ram[address] = value
	return nil
}

func (c *CPU) setCarry()      { c.registers[isa.RegFR] |= carryFlag }
func (c *CPU) clearCarry()    { c.registers[isa.RegFR] &^= carryFlag }
func (c *CPU) setZero()       { c.registers[isa.RegFR] |= zeroFlag }
func (c *CPU) clearZero()     { c.registers[isa.RegFR] &^= zeroFlag }
func (c *CPU) carrySet() bool { return c.registers[isa.RegFR]&carryFlag != 0 }
func (c *CPU) zeroSet() bool  { return c.registers[isa.RegFR]&zeroFlag != 0 }

func (c *CPU) push(value byte) error {
	if c.registers[isa.RegSP] == 0x00 {
		return &StackOverflowError{}
	}
	c.registers[isa.RegSP]--
	return c.ramWrite(c.registers[isa.RegSP], value)
}

func (c *CPU) pop() (byte, error) {
	if c.registers[isa.RegSP] == 0xFF {
		return 0, &StackUnderflowError{}
	}
	value, err := c.ramRead(c.registers[isa.RegSP])
	if err != nil {
		return 0, err
	}
	c.registers[isa.RegSP]++
	return value, nil
}

func (c *CPU) jumpBy(offset byte) {
	c.registers[isa.RegPC] += offset
}

func (c *CPU) readPort(address byte) (byte, error) {
	if int(address) >= len(c.ports) {
		return 0, &UnknownPortError{Port: address}
	}
	v, err := c.ports[address].Read()
	if errors.Is(err, terminal.ErrUnsupportedDirection) {
		return 0, &PortDirectionError{Port: address, Direction: "read"}
	}
	if err != nil {
		return 0, err
	}
	return v, nil
}

func (c *CPU) writePort(address byte, value byte) error {
	if int(address) >= len(c.ports) {
		return &UnknownPortError{Port: address}
	}
	err := c.ports[address].Write(value)
	if errors.Is(err, terminal.ErrUnsupportedDirection) {
		return &PortDirectionError{Port: address, Direction: "write"}
	}
	return err
}
