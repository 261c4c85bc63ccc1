// Package isa is the single source of truth for the 8-bit VM's
// instruction encoding: the opcode table, operand shapes, and the
// register id to name mapping. Both pkg/cpu and pkg/decoder import
// this package instead of keeping their own copies.
package isa

import "fmt"

// Opcode identifies one instruction in the table below.
type Opcode byte

// The instruction set. Values are fixed by the wire format; they are
// not reassignable.
const (
	MOV  Opcode = 0x00
	SET  Opcode = 0x01
	LOAD Opcode = 0x02
	STOR Opcode = 0x03

	ADD Opcode = 0x10
	SUB Opcode = 0x11
	MUL Opcode = 0x12
	DIV Opcode = 0x13
	MOD Opcode = 0x14
	OR  Opcode = 0x15
	AND Opcode = 0x16
	XOR Opcode = 0x17
	NOT Opcode = 0x18
	SHL Opcode = 0x19
	SHR Opcode = 0x1A

	CMP Opcode = 0x20
	JZ  Opcode = 0x21
	JNZ Opcode = 0x22
	JC  Opcode = 0x23
	JNC Opcode = 0x24
	JBE Opcode = 0x25
	JA  Opcode = 0x26

	PUSH Opcode = 0x30
	POP  Opcode = 0x31

	JMP  Opcode = 0x40
	JMPR Opcode = 0x41
	CALL Opcode = 0x42
	CALR Opcode = 0x43
	RET  Opcode = 0x44

	IN  Opcode = 0x50
	OUT Opcode = 0x51

	HALT Opcode = 0xFF
)

// Operand names the kind of a single operand byte: either a register
// id (rendered through RegisterName) or an immediate (rendered as a
// two-digit hex literal).
type Operand byte

const (
	OperandReg Operand = iota // register id
	OperandImm                // literal byte
)

// Spec describes one instruction: its mnemonic and the ordered list
// of operand kinds that follow the opcode byte in the instruction
// stream. len(Operands) is the instruction's operand count; the
// decoder derives the instruction's total length from it (1 opcode
// byte + len(Operands) operand bytes), while the CPU's handlers fetch
// the same number of operand bytes themselves.
type Spec struct {
	Mnemonic string
	Operands []Operand
}

// Table maps every defined opcode to its Spec. An opcode byte with no
// entry here is, by definition, unknown to both the CPU and the
// decoder.
var Table = map[Opcode]Spec{
	MOV:  {"MOV", []Operand{OperandReg, OperandReg}},
	SET:  {"SET", []Operand{OperandReg, OperandImm}},
	LOAD: {"LOAD", []Operand{OperandReg, OperandReg}},
	STOR: {"STOR", []Operand{OperandReg, OperandReg}},

	ADD: {"ADD", []Operand{OperandReg, OperandReg}},
	SUB: {"SUB", []Operand{OperandReg, OperandReg}},
	MUL: {"MUL", []Operand{OperandReg, OperandReg}},
	DIV: {"DIV", []Operand{OperandReg, OperandReg}},
	MOD: {"MOD", []Operand{OperandReg, OperandReg}},
	OR:  {"OR", []Operand{OperandReg, OperandReg}},
	AND: {"AND", []Operand{OperandReg, OperandReg}},
	XOR: {"XOR", []Operand{OperandReg, OperandReg}},
	NOT: {"NOT", []Operand{OperandReg}},
	SHL: {"SHL", []Operand{OperandReg}},
	SHR: {"SHR", []Operand{OperandReg}},

	CMP: {"CMP", []Operand{OperandReg, OperandReg}},
	JZ:  {"JZ", []Operand{OperandImm}},
	JNZ: {"JNZ", []Operand{OperandImm}},
	JC:  {"JC", []Operand{OperandImm}},
	JNC: {"JNC", []Operand{OperandImm}},
	JBE: {"JBE", []Operand{OperandImm}},
	JA:  {"JA", []Operand{OperandImm}},

	PUSH: {"PUSH", []Operand{OperandReg}},
	POP:  {"POP", []Operand{OperandReg}},

	JMP:  {"JMP", []Operand{OperandImm}},
	JMPR: {"JMPR", []Operand{OperandReg}},
	CALL: {"CALL", []Operand{OperandImm}},
	CALR: {"CALR", []Operand{OperandReg}},
	RET:  {"RET", nil},

	IN:  {"IN", []Operand{OperandImm, OperandReg}},
	OUT: {"OUT", []Operand{OperandImm, OperandReg}},

	HALT: {"HALT", nil},
}

// Register names a CPU-visible register. RegFR, RegSP and RegPC are
// not general-purpose; they share the byte-wide register file anyway
// because the ISA addresses every register through the same one-byte
// id space.
type Register byte

const (
	R0 Register = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	RegFR
	RegSP
	RegPC

	numRegisters
)

// NumRegisters is the size of the register file.
const NumRegisters = int(numRegisters)

// registerIDToIndex maps the one-byte id encoded in an instruction
// stream to an index into the register file. This is the CPU's view;
// it has no entry for the decoder-only legacy 0x10 (I0) id, matching
// spec.md §3 ("The CPU need not" recognise I0).
var registerIDToIndex = map[byte]Register{
	0x00: R0,
	0x01: R1,
	0x02: R2,
	0x03: R3,
	0x04: R4,
	0x05: R5,
	0x06: R6,
	0x07: R7,
	0xFD: RegFR,
	0xFE: RegSP,
	0xFF: RegPC,
}

// registerNames indexes by Register for Name() and for the decoder's
// rendering of a register operand.
var registerNames = [numRegisters]string{
	R0: "R0", R1: "R1", R2: "R2", R3: "R3",
	R4: "R4", R5: "R5", R6: "R6", R7: "R7",
	RegFR: "FR", RegSP: "SP", RegPC: "PC",
}

// Name returns the register's textual name.
func (r Register) Name() string {
	return registerNames[r]
}

// RegisterIndex resolves an instruction-stream register id to a
// Register, for the CPU. It returns false for any id the CPU does not
// recognise (including the decoder-only 0x10 legacy id).
func RegisterIndex(id byte) (Register, bool) {
	r, ok := registerIDToIndex[id]
	return r, ok
}

// RegisterName resolves an instruction-stream register id to its
// display name, for the decoder. Unlike RegisterIndex, this also
// recognises the legacy interrupt register id 0x10 ("I0"), which
// appears in decoder tables but is consumed by no opcode (spec.md §9
// Open Questions).
func RegisterName(id byte) (string, bool) {
	if id == 0x10 {
		return "I0", true
	}
	r, ok := registerIDToIndex[id]
	if !ok {
		return "", false
	}
	return r.Name(), true
}

// Len returns the instruction's total length in bytes, opcode
// included.
func (s Spec) Len() int {
	return 1 + len(s.Operands)
}

// Lookup returns the Spec for an opcode byte.
func Lookup(opcode byte) (Spec, bool) {
	s, ok := Table[Opcode(opcode)]
	return s, ok
}

// FormatImmediate renders an immediate operand the way the decoder
// does: two uppercase hex digits with a 0x prefix.
func FormatImmediate(b byte) string {
	return fmt.Sprintf("0x%02X", b)
}
