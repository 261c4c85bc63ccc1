// Package encodetest assembles instructions back into the byte stream
// pkg/decoder consumes. It exists only to drive round-trip tests
// (decode(encode(x)) == x) and is not part of the public API: the spec
// this module implements names a decoder, not an assembler.
package encodetest

import (
	"fmt"

	"github.com/bytevm/vm8/pkg/isa"
)

// Instruction is one line of assembly: an opcode plus its resolved
// operand bytes, in encoding order.
type Instruction struct {
	Opcode   isa.Opcode
	Operands []byte
}

// Encode concatenates a sequence of instructions into the raw byte
// stream the CPU executes and the decoder reads back, validating each
// instruction's operand count against pkg/isa's shared table so an
// encodetest caller cannot build a stream pkg/decoder would reject for
// reasons unrelated to the property under test.
func Encode(program []Instruction) ([]byte, error) {
	var out []byte
	for _, instr := range program {
		spec, ok := isa.Table[instr.Opcode]
		if !ok {
			return nil, fmt.Errorf("encodetest: opcode 0x%02X is not in isa.Table", byte(instr.Opcode))
		}
		if len(instr.Operands) != len(spec.Operands) {
			return nil, fmt.Errorf("encodetest: %s wants %d operands, got %d", spec.Mnemonic, len(spec.Operands), len(instr.Operands))
		}
		out = append(out, byte(instr.Opcode))
		out = append(out, instr.Operands...)
	}
	return out, nil
}

// Reg resolves a register name to the byte id the instruction stream
// encodes, the inverse of isa.RegisterName.
func Reg(name string) byte {
	for id := byte(0); ; id++ {
		if got, ok := isa.RegisterName(id); ok && got == name {
			return id
		}
		if id == 0xFF {
			break
		}
	}
	panic("encodetest: unknown register name " + name)
}
