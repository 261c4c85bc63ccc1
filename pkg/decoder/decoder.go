// Package decoder renders a raw instruction stream back into assembly
// text. It is the static inverse of pkg/cpu's fetch/decode step: where
// the CPU executes an opcode, Decode prints it. Both share the opcode
// table in pkg/isa, so neither can drift from the other.
package decoder

import (
	"fmt"
	"strings"

	"github.com/bytevm/vm8/pkg/isa"
)

// UnknownOpcodeError is returned when a byte in the stream has no
// entry in isa.Table, or when the stream ends before all of that
// opcode's operand bytes.
type UnknownOpcodeError struct {
	Opcode byte
	Offset int
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("Couldn't decode instruction 0x%02X at byte 0x%02X", e.Opcode, e.Offset)
}

// UnknownRegisterError is returned when a register operand byte has no
// display name, even under the decoder's more permissive mapping
// (which, unlike the CPU's, accepts the legacy I0 id).
type UnknownRegisterError struct {
	ID     byte
	Offset int
}

func (e *UnknownRegisterError) Error() string {
	return fmt.Sprintf("Couldn't decode register 0x%02X at byte 0x%02X", e.ID, e.Offset)
}

// Decode renders every instruction in program as one line of assembly
// per instruction, in order, joined by newlines. It stops and returns
// an error at the first byte it cannot account for, reporting that
// byte's offset the way the reference decompiler does.
func Decode(program []byte) (string, error) {
	var lines []string
	offset := 0
	for offset < len(program) {
		line, length, err := decodeOne(program, offset)
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
		offset += length
	}
	return strings.Join(lines, "\n"), nil
}

func decodeOne(program []byte, offset int) (string, int, error) {
	opcode := program[offset]
	spec, ok := isa.Lookup(opcode)
	if !ok {
		return "", 0, &UnknownOpcodeError{Opcode: opcode, Offset: offset}
	}
	length := spec.Len()
	if offset+length > len(program) {
		return "", 0, &UnknownOpcodeError{Opcode: opcode, Offset: offset}
	}

	if len(spec.Operands) == 0 {
		return spec.Mnemonic, length, nil
	}

	rendered := make([]string, len(spec.Operands))
	for i, kind := range spec.Operands {
		b := program[offset+1+i]
		switch kind {
		case isa.OperandReg:
			name, ok := isa.RegisterName(b)
			if !ok {
				return "", 0, &UnknownRegisterError{ID: b, Offset: offset + 1 + i}
			}
			rendered[i] = name
		case isa.OperandImm:
			rendered[i] = isa.FormatImmediate(b)
		}
	}
	return spec.Mnemonic + " " + strings.Join(rendered, ", "), length, nil
}
