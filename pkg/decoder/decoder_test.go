package decoder

import "testing"

func TestDecodeSet(t *testing.T) {
	got, err := Decode([]byte{0x01, 0x00, 0xAB})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if want := "SET R0, 0xAB"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeHalt(t *testing.T) {
	got, err := Decode([]byte{0xFF})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if want := "HALT"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeAdd(t *testing.T) {
	got, err := Decode([]byte{0x10, 0x00, 0x01})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if want := "ADD R0, R1"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeUnknownOpcode(t *testing.T) {
	_, err := Decode([]byte{0x99})
	if err == nil {
		t.Fatal("Decode: want error for unknown opcode, got nil")
	}
	var uoe *UnknownOpcodeError
	if !asUnknownOpcode(err, &uoe) {
		t.Fatalf("Decode: got %v, want *UnknownOpcodeError", err)
	}
	if uoe.Opcode != 0x99 || uoe.Offset != 0 {
		t.Errorf("got opcode 0x%02X offset %d, want 0x99 offset 0", uoe.Opcode, uoe.Offset)
	}
}

func TestDecodeLegacyI0Register(t *testing.T) {
	got, err := Decode([]byte{0x00, 0x10, 0x00})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if want := "MOV I0, R0"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeMultipleInstructions(t *testing.T) {
	prog := []byte{
		0x01, 0x00, 0x05, // SET R0, 0x05
		0x30, 0x00, // PUSH R0
		0xFF, // HALT
	}
	got, err := Decode(prog)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := "SET R0, 0x05\nPUSH R0\nHALT"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeTruncatedInstruction(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x00})
	if err == nil {
		t.Fatal("Decode: want error for truncated SET, got nil")
	}
}

func asUnknownOpcode(err error, target **UnknownOpcodeError) bool {
	if uoe, ok := err.(*UnknownOpcodeError); ok {
		*target = uoe
		return true
	}
	return false
}
