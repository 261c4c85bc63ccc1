package terminal

import (
	"errors"
	"testing"
)

func TestPortReadMissingSideFails(t *testing.T) {
	p := NewPort(nil, func(byte) error { return nil })
	if _, err := p.Read(); !errors.Is(err, ErrUnsupportedDirection) {
		t.Fatalf("Read() on a write-only port: got %v, want ErrUnsupportedDirection", err)
	}
}

func TestPortWriteMissingSideFails(t *testing.T) {
	p := NewPort(func() (byte, error) { return 0, nil }, nil)
	if err := p.Write(0xAB); !errors.Is(err, ErrUnsupportedDirection) {
		t.Fatalf("Write() on a read-only port: got %v, want ErrUnsupportedDirection", err)
	}
}

func TestPortRoundTrip(t *testing.T) {
	var stored byte
	p := NewPort(
		func() (byte, error) { return stored, nil },
		func(b byte) error { stored = b; return nil },
	)
	if err := p.Write(0x42); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := p.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != 0x42 {
		t.Errorf("got 0x%02X, want 0x42", got)
	}
}

func TestControlPortIsANoOpStub(t *testing.T) {
	st := NewStdio()
	ctrl := st.ControlPort()
	if err := ctrl.Write(0xFF); err != nil {
		t.Fatalf("control port write: %v", err)
	}
	got, err := ctrl.Read()
	if err != nil {
		t.Fatalf("control port read: %v", err)
	}
	if got != 0 {
		t.Errorf("control port read = 0x%02X, want 0x00", got)
	}
}

func TestStdioDataInPortIsNotWritable(t *testing.T) {
	st := NewStdio()
	if err := st.DataInPort().Write(1); !errors.Is(err, ErrUnsupportedDirection) {
		t.Fatalf("data-in write: got %v, want ErrUnsupportedDirection", err)
	}
}

func TestStdioDataOutPortIsNotReadable(t *testing.T) {
	st := NewStdio()
	if _, err := st.DataOutPort().Read(); !errors.Is(err, ErrUnsupportedDirection) {
		t.Fatalf("data-out read: got %v, want ErrUnsupportedDirection", err)
	}
}
