package terminal

import (
	"io"
	"os"

	"golang.org/x/term"
)

// StdioTerminal is the default terminal: data-in reads one raw byte
// from the process's stdin, data-out writes one byte to stdout, and
// the control port is the no-op stub spec.md §3 requires.
//
// Each data-in read puts the terminal into raw mode for the duration
// of that single read (disabling the OS's line buffering and local
// echo, per the teacher's TerminalHost) and restores the previous
// mode before returning, so a single IN instruction observes exactly
// one keystroke rather than blocking on a full line.
type StdioTerminal struct {
	in  *os.File
	out io.Writer
	fd  int
}

// NewStdio builds a terminal bound to the process's stdin/stdout.
func NewStdio() *StdioTerminal {
	return &StdioTerminal{in: os.Stdin, out: os.Stdout, fd: int(os.Stdin.Fd())}
}

func (t *StdioTerminal) ControlPort() Port {
	return NewPort(
		func() (byte, error) { return 0, nil },
		func(byte) error { return nil },
	)
}

func (t *StdioTerminal) DataInPort() Port {
	return NewPort(t.readByte, nil)
}

func (t *StdioTerminal) DataOutPort() Port {
	return NewPort(nil, t.writeByte)
}

func (t *StdioTerminal) readByte() (byte, error) {
	var buf [1]byte
	if term.IsTerminal(t.fd) {
		old, err := term.MakeRaw(t.fd)
		if err == nil {
			defer term.Restore(t.fd, old)
		}
	}
	if _, err := io.ReadFull(t.in, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (t *StdioTerminal) writeByte(b byte) error {
	_, err := t.out.Write([]byte{b})
	return err
}

var _ Terminal = (*StdioTerminal)(nil)
