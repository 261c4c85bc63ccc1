// Package terminal implements the VM's memory-mapped terminal device:
// three ports (control, data-in, data-out), each a pair of optional
// read/write callables, as specified by the core's port contract.
//
// The CPU depends only on the Terminal interface in this file; the
// concrete stdio and remote backends in stdio.go and remote.go are external collaborators
// in the sense of spec.md §6, kept here because a runnable CLI needs
// one.
package terminal

import "github.com/pkg/errors"

// ErrUnsupportedDirection is returned when a Port's missing side is
// invoked: reading an unwritable port, or writing an unreadable one.
var ErrUnsupportedDirection = errors.New("terminal: port does not support this direction")

// Port is a one-byte-wide device port: a pair of optional read/write
// operations. Either side may be nil, in which case invoking it
// returns ErrUnsupportedDirection.
type Port struct {
	read  func() (byte, error)
	write func(byte) error
}

// NewPort builds a port from its (possibly nil) read and write sides.
func NewPort(read func() (byte, error), write func(byte) error) Port {
	return Port{read: read, write: write}
}

// Read invokes the port's read side.
func (p Port) Read() (byte, error) {
	if p.read == nil {
		return 0, errors.Wrap(ErrUnsupportedDirection, "read")
	}
	return p.read()
}

// Write invokes the port's write side.
func (p Port) Write(b byte) error {
	if p.write == nil {
		return errors.Wrap(ErrUnsupportedDirection, "write")
	}
	return p.write(b)
}

// Terminal exposes the three ports the CPU's port table wires in at
// construction: control (0x00), data-in (0x01), data-out (0x02).
type Terminal interface {
	ControlPort() Port
	DataInPort() Port
	DataOutPort() Port
}
