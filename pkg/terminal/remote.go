package terminal

import "net"

// RemoteTerminal serves the same three ports over an already-accepted
// TCP connection instead of the process's own stdio, adapted from the
// teacher's SerialTTY/TTYAcceptConn (pkg/vm/tty.go): a control
// connection the CPU's IN/OUT instructions read and write one byte at
// a time, letting vm8run be driven from across the network without
// the CPU package knowing the difference.
type RemoteTerminal struct {
	conn net.Conn
}

// AcceptRemote listens on addr, blocks until one client connects, and
// returns a RemoteTerminal bound to that connection. The caller must
// Close the returned terminal when done.
func AcceptRemote(addr string) (*RemoteTerminal, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	defer ln.Close()
	conn, err := ln.Accept()
	if err != nil {
		return nil, err
	}
	return &RemoteTerminal{conn: conn}, nil
}

// Close closes the underlying connection.
func (t *RemoteTerminal) Close() error {
	return t.conn.Close()
}

// LocalAddr returns the address of the underlying connection, mostly
// useful for logging which port AcceptRemote chose when given ":0".
func (t *RemoteTerminal) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}

func (t *RemoteTerminal) ControlPort() Port {
	return NewPort(
		func() (byte, error) { return 0, nil },
		func(byte) error { return nil },
	)
}

func (t *RemoteTerminal) DataInPort() Port {
	return NewPort(t.readByte, nil)
}

func (t *RemoteTerminal) DataOutPort() Port {
	return NewPort(nil, t.writeByte)
}

func (t *RemoteTerminal) readByte() (byte, error) {
	var buf [1]byte
	if _, err := t.conn.Read(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (t *RemoteTerminal) writeByte(b byte) error {
	_, err := t.conn.Write([]byte{b})
	return err
}

var _ Terminal = (*RemoteTerminal)(nil)
