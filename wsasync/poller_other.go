//go:build !linux
// +build !linux

package wsasync

import (
	"bufio"
	"net"
	"time"
)

// portablePoller implements readiness checks with a zero-length deadline
// peek: it is less efficient than epoll but needs nothing beyond net.Conn,
// so it backs every non-Linux platform.
type portablePoller struct{}

func newPoller() (poller, error) {
	return portablePoller{}, nil
}

func (portablePoller) register(conn net.Conn) error { return nil }

func (portablePoller) forget(conn net.Conn) {}

// pollBatch is a no-op: this poller has no shared multiplexer to pre-poll,
// each ready() call independently probes only the one conn it's given.
func (portablePoller) pollBatch(maxEvents int) error { return nil }

// ready peeks one byte off r with an immediate deadline on conn. A
// successful peek leaves the byte buffered for the next real read; a
// deadline timeout means no data is available yet.
func (portablePoller) ready(conn net.Conn, r *bufio.Reader) (bool, error) {
	if err := conn.SetReadDeadline(time.Now()); err != nil {
		return false, err
	}
	defer conn.SetReadDeadline(time.Time{})

	_, err := r.Peek(1)
	if err == nil {
		return true, nil
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return false, nil
	}
	return false, err
}

func (portablePoller) close() error { return nil }
