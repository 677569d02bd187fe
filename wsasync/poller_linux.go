//go:build linux
// +build linux

package wsasync

import (
	"bufio"
	"errors"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// linuxPoller backs stream readiness checks with epoll(7), mirroring the
// fd-registration style of a classic epoll reactor: each accepted stream's
// fd is added once, and readiness for an entire loop iteration is resolved
// from a single batched EpollWait rather than one probe per stream.
type linuxPoller struct {
	epfd  int
	ready map[int32]struct{}
}

func newPoller() (poller, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, err
	}
	return &linuxPoller{epfd: epfd, ready: make(map[int32]struct{})}, nil
}

func connFd(conn net.Conn) (uintptr, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return 0, errors.New("wsasync: connection does not expose a raw fd")
	}
	rc, err := sc.SyscallConn()
	if err != nil {
		return 0, err
	}
	var fd uintptr
	if err := rc.Control(func(f uintptr) { fd = f }); err != nil {
		return 0, err
	}
	return fd, nil
}

func (p *linuxPoller) register(conn net.Conn) error {
	fd, err := connFd(conn)
	if err != nil {
		return err
	}
	ev := &unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, int(fd), ev)
}

func (p *linuxPoller) forget(conn net.Conn) {
	if fd, err := connFd(conn); err == nil {
		_ = unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, int(fd), nil)
		delete(p.ready, int32(fd))
	}
}

// pollBatch issues one zero-timeout EpollWait sized to maxEvents (the
// number of currently tracked streams) and records every ready fd it
// returns, so the per-stream ready() calls that follow this iteration all
// see the same batch instead of each racing a fresh 1-slot EpollWait
// against each other.
func (p *linuxPoller) pollBatch(maxEvents int) error {
	for fd := range p.ready {
		delete(p.ready, fd)
	}
	if maxEvents < 1 {
		maxEvents = 1
	}
	events := make([]unix.EpollEvent, maxEvents)
	n, err := unix.EpollWait(p.epfd, events, 0)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return err
	}
	for i := 0; i < n; i++ {
		p.ready[events[i].Fd] = struct{}{}
	}
	return nil
}

func (p *linuxPoller) ready(conn net.Conn, r *bufio.Reader) (bool, error) {
	if r.Buffered() > 0 {
		return true, nil
	}
	fd, err := connFd(conn)
	if err != nil {
		return false, err
	}
	_, ok := p.ready[int32(fd)]
	delete(p.ready, int32(fd))
	return ok, nil
}

func (p *linuxPoller) close() error {
	return unix.Close(p.epfd)
}
