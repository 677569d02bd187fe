package wsasync

import (
	"bufio"
	"errors"
	"net"
	"sync"

	"github.com/fenwick-labs/humphrey/webhttp"
	"github.com/fenwick-labs/humphrey/wsmsg"
)

// ErrStreamClosed is returned by AsyncStream.Send once the stream has been
// marked disconnected.
var ErrStreamClosed = errors.New("wsasync: stream disconnected")

// AcceptedStream is a handshake-completed WebSocket connection handed to
// the engine through its connect hook.
type AcceptedStream struct {
	Conn net.Conn
	Addr webhttp.Address
}

type cmdKind int

const (
	cmdUnicast cmdKind = iota
	cmdBroadcast
	cmdShutdown
)

// outgoingCmd is the single item type carried on the outgoing-messages
// channel: either a unicast to one stream, a broadcast to all tracked
// streams, or the engine shutdown signal.
type outgoingCmd struct {
	kind    cmdKind
	addrKey string
	message wsmsg.Message
}

// AsyncSender is the cloneable handle handlers and external code use to
// push outgoing commands at the engine; it is the producer side of the
// outgoing-messages channel.
type AsyncSender struct {
	out chan<- outgoingCmd
}

// Unicast enqueues a message addressed to one stream; the engine ignores
// it if that stream is no longer tracked.
func (s AsyncSender) Unicast(addrKey string, msg wsmsg.Message) {
	s.out <- outgoingCmd{kind: cmdUnicast, addrKey: addrKey, message: msg}
}

// Broadcast enqueues a message delivered to every currently-tracked
// stream at the moment it is drained by the engine.
func (s AsyncSender) Broadcast(msg wsmsg.Message) {
	s.out <- outgoingCmd{kind: cmdBroadcast, message: msg}
}

func (s AsyncSender) shutdown() {
	s.out <- outgoingCmd{kind: cmdShutdown}
}

// AsyncStream is the handle passed to connect/message/disconnect handlers.
// It does not own the socket: it owns a send endpoint of the
// outgoing-messages channel plus whatever typed state the application
// attaches.
type AsyncStream struct {
	addr webhttp.Address
	out  AsyncSender

	mu         sync.Mutex
	disconnect bool
	state      any
}

func newAsyncStream(addr webhttp.Address, out AsyncSender) *AsyncStream {
	return &AsyncStream{addr: addr, out: out}
}

// RemoteAddr returns the peer address this stream was accepted from.
func (s *AsyncStream) RemoteAddr() webhttp.Address { return s.addr }

// State returns the typed per-stream value previously set with SetState.
func (s *AsyncStream) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState attaches application-defined per-stream state.
func (s *AsyncStream) SetState(v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = v
}

// Send enqueues a unicast to this stream; it fails once the stream has
// been marked disconnected.
func (s *AsyncStream) Send(msg wsmsg.Message) error {
	s.mu.Lock()
	closed := s.disconnect
	s.mu.Unlock()
	if closed {
		return ErrStreamClosed
	}
	s.out.Unicast(s.addr.Key(), msg)
	return nil
}

// Broadcast enqueues a message to every tracked stream; unlike Send it
// remains valid after disconnect since it names no specific recipient.
func (s *AsyncStream) Broadcast(msg wsmsg.Message) {
	s.out.Broadcast(msg)
}

func (s *AsyncStream) markDisconnected() {
	s.mu.Lock()
	s.disconnect = true
	s.mu.Unlock()
}

// trackedStream is the engine thread's private bookkeeping for one stream;
// it is only ever touched from the engine goroutine.
type trackedStream struct {
	conn   net.Conn
	reader *bufio.Reader
	handle *AsyncStream
}
