// Package wsasync implements the asynchronous WebSocket application: a
// single-threaded event loop that owns every tracked stream, dispatching
// connect/message/disconnect events to a worker pool while handler
// invocations and outgoing sends flow through MPSC channels.
package wsasync

import (
	"bufio"
	"context"
	"log"
	"net"
	"sync"
	"time"

	"github.com/fenwick-labs/humphrey/webhttp"
	"github.com/fenwick-labs/humphrey/workerpool"
	"github.com/fenwick-labs/humphrey/wsmsg"
	"github.com/fenwick-labs/humphrey/wsproto"
)

// ConnectHandler, DisconnectHandler and MessageHandler are invoked on the
// engine's worker pool, never on the engine goroutine itself.
type ConnectHandler func(*AsyncStream)
type DisconnectHandler func(*AsyncStream)
type MessageHandler func(*AsyncStream, wsmsg.Message)

// Engine is the single-threaded event loop described by the async
// WebSocket application: it owns the stream table exclusively (only Run's
// goroutine ever touches it) and fans handler invocations out to a
// workerpool.Pool.
type Engine struct {
	incoming chan *AcceptedStream
	outgoing chan outgoingCmd

	streams map[string]*trackedStream
	poll    poller
	pool    *workerpool.Pool
	wg      sync.WaitGroup

	onConnect    ConnectHandler
	onDisconnect DisconnectHandler
	onMessage    MessageHandler

	pollInterval time.Duration
	logger       *log.Logger
}

// ConnectHook exposes the incoming-streams channel's send side so an
// external HTTP server can hand this engine completed handshakes.
func (e *Engine) ConnectHook() chan<- *AcceptedStream { return e.incoming }

// Sender returns a cloneable handle for pushing unicast/broadcast sends at
// the engine from outside a handler (e.g. from another goroutine).
func (e *Engine) Sender() AsyncSender { return AsyncSender{out: e.outgoing} }

// Shutdown enqueues the shutdown command; Run drains already-submitted
// handler invocations and returns once it is processed.
func (e *Engine) Shutdown() { e.Sender().shutdown() }

// Run drives the event loop until ctx is canceled or Shutdown is called.
// One iteration: poll every tracked stream non-blocking for messages,
// drain newly connected streams, drain outgoing sends, then sleep for the
// configured poll interval.
func (e *Engine) Run(ctx context.Context) error {
	defer e.pool.Close()
	defer e.poll.close()

	for {
		select {
		case <-ctx.Done():
			e.wg.Wait()
			return nil
		default:
		}

		if err := e.poll.pollBatch(len(e.streams)); err != nil && e.logger != nil {
			e.logger.Printf("wsasync: poll batch: %v", err)
		}

		for key, ts := range e.streams {
			for {
				io := &streamIO{ts: ts, poll: e.poll}
				msg, ok, err := wsmsg.TryReadMessage(io, ts.conn)
				if err != nil {
					e.disconnectStream(key)
					break
				}
				if !ok {
					break
				}
				handle := ts.handle
				e.submit(func() { e.onMessage(handle, msg) })
			}
		}

	drainIncoming:
		for {
			select {
			case accepted := <-e.incoming:
				ts := e.register(accepted)
				handle := ts.handle
				e.submit(func() { e.onConnect(handle) })
			default:
				break drainIncoming
			}
		}

	drainOutgoing:
		for {
			select {
			case cmd := <-e.outgoing:
				switch cmd.kind {
				case cmdShutdown:
					e.wg.Wait()
					return nil
				case cmdUnicast:
					if ts, ok := e.streams[cmd.addrKey]; ok {
						_ = wsmsg.WriteMessage(ts.conn, cmd.message)
					}
				case cmdBroadcast:
					for _, ts := range e.streams {
						_ = wsmsg.WriteMessage(ts.conn, cmd.message)
					}
				}
			default:
				break drainOutgoing
			}
		}

		if e.pollInterval > 0 {
			time.Sleep(e.pollInterval)
		}
	}
}

func (e *Engine) submit(task func()) {
	e.wg.Add(1)
	wrapped := func() {
		defer e.wg.Done()
		task()
	}
	if err := e.pool.Execute(wrapped); err != nil {
		e.wg.Done()
		if e.logger != nil {
			e.logger.Printf("wsasync: dropped task, pool closed: %v", err)
		}
	}
}

func (e *Engine) register(accepted *AcceptedStream) *trackedStream {
	sender := e.Sender()
	handle := newAsyncStream(accepted.Addr, sender)
	ts := &trackedStream{
		conn:   accepted.Conn,
		reader: bufio.NewReader(accepted.Conn),
		handle: handle,
	}
	if err := e.poll.register(accepted.Conn); err != nil && e.logger != nil {
		e.logger.Printf("wsasync: register stream: %v", err)
	}
	e.streams[accepted.Addr.Key()] = ts
	return ts
}

func (e *Engine) disconnectStream(key string) {
	ts, ok := e.streams[key]
	if !ok {
		return
	}
	delete(e.streams, key)
	e.poll.forget(ts.conn)
	ts.handle.markDisconnected()
	_ = ts.conn.Close()
	handle := ts.handle
	e.submit(func() { e.onDisconnect(handle) })
}

// streamIO adapts a tracked stream's bufio.Reader + poller into the
// wsmsg.NonBlockingFrameReader shape.
type streamIO struct {
	ts   *trackedStream
	poll poller
}

func (s *streamIO) ReadFrame() (wsproto.Frame, error) {
	return wsproto.ReadFrame(s.ts.reader)
}

func (s *streamIO) TryReadFrame() (wsproto.Frame, bool, error) {
	ready, err := s.poll.ready(s.ts.conn, s.ts.reader)
	if err != nil {
		return wsproto.Frame{}, false, err
	}
	if !ready {
		return wsproto.Frame{}, false, nil
	}
	f, err := wsproto.ReadFrame(s.ts.reader)
	if err != nil {
		return wsproto.Frame{}, false, err
	}
	return f, true, nil
}

// OwnHTTPServer runs a minimal HTTP server on addr whose sole purpose is
// completing WebSocket handshakes and handing the result to this engine's
// connect hook. Connections are accepted on one goroutine and each
// handshake runs on its own goroutine. A request that fails to parse or
// carries no Sec-WebSocket-Key is closed without a response; the Upgrade
// header itself is not checked.
func (e *Engine) OwnHTTPServer(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go e.serveHandshake(conn)
		}
	}()
	return nil
}

func (e *Engine) serveHandshake(conn net.Conn) {
	host, portStr, splitErr := net.SplitHostPort(conn.RemoteAddr().String())
	port := 0
	if splitErr == nil {
		if p, err := parsePort(portStr); err == nil {
			port = p
		}
	} else {
		host = conn.RemoteAddr().String()
	}

	reader := bufio.NewReader(conn)
	req, err := webhttp.ParseRequest(reader, host, port)
	if err != nil {
		_ = conn.Close()
		return
	}

	headers, err := wsproto.Handshake(req)
	if err != nil {
		_ = conn.Close()
		return
	}

	resp := webhttp.NewResponse(webhttp.StatusSwitchingProtocols, nil)
	for _, name := range headers.Names() {
		v, _ := headers.Get(name)
		resp.Headers.Set(name, v)
	}
	if _, err := resp.WriteTo(conn); err != nil {
		_ = conn.Close()
		return
	}

	e.incoming <- &AcceptedStream{Conn: conn, Addr: req.Address}
}

func parsePort(s string) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, &net.AddrError{Err: "invalid port", Addr: s}
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}
