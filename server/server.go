package server

import (
	"bufio"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fenwick-labs/humphrey/routing"
	"github.com/fenwick-labs/humphrey/webhttp"
	"github.com/fenwick-labs/humphrey/workerpool"
	"github.com/fenwick-labs/humphrey/wsproto"
)

// ErrAlreadyRunning is returned by ListenAndServe if called more than once
// on the same Server.
var ErrAlreadyRunning = errors.New("server: already running")

// Server accepts HTTP/1.1 connections and dispatches each one to a worker
// from a fixed-size workerpool.Pool, which serves that connection through
// its entire keep-alive lifetime; the server never pipelines requests.
type Server struct {
	Table *routing.Table
	cfg   *Config
	pool  *workerpool.Pool

	mu       sync.Mutex
	running  bool
	listener net.Listener
	done     chan struct{}
	ready    chan struct{}
}

// NewServer builds a Server bound to table. cfg may be nil to use
// DefaultConfig().
func NewServer(cfg *Config, table *routing.Table, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	for _, o := range opts {
		o(cfg)
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Server{
		Table: table,
		cfg:   cfg,
		pool:  workerpool.New(workers, cfg.Logger),
		done:  make(chan struct{}),
		ready: make(chan struct{}),
	}
}

// Addr blocks until the server is listening, then returns its bound
// address. Intended for tests that bind to ":0" and need the chosen port.
func (s *Server) Addr() net.Addr {
	<-s.ready
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener.Addr()
}

// ListenAndServe accepts connections on addr and blocks until Shutdown is
// called or the configured shutdown signal fires.
func (s *Server) ListenAndServe(addr string) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.listener = ln
	s.mu.Unlock()
	close(s.ready)

	if s.cfg.ShutdownSignal != nil {
		go func() {
			select {
			case <-s.cfg.ShutdownSignal:
				s.Shutdown()
			case <-s.done:
			}
		}()
	}

	var wg sync.WaitGroup
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.done:
				wg.Wait()
				s.pool.Close()
				return nil
			default:
				continue
			}
		}
		if s.cfg.ConnectionCond != nil && !s.cfg.ConnectionCond(conn) {
			conn.Close()
			continue
		}
		wg.Add(1)
		if err := s.pool.Execute(func() {
			defer wg.Done()
			s.serveConn(conn)
		}); err != nil {
			wg.Done()
			conn.Close()
		}
	}
}

// Shutdown stops the accept loop; in-flight keep-alive connections finish
// their current request/response cycle and exit at their next loop check.
func (s *Server) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		return
	default:
		close(s.done)
	}
	if s.listener != nil {
		s.listener.Close()
	}
}

func (s *Server) shuttingDown() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)
	host, portStr, _ := net.SplitHostPort(conn.RemoteAddr().String())
	port, _ := strconv.Atoi(portStr)

	for {
		if s.cfg.ReadTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}

		req, err := webhttp.ParseRequest(reader, host, port)
		if err != nil {
			var perr *webhttp.ParseError
			if errors.As(err, &perr) {
				switch perr.Kind {
				case webhttp.KindTimeout:
					s.writeError(conn, webhttp.StatusRequestTimeout, "HTTP/1.1")
				case webhttp.KindMalformed:
					s.writeError(conn, webhttp.StatusBadRequest, "HTTP/1.1")
				}
			}
			return
		}

		if v, ok := req.Headers.Get("Upgrade"); ok && strings.EqualFold(v, "websocket") {
			s.serveUpgrade(conn, req)
			return
		}

		keepAlive := req.KeepAlive()

		subApp, route := s.Table.Lookup(hostHeader(req), req.URI)

		var resp webhttp.Response
		switch {
		case req.Method == webhttp.MethodOptions:
			resp = s.preflightResponse(subApp, route)
		case route != nil:
			resp = route.Handle(req, s.cfg.State, route.Pattern)
			cors := routing.Merge(s.cfg.CORS, route.CORS)
			if cors != nil {
				cors.Apply(&resp)
			}
		default:
			resp = s.cfg.ErrorHandler(webhttp.StatusNotFound)
		}

		s.fillDefaults(&resp, req, keepAlive)
		resp.Version = req.Version

		if _, err := resp.WriteTo(conn); err != nil {
			return
		}

		if !keepAlive || s.shuttingDown() {
			return
		}
	}
}

func (s *Server) serveUpgrade(conn net.Conn, req *webhttp.Request) {
	_, route := s.Table.LookupWS(hostHeader(req), req.URI)
	if route == nil {
		s.writeError(conn, webhttp.StatusNotFound, req.Version)
		return
	}

	headers, err := wsproto.Handshake(req)
	if err != nil {
		return
	}

	resp := webhttp.NewResponse(webhttp.StatusSwitchingProtocols, nil)
	resp.Version = req.Version
	for _, name := range headers.Names() {
		v, _ := headers.Get(name)
		resp.Headers.Set(name, v)
	}
	if _, err := resp.WriteTo(conn); err != nil {
		return
	}

	route.Handler(conn, req, route.Pattern)
}

func (s *Server) preflightResponse(subApp *routing.SubApp, route *routing.Route) webhttp.Response {
	if route == nil {
		return s.cfg.ErrorHandler(webhttp.StatusNotFound)
	}
	resp := webhttp.NewResponse(webhttp.StatusNoContent, nil)
	cors := routing.Merge(s.cfg.CORS, route.CORS)
	if cors != nil {
		cors.Apply(&resp)
	}
	return resp
}

func (s *Server) fillDefaults(resp *webhttp.Response, req *webhttp.Request, keepAlive bool) {
	if !resp.Headers.Has("Connection") {
		if keepAlive {
			resp.Headers.Set("Connection", "keep-alive")
		} else {
			resp.Headers.Set("Connection", "close")
		}
	}
	if !resp.Headers.Has("Server") {
		resp.Headers.Set("Server", s.cfg.ServerHeader)
	}
	if !resp.Headers.Has("Date") {
		resp.Headers.Set("Date", webhttp.HTTPDate(time.Now().Unix()))
	}
	if !resp.Headers.Has("Content-Length") {
		resp.Headers.Set("Content-Length", strconv.Itoa(len(resp.Body)))
	}
}

func (s *Server) writeError(conn net.Conn, status webhttp.StatusCode, version string) {
	resp := s.cfg.ErrorHandler(status)
	resp.Version = version
	resp.Headers.Set("Connection", "close")
	resp.Headers.Set("Server", s.cfg.ServerHeader)
	resp.Headers.Set("Date", webhttp.HTTPDate(time.Now().Unix()))
	resp.Headers.Set("Content-Length", strconv.Itoa(len(resp.Body)))
	_, _ = resp.WriteTo(conn)
}

func hostHeader(req *webhttp.Request) string {
	v, _ := req.Headers.Get("Host")
	if i := strings.IndexByte(v, ':'); i >= 0 {
		return v[:i]
	}
	return v
}
