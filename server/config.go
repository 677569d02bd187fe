// Package server implements the HTTP/1.1 connection accept loop: per-keep
// alive-connection request/response cycling, CORS and WebSocket upgrade
// handoff, and graceful shutdown.
package server

import (
	"log"
	"net"
	"time"

	"github.com/fenwick-labs/humphrey/routing"
)

// Config holds the server's tunables. Use DefaultConfig and the With*
// options rather than constructing this directly.
type Config struct {
	ReadTimeout    time.Duration
	ErrorHandler   ErrorHandler
	ConnectionCond ConnectionCondition
	ShutdownSignal <-chan struct{}
	Logger         *log.Logger
	ServerHeader   string
	CORS           *routing.CORS
	State          any
	Workers        int
}

// defaultWorkers is the fixed size of the accept-dispatch workerpool.Pool:
// the maximum number of connections served concurrently, each holding its
// worker for its entire keep-alive lifetime (§4.5's "one worker serves one
// connection at a time through its entire keep-alive lifetime").
const defaultWorkers = 256

// DefaultConfig returns the documented defaults: a 30s read timeout, the
// built-in minimal-HTML error handler, no connection condition, no
// shutdown signal, "Humphrey" as the Server header, and a 256-worker pool.
func DefaultConfig() *Config {
	return &Config{
		ReadTimeout:  30 * time.Second,
		ErrorHandler: DefaultErrorHandler,
		ServerHeader: "Humphrey",
		Workers:      defaultWorkers,
	}
}

// ConnectionCondition is consulted immediately after accept, before any
// bytes are read, and may reject the connection outright (e.g. an IP
// denylist or a concurrent-connection cap).
type ConnectionCondition func(conn net.Conn) bool
