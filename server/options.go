package server

import (
	"log"
	"net"
	"time"

	"github.com/fenwick-labs/humphrey/routing"
)

// Option customizes a Server at construction time.
type Option func(*Config)

func WithReadTimeout(d time.Duration) Option {
	return func(c *Config) { c.ReadTimeout = d }
}

func WithErrorHandler(h ErrorHandler) Option {
	return func(c *Config) { c.ErrorHandler = h }
}

func WithConnectionCondition(cond func(net.Conn) bool) Option {
	return func(c *Config) { c.ConnectionCond = cond }
}

func WithShutdownSignal(sig <-chan struct{}) Option {
	return func(c *Config) { c.ShutdownSignal = sig }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

func WithServerHeader(name string) Option {
	return func(c *Config) { c.ServerHeader = name }
}

// WithCORS sets the server-wide CORS default, which overrides a route's
// own CORS only on the fields it sets (see routing.Merge).
func WithCORS(cors *routing.CORS) Option {
	return func(c *Config) { c.CORS = cors }
}

// WithState sets the shared application state passed to stateful route
// handlers.
func WithState(state any) Option {
	return func(c *Config) { c.State = state }
}

// WithWorkers overrides the accept-dispatch workerpool.Pool size; n < 1
// makes NewServer fall back to the default of 256 workers.
func WithWorkers(n int) Option {
	return func(c *Config) { c.Workers = n }
}
