package wsasync

import (
	"log"
	"time"

	"github.com/fenwick-labs/humphrey/workerpool"
	"github.com/fenwick-labs/humphrey/wsmsg"
)

const (
	defaultWorkers      = 32
	defaultPollInterval = 10 * time.Millisecond
)

// Builder assembles an Engine. Zero value handlers are no-ops.
type Builder struct {
	onConnect    ConnectHandler
	onDisconnect DisconnectHandler
	onMessage    MessageHandler
	pollInterval time.Duration
	workers      int
	logger       *log.Logger
}

// NewBuilder returns a Builder seeded with the documented defaults: 32
// workers and a 10ms poll interval.
func NewBuilder() *Builder {
	return &Builder{pollInterval: defaultPollInterval, workers: defaultWorkers}
}

func (b *Builder) OnConnect(fn ConnectHandler) *Builder {
	b.onConnect = fn
	return b
}

func (b *Builder) OnDisconnect(fn DisconnectHandler) *Builder {
	b.onDisconnect = fn
	return b
}

func (b *Builder) OnMessage(fn MessageHandler) *Builder {
	b.onMessage = fn
	return b
}

// PollingInterval overrides the per-iteration sleep; zero disables the
// sleep entirely (busy loop).
func (b *Builder) PollingInterval(d time.Duration) *Builder {
	b.pollInterval = d
	return b
}

func (b *Builder) Workers(n int) *Builder {
	b.workers = n
	return b
}

func (b *Builder) Logger(l *log.Logger) *Builder {
	b.logger = l
	return b
}

// Build constructs the Engine. Run must be called to actually drive it.
func (b *Builder) Build() (*Engine, error) {
	p, err := newPoller()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		incoming:     make(chan *AcceptedStream, 64),
		outgoing:     make(chan outgoingCmd, 256),
		streams:      make(map[string]*trackedStream),
		poll:         p,
		pool:         workerpool.New(b.workers, b.logger),
		onConnect:    b.onConnect,
		onDisconnect: b.onDisconnect,
		onMessage:    b.onMessage,
		pollInterval: b.pollInterval,
		logger:       b.logger,
	}
	if e.onConnect == nil {
		e.onConnect = func(*AsyncStream) {}
	}
	if e.onDisconnect == nil {
		e.onDisconnect = func(*AsyncStream) {}
	}
	if e.onMessage == nil {
		e.onMessage = func(*AsyncStream, wsmsg.Message) {}
	}
	return e, nil
}
