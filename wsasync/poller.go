package wsasync

import (
	"bufio"
	"net"
)

// poller abstracts the platform-specific non-blocking readiness check so
// the engine loop itself stays platform-independent. register/forget bind
// a stream's lifetime to the poller. pollBatch refreshes readiness for
// every registered stream in one multiplexed call, sized to maxEvents (the
// number of currently tracked streams); ready then reports whether a frame
// can be read from conn/r without blocking, consulting the results
// pollBatch just gathered rather than polling that one fd in isolation —
// a single shared epoll instance can only hand back a bounded number of
// events per EpollWait call, and probing one fd at a time risks a busy
// stream's event crowding out everyone else's across many loop iterations.
type poller interface {
	register(conn net.Conn) error
	forget(conn net.Conn)
	pollBatch(maxEvents int) error
	ready(conn net.Conn, r *bufio.Reader) (bool, error)
	close() error
}
