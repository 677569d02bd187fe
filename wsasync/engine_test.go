package wsasync_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/fenwick-labs/humphrey/webhttp"
	"github.com/fenwick-labs/humphrey/wsasync"
	"github.com/fenwick-labs/humphrey/wsmsg"
	"github.com/fenwick-labs/humphrey/wsproto"
)

// localPipe returns two ends of a real TCP loopback connection so the
// engine's fd-based poller can register them (net.Pipe exposes no fd).
func localPipe(t *testing.T) (server, client net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		server, err = ln.Accept()
	}()

	client, err = net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	wg.Wait()
	if server == nil {
		t.Fatal("accept failed")
	}
	return server, client
}

func TestEngineConnectMessageBroadcast(t *testing.T) {
	var mu sync.Mutex
	var connected, received []string

	connectWg := sync.WaitGroup{}
	connectWg.Add(1)
	messageWg := sync.WaitGroup{}
	messageWg.Add(1)

	engine, err := wsasync.NewBuilder().
		PollingInterval(2 * time.Millisecond).
		Workers(2).
		OnConnect(func(s *wsasync.AsyncStream) {
			mu.Lock()
			connected = append(connected, s.RemoteAddr().Key())
			mu.Unlock()
			connectWg.Done()
		}).
		OnMessage(func(s *wsasync.AsyncStream, m wsmsg.Message) {
			mu.Lock()
			received = append(received, string(m.Payload))
			mu.Unlock()
			messageWg.Done()
		}).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx) }()

	serverConn, clientConn := localPipe(t)
	defer clientConn.Close()

	hook := engine.ConnectHook()
	hook <- &wsasync.AcceptedStream{
		Conn: serverConn,
		Addr: webhttp.Address{IP: "127.0.0.1", Port: 1},
	}

	connectWg.Wait()

	frame := wsproto.Frame{Fin: true, Opcode: wsproto.OpcodeText, Payload: []byte("hello")}
	if _, err := frame.WriteTo(clientConn, true); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	waitOrTimeout(t, &messageWg, 2*time.Second)

	mu.Lock()
	if len(received) != 1 || received[0] != "hello" {
		t.Errorf("received = %v", received)
	}
	mu.Unlock()

	engine.Shutdown()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not shut down")
	}
}

func waitOrTimeout(t *testing.T, wg *sync.WaitGroup, d time.Duration) {
	t.Helper()
	ch := make(chan struct{})
	go func() { wg.Wait(); close(ch) }()
	select {
	case <-ch:
	case <-time.After(d):
		t.Fatal("timed out waiting for handler invocation")
	}
}
