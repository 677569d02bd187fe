package server_test

import (
	"bufio"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/fenwick-labs/humphrey/routing"
	"github.com/fenwick-labs/humphrey/server"
	"github.com/fenwick-labs/humphrey/webhttp"
)

func startTestServer(t *testing.T) (addr string, shutdown func()) {
	t.Helper()

	app := server.NewApp().
		StatelessRoute("/hello", func(req *webhttp.Request) webhttp.Response {
			return webhttp.NewResponse(webhttp.StatusOK, []byte("hello"))
		}, nil).
		StatelessRoute("/cors", func(req *webhttp.Request) webhttp.Response {
			return webhttp.NewResponse(webhttp.StatusOK, []byte("ok"))
		}, routing.WildcardCORS())

	srv := app.Build()
	go srv.ListenAndServe("127.0.0.1:0")

	addr = srv.Addr().String()
	return addr, srv.Shutdown
}

func TestServerServesRoute(t *testing.T) {
	addr, shutdown := startTestServer(t)
	defer shutdown()

	resp, err := http.Get("http://" + addr + "/hello")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("Server") != "Humphrey" {
		t.Errorf("Server header = %q", resp.Header.Get("Server"))
	}
}

func TestServerReturns404ForUnknownRoute(t *testing.T) {
	addr, shutdown := startTestServer(t)
	defer shutdown()

	resp, err := http.Get("http://" + addr + "/missing")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestServerCORSPreflight(t *testing.T) {
	addr, shutdown := startTestServer(t)
	defer shutdown()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	req := "OPTIONS /cors HTTP/1.1\r\nHost: x\r\nOrigin: a\r\nAccess-Control-Request-Method: POST\r\nConnection: close\r\n\r\n"
	if _, err := conn.Write([]byte(req)); err != nil {
		t.Fatalf("write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	r := bufio.NewReader(conn)
	statusLine, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read status line: %v", err)
	}
	if statusLine != "HTTP/1.1 204 No Content\r\n" {
		t.Errorf("status line = %q", statusLine)
	}

	foundOrigin := false
	for {
		line, err := r.ReadString('\n')
		if err != nil || line == "\r\n" {
			break
		}
		if line == "Access-Control-Allow-Origin: *\r\n" {
			foundOrigin = true
		}
	}
	if !foundOrigin {
		t.Error("expected Access-Control-Allow-Origin: * in preflight response")
	}
}
