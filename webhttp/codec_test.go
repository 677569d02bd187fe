package webhttp_test

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/fenwick-labs/humphrey/webhttp"
)

func TestParseRequestPlainGET(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nHost: x\r\n\r\n"
	req, err := webhttp.ParseRequest(bufio.NewReader(strings.NewReader(raw)), "203.0.113.5", 54321)
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if req.Method != webhttp.MethodGet {
		t.Errorf("Method = %v, want GET", req.Method)
	}
	if req.URI != "/" {
		t.Errorf("URI = %q, want /", req.URI)
	}
	if req.Version != "HTTP/1.1" {
		t.Errorf("Version = %q", req.Version)
	}
	if host, ok := req.Headers.Get("Host"); !ok || host != "x" {
		t.Errorf("Host header = %q, %v", host, ok)
	}
	if req.Address.IP != "203.0.113.5" {
		t.Errorf("Address.IP = %q", req.Address.IP)
	}
}

func TestParseRequestWithBody(t *testing.T) {
	raw := "POST /submit HTTP/1.1\r\nHost: x\r\nContent-Length: 5\r\n\r\nhello"
	req, err := webhttp.ParseRequest(bufio.NewReader(strings.NewReader(raw)), "10.0.0.1", 1)
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if string(req.Body) != "hello" {
		t.Errorf("Body = %q, want hello", req.Body)
	}
}

func TestParseRequestMalformedStartLine(t *testing.T) {
	raw := "GET /\r\n\r\n"
	_, err := webhttp.ParseRequest(bufio.NewReader(strings.NewReader(raw)), "10.0.0.1", 1)
	var parseErr *webhttp.ParseError
	if err == nil {
		t.Fatal("expected error")
	}
	if !asParseError(err, &parseErr) || parseErr.Kind != webhttp.KindMalformed {
		t.Errorf("expected KindMalformed, got %v", err)
	}
}

func TestParseRequestMalformedHeader(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nBadHeaderNoColon\r\n\r\n"
	_, err := webhttp.ParseRequest(bufio.NewReader(strings.NewReader(raw)), "10.0.0.1", 1)
	var parseErr *webhttp.ParseError
	if !asParseError(err, &parseErr) || parseErr.Kind != webhttp.KindMalformed {
		t.Errorf("expected KindMalformed, got %v", err)
	}
}

func TestParseRequestDisconnected(t *testing.T) {
	_, err := webhttp.ParseRequest(bufio.NewReader(strings.NewReader("")), "10.0.0.1", 1)
	var parseErr *webhttp.ParseError
	if !asParseError(err, &parseErr) || parseErr.Kind != webhttp.KindDisconnected {
		t.Errorf("expected KindDisconnected, got %v", err)
	}
}

func TestParseRequestXForwardedFor(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nHost: x\r\nX-Forwarded-For: 1.1.1.1, 2.2.2.2\r\n\r\n"
	req, err := webhttp.ParseRequest(bufio.NewReader(strings.NewReader(raw)), "9.9.9.9", 1)
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if req.Address.IP != "2.2.2.2" {
		t.Errorf("origin IP = %q, want 2.2.2.2", req.Address.IP)
	}
	want := []string{"1.1.1.1", "9.9.9.9"}
	if len(req.Address.ForwardedFor) != len(want) {
		t.Fatalf("ForwardedFor = %v, want %v", req.Address.ForwardedFor, want)
	}
	for i := range want {
		if req.Address.ForwardedFor[i] != want[i] {
			t.Errorf("ForwardedFor[%d] = %q, want %q", i, req.Address.ForwardedFor[i], want[i])
		}
	}
}

func TestResponseWriteTo(t *testing.T) {
	resp := webhttp.NewResponse(webhttp.StatusOK, []byte("hi"))
	resp.Headers.Set("Content-Length", "2")
	resp.Headers.Set("Content-Type", "text/plain")
	resp.Headers.Set("Server", "Humphrey")

	var buf bytes.Buffer
	if _, err := resp.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "HTTP/1.1 200 OK\r\n") {
		t.Errorf("status line wrong: %q", out)
	}
	if !strings.HasSuffix(out, "\r\n\r\nhi") {
		t.Errorf("body/terminator wrong: %q", out)
	}
	// Category order is General < Response < Entity, so Server (Response)
	// must be serialized before Content-Length (Entity).
	serverIdx := strings.Index(out, "Server:")
	contentLenIdx := strings.Index(out, "Content-Length:")
	if serverIdx == -1 || contentLenIdx == -1 || serverIdx > contentLenIdx {
		t.Errorf("expected Server header before Content-Length, got: %q", out)
	}
}

func TestParseRequestQueryAndKeepAlive(t *testing.T) {
	raw := "GET /path?x=1 HTTP/1.1\r\nHost: example.com\r\nConnection: keep-alive\r\n\r\n"
	req, err := webhttp.ParseRequest(bufio.NewReader(strings.NewReader(raw)), "127.0.0.1", 1)
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if !req.KeepAlive() {
		t.Error("expected KeepAlive() true")
	}
	if req.Query != "x=1" {
		t.Errorf("Query = %q", req.Query)
	}
}

func asParseError(err error, target **webhttp.ParseError) bool {
	pe, ok := err.(*webhttp.ParseError)
	if !ok {
		return false
	}
	*target = pe
	return true
}
