package webhttp_test

import (
	"testing"

	"github.com/fenwick-labs/humphrey/webhttp"
)

func TestHeadersCaseInsensitive(t *testing.T) {
	h := webhttp.NewHeaders()
	h.Set("content-type", "text/plain")
	v, ok := h.Get("Content-Type")
	if !ok || v != "text/plain" {
		t.Errorf("Get(Content-Type) = %q, %v", v, ok)
	}
}

func TestHeadersAddJoinsCommaSeparated(t *testing.T) {
	h := webhttp.NewHeaders()
	h.Add("Vary", "Origin")
	h.Add("Vary", "Accept-Encoding")
	v, _ := h.Get("Vary")
	if v != "Origin, Accept-Encoding" {
		t.Errorf("Vary = %q", v)
	}
}

func TestHeadersGetAllSplitsJoinedValues(t *testing.T) {
	h := webhttp.NewHeaders()
	h.Add("Vary", "Origin")
	h.Add("Vary", "Accept-Encoding")
	got := h.GetAll("Vary")
	want := []string{"Origin", "Accept-Encoding"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("GetAll(Vary) = %v, want %v", got, want)
	}
}

func TestHeadersGetAllAbsent(t *testing.T) {
	h := webhttp.NewHeaders()
	if got := h.GetAll("Missing"); got != nil {
		t.Errorf("GetAll(Missing) = %v, want nil", got)
	}
}

func TestHeadersRemove(t *testing.T) {
	h := webhttp.NewHeaders()
	h.Set("X-Test", "1")
	h.Remove("x-test")
	if h.Has("X-Test") {
		t.Error("expected X-Test removed")
	}
}

func TestHeadersSerializeCategoryOrder(t *testing.T) {
	h := webhttp.NewHeaders()
	h.Set("Content-Length", "2")
	h.Set("Connection", "close")
	h.Set("Server", "Humphrey")
	h.Set("X-Custom", "1")

	lines := h.Serialize()
	idx := func(prefix string) int {
		for i, l := range lines {
			if len(l) >= len(prefix) && l[:len(prefix)] == prefix {
				return i
			}
		}
		return -1
	}
	// General (Connection) < Response (Server) < Entity (Content-Length) < Other (X-Custom)
	if !(idx("Connection:") < idx("Server:") && idx("Server:") < idx("Content-Length:") && idx("Content-Length:") < idx("X-Custom:")) {
		t.Errorf("unexpected order: %v", lines)
	}
}
