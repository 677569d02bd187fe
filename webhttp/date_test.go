package webhttp_test

import (
	"testing"

	"github.com/fenwick-labs/humphrey/webhttp"
)

func TestHTTPDateKnownExample(t *testing.T) {
	got := webhttp.HTTPDate(784111777)
	want := "Sun, 06 Nov 1994 08:49:37 GMT"
	if got != want {
		t.Errorf("HTTPDate(784111777) = %q, want %q", got, want)
	}
}

func TestHTTPDateEpoch(t *testing.T) {
	got := webhttp.HTTPDate(0)
	want := "Thu, 01 Jan 1970 00:00:00 GMT"
	if got != want {
		t.Errorf("HTTPDate(0) = %q, want %q", got, want)
	}
}
