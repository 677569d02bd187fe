// Package wsproto implements the RFC 6455 WebSocket handshake and frame
// codec: computing the Sec-WebSocket-Accept key and parsing/emitting the
// wire frame format.
package wsproto

import (
	"crypto/sha1"
	"encoding/base64"
	"errors"

	"github.com/fenwick-labs/humphrey/webhttp"
)

// GUID is the fixed magic string RFC 6455 requires when computing
// Sec-WebSocket-Accept.
const GUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// ErrMissingKey is returned when the request has no Sec-WebSocket-Key
// header; the handshake aborts without a response.
var ErrMissingKey = errors.New("wsproto: missing Sec-WebSocket-Key header")

// AcceptKey computes Sec-WebSocket-Accept from a client's
// Sec-WebSocket-Key: base64(SHA1(key + GUID)).
func AcceptKey(key string) string {
	sum := sha1.Sum([]byte(key + GUID))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Handshake validates req as a WebSocket upgrade request and returns the
// response headers for a 101 Switching Protocols reply. It does not write
// anything itself — the caller assembles and writes the actual
// webhttp.Response so the server's single response-writing path is reused
// for the handshake response too.
func Handshake(req *webhttp.Request) (webhttp.Headers, error) {
	key, ok := req.Headers.Get("Sec-WebSocket-Key")
	if !ok || key == "" {
		return webhttp.Headers{}, ErrMissingKey
	}

	headers := webhttp.NewHeaders()
	headers.Set("Upgrade", "websocket")
	headers.Set("Connection", "Upgrade")
	headers.Set("Sec-WebSocket-Accept", AcceptKey(key))
	return headers, nil
}
