package webhttp

import "strings"

// Request is a parsed HTTP/1.1 (or HTTP/1.0) request.
type Request struct {
	Method  Method
	URI     string // path only, leading '/'
	Query   string // opaque string after '?', may be empty
	Version string // "HTTP/1.1" or "HTTP/1.0"
	Headers Headers
	Body    []byte
	Address Address
}

// Cookies returns the cookies parsed from the request's Cookie header, if
// any.
func (r *Request) Cookies() []Cookie {
	if v, ok := r.Headers.Get("Cookie"); ok {
		return ParseCookies(v)
	}
	return nil
}

// KeepAlive reports whether the request's Connection header requests a
// persistent connection (case-insensitive "keep-alive").
func (r *Request) KeepAlive() bool {
	v, ok := r.Headers.Get("Connection")
	if !ok {
		return false
	}
	return strings.EqualFold(v, "keep-alive")
}

// IsWebSocketUpgrade reports whether the request asks to upgrade to the
// WebSocket protocol.
func (r *Request) IsWebSocketUpgrade() bool {
	v, ok := r.Headers.Get("Upgrade")
	return ok && strings.EqualFold(v, "websocket")
}
