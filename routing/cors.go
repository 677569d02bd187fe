// Package routing implements the per-host/per-route table: CORS
// configuration, route entries, sub-applications, and the wildcard-based
// lookup that picks a handler for an incoming request.
package routing

import (
	"strings"

	"github.com/fenwick-labs/humphrey/webhttp"
)

// CORS describes which headers to add to a route's responses. The zero
// value adds no CORS headers at all, matching the "default is no CORS"
// rule.
type CORS struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}

// WildcardCORS returns a CORS config with all three fields set to "*".
func WildcardCORS() *CORS {
	return &CORS{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"*"},
		AllowHeaders: []string{"*"},
	}
}

// Headers projects the CORS config to the response headers it implies. A
// nil receiver yields empty headers.
func (c *CORS) Headers() webhttp.Headers {
	h := webhttp.NewHeaders()
	if c == nil {
		return h
	}
	if len(c.AllowOrigins) > 0 {
		h.Set("Access-Control-Allow-Origin", strings.Join(c.AllowOrigins, ", "))
	}
	if len(c.AllowMethods) > 0 {
		h.Set("Access-Control-Allow-Methods", strings.Join(c.AllowMethods, ", "))
	}
	if len(c.AllowHeaders) > 0 {
		h.Set("Access-Control-Allow-Headers", strings.Join(c.AllowHeaders, ", "))
	}
	return h
}

// Apply overlays the CORS headers onto resp, but only for headers the
// response does not already set (a handler's own CORS headers win).
func (c *CORS) Apply(resp *webhttp.Response) {
	if c == nil {
		return
	}
	h := c.Headers()
	for _, name := range h.Names() {
		if resp.Headers.Has(name) {
			continue
		}
		if v, ok := h.Get(name); ok {
			resp.Headers.Set(name, v)
		}
	}
}

// Merge overlays serverWide onto route, field by field, so that a
// server-wide CORS configuration only overrides the fields it actually
// sets, per "a server-wide CORS overrides route defaults only where set".
func Merge(serverWide, route *CORS) *CORS {
	if serverWide == nil {
		return route
	}
	var out CORS
	if route != nil {
		out = *route
	}
	if len(serverWide.AllowOrigins) > 0 {
		out.AllowOrigins = serverWide.AllowOrigins
	}
	if len(serverWide.AllowMethods) > 0 {
		out.AllowMethods = serverWide.AllowMethods
	}
	if len(serverWide.AllowHeaders) > 0 {
		out.AllowHeaders = serverWide.AllowHeaders
	}
	return &out
}
