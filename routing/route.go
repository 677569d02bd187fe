package routing

import (
	"net"

	"github.com/fenwick-labs/humphrey/webhttp"
	"github.com/fenwick-labs/humphrey/wildcard"
)

// Route is a single (pattern, handler, CORS) entry within a SubApp.
type Route struct {
	Pattern string
	Handle  normalizedHandler
	CORS    *CORS
}

// NewRoute builds a stateful Route.
func NewRoute(pattern string, h HandlerFunc, cors *CORS) Route {
	return Route{Pattern: pattern, Handle: normalizeStateful(h), CORS: cors}
}

// NewStatelessRoute builds a stateless Route.
func NewStatelessRoute(pattern string, h StatelessHandlerFunc, cors *CORS) Route {
	return Route{Pattern: pattern, Handle: normalizeStateless(h), CORS: cors}
}

// NewPathAwareRoute builds a path-aware Route.
func NewPathAwareRoute(pattern string, h PathAwareHandlerFunc, cors *CORS) Route {
	return Route{Pattern: pattern, Handle: normalizePathAware(h), CORS: cors}
}

// WSHandler is invoked once a connection has completed the WebSocket
// handshake. conn now speaks raw WebSocket frames; a handler either drives
// it synchronously or hands it to an async engine's connect hook.
type WSHandler func(conn net.Conn, req *webhttp.Request, pattern string)

// WSRoute is a single (pattern, handler) entry for WebSocket upgrades.
type WSRoute struct {
	Pattern string
	Handler WSHandler
}

// SubApp is a per-host bundle of HTTP and WebSocket routes, plus a default
// CORS configuration applied when a route doesn't set its own.
type SubApp struct {
	HostPattern string
	Routes      []Route
	WSRoutes    []WSRoute
	CORS        *CORS
}

// NewSubApp creates an empty SubApp for the given host pattern.
func NewSubApp(hostPattern string) *SubApp {
	return &SubApp{HostPattern: hostPattern}
}

// AddRoute appends an HTTP route, applying the SubApp's default CORS where
// the route didn't specify its own.
func (s *SubApp) AddRoute(r Route) *SubApp {
	if r.CORS == nil {
		r.CORS = s.CORS
	}
	s.Routes = append(s.Routes, r)
	return s
}

// AddWSRoute appends a WebSocket route.
func (s *SubApp) AddWSRoute(r WSRoute) *SubApp {
	s.WSRoutes = append(s.WSRoutes, r)
	return s
}

func (s *SubApp) matchRoute(path string) *Route {
	for i := range s.Routes {
		if wildcard.Match(s.Routes[i].Pattern, path) {
			return &s.Routes[i]
		}
	}
	return nil
}

func (s *SubApp) matchWSRoute(path string) *WSRoute {
	for i := range s.WSRoutes {
		if wildcard.Match(s.WSRoutes[i].Pattern, path) {
			return &s.WSRoutes[i]
		}
	}
	return nil
}

// Table holds the ordered list of SubApps plus a default SubApp used when
// no explicit host pattern matches (or, for a matched host with no matching
// route, as a second-chance lookup before returning 404).
type Table struct {
	SubApps []*SubApp
	Default *SubApp
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{}
}

// AddHost registers a SubApp under a host pattern. Declaration order is
// significant: the first matching pattern wins.
func (t *Table) AddHost(sub *SubApp) *Table {
	t.SubApps = append(t.SubApps, sub)
	return t
}

// SetDefault sets the fallback SubApp used for unmatched hosts.
func (t *Table) SetDefault(sub *SubApp) *Table {
	t.Default = sub
	return t
}

func (t *Table) matchHost(host string) *SubApp {
	for _, s := range t.SubApps {
		if wildcard.Match(s.HostPattern, host) {
			return s
		}
	}
	return nil
}

// Lookup finds the handler for (host, path): first the SubApp whose host
// pattern matches, then within it the first route whose pattern matches
// path. If either step fails, it falls back to the default SubApp's
// routes. Returns (nil, nil) if nothing matches anywhere.
func (t *Table) Lookup(host, path string) (*SubApp, *Route) {
	if sub := t.matchHost(host); sub != nil {
		if route := sub.matchRoute(path); route != nil {
			return sub, route
		}
	}
	if t.Default != nil {
		if route := t.Default.matchRoute(path); route != nil {
			return t.Default, route
		}
	}
	return nil, nil
}

// LookupWS is Lookup's WebSocket-route counterpart.
func (t *Table) LookupWS(host, path string) (*SubApp, *WSRoute) {
	if sub := t.matchHost(host); sub != nil {
		if route := sub.matchWSRoute(path); route != nil {
			return sub, route
		}
	}
	if t.Default != nil {
		if route := t.Default.matchWSRoute(path); route != nil {
			return t.Default, route
		}
	}
	return nil, nil
}
