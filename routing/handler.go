package routing

import "github.com/fenwick-labs/humphrey/webhttp"

// HandlerFunc is a stateful route handler: it receives the shared
// application state alongside the request.
type HandlerFunc func(req *webhttp.Request, state any) webhttp.Response

// StatelessHandlerFunc is a route handler with no application state.
type StatelessHandlerFunc func(req *webhttp.Request) webhttp.Response

// PathAwareHandlerFunc additionally receives the literal route pattern that
// matched, so e.g. a static file handler can strip the matched prefix.
type PathAwareHandlerFunc func(req *webhttp.Request, state any, pattern string) webhttp.Response

// normalizedHandler is the single internal shape every registration style
// is converted to, so the route table and server loop never branch on
// handler arity.
type normalizedHandler func(req *webhttp.Request, state any, pattern string) webhttp.Response

func normalizeStateful(f HandlerFunc) normalizedHandler {
	return func(req *webhttp.Request, state any, _ string) webhttp.Response {
		return f(req, state)
	}
}

func normalizeStateless(f StatelessHandlerFunc) normalizedHandler {
	return func(req *webhttp.Request, _ any, _ string) webhttp.Response {
		return f(req)
	}
}

func normalizePathAware(f PathAwareHandlerFunc) normalizedHandler {
	return func(req *webhttp.Request, state any, pattern string) webhttp.Response {
		return f(req, state, pattern)
	}
}
