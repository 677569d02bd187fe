package server

import (
	"github.com/fenwick-labs/humphrey/routing"
)

// App is the top-level builder: route/host declarations accumulate against
// an implicit default SubApp (host pattern "*") until Host is used to
// start declaring routes under a specific host pattern instead.
type App struct {
	table   *routing.Table
	current *routing.SubApp
	opts    []Option
}

// NewApp starts a builder with routes going to the default (any-host)
// SubApp until Host is called.
func NewApp() *App {
	def := routing.NewSubApp("*")
	table := routing.NewTable().SetDefault(def)
	return &App{table: table, current: def}
}

// Host switches subsequent Route/WebSocketRoute calls to a new SubApp
// registered under hostPattern.
func (a *App) Host(hostPattern string) *App {
	sub := routing.NewSubApp(hostPattern)
	a.table.AddHost(sub)
	a.current = sub
	return a
}

// Route registers a stateful handler.
func (a *App) Route(pattern string, h routing.HandlerFunc, cors *routing.CORS) *App {
	a.current.AddRoute(routing.NewRoute(pattern, h, cors))
	return a
}

// StatelessRoute registers a handler with no shared application state.
func (a *App) StatelessRoute(pattern string, h routing.StatelessHandlerFunc, cors *routing.CORS) *App {
	a.current.AddRoute(routing.NewStatelessRoute(pattern, h, cors))
	return a
}

// PathAwareRoute registers a handler that also receives the literal
// pattern that matched.
func (a *App) PathAwareRoute(pattern string, h routing.PathAwareHandlerFunc, cors *routing.CORS) *App {
	a.current.AddRoute(routing.NewPathAwareRoute(pattern, h, cors))
	return a
}

// WebSocketRoute registers a WebSocket upgrade handler.
func (a *App) WebSocketRoute(pattern string, h routing.WSHandler) *App {
	a.current.AddWSRoute(routing.WSRoute{Pattern: pattern, Handler: h})
	return a
}

// CORSForRoute sets/overwrites CORS on the most recently registered route
// within the current SubApp.
func (a *App) CORSForRoute(cors *routing.CORS) *App {
	if n := len(a.current.Routes); n > 0 {
		a.current.Routes[n-1].CORS = cors
	}
	return a
}

// CORS sets the current SubApp's default CORS. It is copied onto routes
// registered after this call that don't specify their own; routes already
// registered keep the CORS they had.
func (a *App) CORS(cors *routing.CORS) *App {
	a.current.CORS = cors
	return a
}

// ErrorHandler sets the framework-generated-response error handler.
func (a *App) ErrorHandler(h ErrorHandler) *App {
	a.opts = append(a.opts, WithErrorHandler(h))
	return a
}

// ConnectionCondition sets the post-accept connection veto.
func (a *App) ConnectionCondition(cond ConnectionCondition) *App {
	a.opts = append(a.opts, WithConnectionCondition(cond))
	return a
}

// Shutdown wires a cancellation signal observed by the accept loop.
func (a *App) Shutdown(sig <-chan struct{}) *App {
	a.opts = append(a.opts, WithShutdownSignal(sig))
	return a
}

// Build finalizes the App into a runnable Server.
func (a *App) Build() *Server {
	return NewServer(DefaultConfig(), a.table, a.opts...)
}

// Run builds the Server and blocks serving addr until shutdown.
func (a *App) Run(addr string) error {
	return a.Build().ListenAndServe(addr)
}
