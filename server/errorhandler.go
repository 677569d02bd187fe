package server

import (
	"fmt"

	"github.com/fenwick-labs/humphrey/webhttp"
)

// ErrorHandler renders a response for a status code the framework itself
// generated (bad request, timeout, not found, ...).
type ErrorHandler func(status webhttp.StatusCode) webhttp.Response

// DefaultErrorHandler renders a minimal HTML page showing the numeric
// code and its phrase.
func DefaultErrorHandler(status webhttp.StatusCode) webhttp.Response {
	body := fmt.Sprintf(
		"<html><head><title>%d %s</title></head><body><h1>%d %s</h1></body></html>",
		status.Code(), status.Phrase(), status.Code(), status.Phrase(),
	)
	resp := webhttp.NewResponse(status, []byte(body))
	resp.Headers.Set("Content-Type", "text/html; charset=utf-8")
	return resp
}
