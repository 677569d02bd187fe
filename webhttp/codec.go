// Package webhttp implements the HTTP/1.1 data model (method, status,
// headers, cookies, MIME, date, address) and the request/response codec:
// parsing a request from a byte stream and serializing a response back to
// one.
package webhttp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
)

// ParseErrorKind classifies why ParseRequest failed.
type ParseErrorKind int

const (
	// KindMalformed means the bytes read do not form a valid request.
	KindMalformed ParseErrorKind = iota
	// KindStream means the underlying reader returned a non-timeout error.
	KindStream
	// KindTimeout means the read deadline elapsed before a full request
	// arrived.
	KindTimeout
	// KindDisconnected means EOF was observed before any byte of a new
	// request arrived (the expected way a keep-alive connection ends).
	KindDisconnected
)

// ParseError is returned by ParseRequest.
type ParseError struct {
	Kind    ParseErrorKind
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("webhttp: %s: %v", e.Message, e.Err)
	}
	return "webhttp: " + e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }

func malformed(msg string) *ParseError {
	return &ParseError{Kind: KindMalformed, Message: msg}
}

// ParseRequest reads one HTTP request from r. peerIP/peerPort identify the
// accepted socket and are combined with any X-Forwarded-For header to build
// the request's Address.
func ParseRequest(r *bufio.Reader, peerIP string, peerPort int) (*Request, error) {
	startLine, err := readLine(r)
	if err != nil {
		return nil, classifyReadError(err, startLine == "")
	}

	tokens := strings.SplitN(startLine, " ", 3)
	if len(tokens) != 3 {
		return nil, malformed("malformed request line")
	}

	method, err := ParseMethod(tokens[0])
	if err != nil {
		return nil, malformed("unknown method " + tokens[0])
	}

	version := tokens[2]
	if version != "HTTP/1.1" && version != "HTTP/1.0" {
		return nil, malformed("unsupported HTTP version " + version)
	}

	uri, query := splitRequestTarget(tokens[1])

	headers := NewHeaders()
	for {
		line, err := readLine(r)
		if err != nil {
			return nil, classifyReadError(err, false)
		}
		if line == "" {
			break
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			return nil, malformed("malformed header line " + line)
		}
		name := line[:idx]
		value := strings.TrimSpace(line[idx+1:])
		if name == "" {
			return nil, malformed("empty header name")
		}
		headers.Add(name, value)
	}

	var body []byte
	if cl, ok := headers.Get("Content-Length"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(cl))
		if err != nil || n < 0 {
			return nil, malformed("invalid Content-Length")
		}
		body = make([]byte, n)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, classifyReadError(err, false)
		}
	}

	return &Request{
		Method:  method,
		URI:     uri,
		Query:   query,
		Version: version,
		Headers: headers,
		Body:    body,
		Address: NewAddress(peerIP, peerPort, headers),
	}, nil
}

// readLine reads one CRLF (or bare LF, tolerated) terminated line with the
// terminator stripped. On error it returns whatever partial line was read.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return line, err
	}
	line = strings.TrimRight(line, "\r\n")
	return line, nil
}

func splitRequestTarget(target string) (uri, query string) {
	if idx := strings.IndexByte(target, '?'); idx >= 0 {
		return target[:idx], target[idx+1:]
	}
	return target, ""
}

// classifyReadError turns a raw I/O error into a ParseError. atStart
// indicates the error happened before any byte of a new request was read,
// which is the normal way a keep-alive connection is closed by the peer.
func classifyReadError(err error, atStart bool) *ParseError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ParseError{Kind: KindTimeout, Message: "read timeout", Err: err}
	}
	if atStart && errors.Is(err, io.EOF) {
		return &ParseError{Kind: KindDisconnected, Message: "peer disconnected", Err: err}
	}
	return &ParseError{Kind: KindStream, Message: "stream read error", Err: err}
}

// WriteTo serializes r to w: status line, then headers in canonical order,
// then CRLF CRLF, then body.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64

	statusLine := fmt.Sprintf("%s %d %s\r\n", r.Version, r.Status.Code(), r.Status.Phrase())
	written, err := bw.WriteString(statusLine)
	n += int64(written)
	if err != nil {
		return n, err
	}

	for _, line := range r.Headers.Serialize() {
		written, err := bw.WriteString(line + "\r\n")
		n += int64(written)
		if err != nil {
			return n, err
		}
	}

	written, err = bw.WriteString("\r\n")
	n += int64(written)
	if err != nil {
		return n, err
	}

	if len(r.Body) > 0 {
		wrote, err := bw.Write(r.Body)
		n += int64(wrote)
		if err != nil {
			return n, err
		}
	}

	return n, bw.Flush()
}
