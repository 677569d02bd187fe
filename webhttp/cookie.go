package webhttp

import (
	"fmt"
	"strings"
	"time"
)

// Cookie is a single name/value pair as sent in a request's Cookie header.
type Cookie struct {
	Name  string
	Value string
}

// ParseCookies parses a "Cookie" header value ("a=1; b=2") into individual
// Cookie pairs. Malformed segments (no '=') are skipped rather than
// rejecting the whole header, matching how browsers themselves are
// tolerant of stray cookie-jar noise.
func ParseCookies(header string) []Cookie {
	var cookies []Cookie
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.IndexByte(part, '=')
		if idx < 0 {
			continue
		}
		cookies = append(cookies, Cookie{
			Name:  strings.TrimSpace(part[:idx]),
			Value: strings.TrimSpace(part[idx+1:]),
		})
	}
	return cookies
}

// SameSite is the value of a Set-Cookie SameSite attribute.
type SameSite string

const (
	SameSiteStrict SameSite = "Strict"
	SameSiteLax    SameSite = "Lax"
	SameSiteNone   SameSite = "None"
)

// SetCookie models a response-side Set-Cookie header. Optional attributes
// are absent when empty (strings), false (flags) or nil (MaxAge), and are
// only emitted when present.
type SetCookie struct {
	Name    string
	Value   string
	Expires string // opaque HTTP-date string; empty means absent
	MaxAge  *time.Duration
	Domain  string
	Path    string
	Secure  bool
	HTTPOnly bool
	SameSite SameSite
}

// String serializes the cookie to its Set-Cookie header value.
func (c SetCookie) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s=%s", c.Name, c.Value)
	if c.Expires != "" {
		fmt.Fprintf(&b, "; Expires=%s", c.Expires)
	}
	if c.MaxAge != nil {
		fmt.Fprintf(&b, "; Max-Age=%d", int64(c.MaxAge.Seconds()))
	}
	if c.Domain != "" {
		fmt.Fprintf(&b, "; Domain=%s", c.Domain)
	}
	if c.Path != "" {
		fmt.Fprintf(&b, "; Path=%s", c.Path)
	}
	if c.Secure {
		b.WriteString("; Secure")
	}
	if c.HTTPOnly {
		b.WriteString("; HttpOnly")
	}
	if c.SameSite != "" {
		fmt.Fprintf(&b, "; SameSite=%s", c.SameSite)
	}
	return b.String()
}
