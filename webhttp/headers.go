package webhttp

import (
	"sort"
	"strings"
)

// headerCategory is the canonical serialization bucket for a header name,
// per RFC 7230's General/Response/Entity grouping (plus a catch-all
// "Other" bucket for everything else, including custom headers).
type headerCategory int

const (
	categoryGeneral headerCategory = iota
	categoryResponse
	categoryEntity
	categoryOther
)

var wellKnownCategory = map[string]headerCategory{
	// General headers
	"Cache-Control":     categoryGeneral,
	"Connection":        categoryGeneral,
	"Date":              categoryGeneral,
	"Pragma":            categoryGeneral,
	"Trailer":           categoryGeneral,
	"Transfer-Encoding":  categoryGeneral,
	"Upgrade":           categoryGeneral,
	"Via":               categoryGeneral,
	"Warning":           categoryGeneral,

	// Response headers
	"Accept-Ranges":                    categoryResponse,
	"Age":                              categoryResponse,
	"ETag":                             categoryResponse,
	"Location":                         categoryResponse,
	"Proxy-Authenticate":               categoryResponse,
	"Retry-After":                      categoryResponse,
	"Server":                           categoryResponse,
	"Vary":                             categoryResponse,
	"WWW-Authenticate":                 categoryResponse,
	"Access-Control-Allow-Origin":      categoryResponse,
	"Access-Control-Allow-Methods":     categoryResponse,
	"Access-Control-Allow-Headers":     categoryResponse,
	"Access-Control-Allow-Credentials": categoryResponse,
	"Sec-WebSocket-Accept":             categoryResponse,

	// Entity headers
	"Allow":             categoryEntity,
	"Content-Encoding":  categoryEntity,
	"Content-Language":  categoryEntity,
	"Content-Length":    categoryEntity,
	"Content-Location":  categoryEntity,
	"Content-MD5":       categoryEntity,
	"Content-Range":     categoryEntity,
	"Content-Type":      categoryEntity,
	"Expires":           categoryEntity,
	"Last-Modified":     categoryEntity,
}

func categoryOf(canonicalName string) headerCategory {
	if c, ok := wellKnownCategory[canonicalName]; ok {
		return c
	}
	return categoryOther
}

// canonicalize applies well-known casing if the name is recognized
// case-insensitively; any other (custom) name keeps its original casing.
func canonicalize(name string) string {
	for known := range wellKnownCategory {
		if strings.EqualFold(known, name) {
			return known
		}
	}
	for _, known := range []string{"Host", "User-Agent", "Accept", "Accept-Encoding",
		"Accept-Language", "Authorization", "Cookie", "Set-Cookie", "Origin",
		"Referer", "X-Forwarded-For", "Sec-WebSocket-Key", "Sec-WebSocket-Version",
		"Access-Control-Request-Method", "Access-Control-Request-Headers"} {
		if strings.EqualFold(known, name) {
			return known
		}
	}
	return name
}

type headerEntry struct {
	name  string // canonical casing
	value string // comma-joined if Add was called more than once
}

// Headers is an ordered, case-insensitive-keyed multi-value header
// container. Insertion order of distinct header names is preserved;
// Serialize reorders by category, per the canonical response order.
type Headers struct {
	entries []headerEntry
}

// NewHeaders returns an empty Headers container.
func NewHeaders() Headers {
	return Headers{}
}

func (h *Headers) indexOf(name string) int {
	for i, e := range h.entries {
		if strings.EqualFold(e.name, name) {
			return i
		}
	}
	return -1
}

// Get returns the first (possibly comma-joined) value for name, and whether
// it was present.
func (h *Headers) Get(name string) (string, bool) {
	if i := h.indexOf(name); i >= 0 {
		return h.entries[i].value, true
	}
	return "", false
}

// GetAll returns every value added for name, in the order they were
// Add()ed. Since Add folds repeat values into one comma-joined entry,
// this just splits that entry back apart at every ", "; a value that itself
// contains ", " (such as an HTTP-date) is split there too, even when it was
// stored with a single Set or Add.
func (h *Headers) GetAll(name string) []string {
	v, ok := h.Get(name)
	if !ok {
		return nil
	}
	return strings.Split(v, ", ")
}

// GetOr returns the value for name, or fallback if absent.
func (h *Headers) GetOr(name, fallback string) string {
	if v, ok := h.Get(name); ok {
		return v
	}
	return fallback
}

// Has reports whether name is present.
func (h *Headers) Has(name string) bool {
	return h.indexOf(name) >= 0
}

// Add appends value to name. If name is already present, value is appended
// to the existing value separated by ", ", matching HTTP's
// multiple-header-lines-equal-comma-joined-value semantics.
func (h *Headers) Add(name, value string) {
	canonical := canonicalize(name)
	if i := h.indexOf(canonical); i >= 0 {
		h.entries[i].value = h.entries[i].value + ", " + value
		return
	}
	h.entries = append(h.entries, headerEntry{name: canonical, value: value})
}

// Set replaces any existing value(s) for name with value.
func (h *Headers) Set(name, value string) {
	canonical := canonicalize(name)
	if i := h.indexOf(canonical); i >= 0 {
		h.entries[i].value = value
		return
	}
	h.entries = append(h.entries, headerEntry{name: canonical, value: value})
}

// Remove deletes name if present.
func (h *Headers) Remove(name string) {
	if i := h.indexOf(name); i >= 0 {
		h.entries = append(h.entries[:i], h.entries[i+1:]...)
	}
}

// Names returns the canonical names currently stored, in insertion order.
func (h *Headers) Names() []string {
	names := make([]string, len(h.entries))
	for i, e := range h.entries {
		names[i] = e.name
	}
	return names
}

// Serialize returns the header lines in canonical order: General, Response,
// Entity, then Other, alphabetical by canonical name within each category.
func (h *Headers) Serialize() []string {
	sorted := make([]headerEntry, len(h.entries))
	copy(sorted, h.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := categoryOf(sorted[i].name), categoryOf(sorted[j].name)
		if ci != cj {
			return ci < cj
		}
		return sorted[i].name < sorted[j].name
	})
	lines := make([]string, len(sorted))
	for i, e := range sorted {
		lines[i] = e.name + ": " + e.value
	}
	return lines
}

// Clone returns an independent copy of h.
func (h Headers) Clone() Headers {
	out := Headers{entries: make([]headerEntry, len(h.entries))}
	copy(out.entries, h.entries)
	return out
}
