package webhttp

import "strings"

const defaultMIME = "application/octet-stream"

var mimeByExtension = map[string]string{
	"html": "text/html",
	"htm":  "text/html",
	"css":  "text/css",
	"js":   "text/javascript",
	"mjs":  "text/javascript",
	"json": "application/json",
	"xml":  "application/xml",
	"txt":  "text/plain",
	"md":   "text/markdown",
	"csv":  "text/csv",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"ico":  "image/x-icon",
	"webp": "image/webp",
	"pdf":  "application/pdf",
	"zip":  "application/zip",
	"gz":   "application/gzip",
	"tar":  "application/x-tar",
	"wasm": "application/wasm",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"woff": "font/woff",
	"woff2": "font/woff2",
	"ttf":  "font/ttf",
	"otf":  "font/otf",
}

// MIMEType maps a lowercase file extension (without the leading dot) to its
// canonical MIME type, defaulting to application/octet-stream for unknown
// extensions. The extension's case is normalized before lookup.
func MIMEType(extension string) string {
	ext := strings.ToLower(strings.TrimPrefix(extension, "."))
	if mime, ok := mimeByExtension[ext]; ok {
		return mime
	}
	return defaultMIME
}
