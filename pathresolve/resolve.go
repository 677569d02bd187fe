// Package pathresolve maps a request path onto a file underneath a root
// directory, rejecting traversal outside of root and applying index-file
// fallback for directories.
package pathresolve

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrTraversal is returned when the request path attempts to escape root
// (contains "..") or embeds a drive/alternate-stream separator (":").
var ErrTraversal = errors.New("pathresolve: path traversal rejected")

// Kind classifies a resolved path.
type Kind int

const (
	NotFound Kind = iota
	File
	Directory
)

// Result is the outcome of resolving a request path against root.
type Result struct {
	Kind Kind
	// AbsPath is the canonicalized absolute filesystem path. Set for File
	// and Directory results.
	AbsPath string
}

// Resolve maps requestPath onto a file under root. Index files are only
// tried when requestPath is empty or ends in "/" (the caller has already
// settled on a directory-shaped request); a directory hit from any other,
// non-trailing-slash path is returned as a bare Directory result without
// consulting indexFiles, so the caller can redirect to the trailing-slash
// form rather than silently serving that directory's index file under the
// wrong URL.
func Resolve(root, requestPath string, indexFiles []string) (Result, error) {
	if strings.Contains(requestPath, "..") || strings.Contains(requestPath, ":") {
		return Result{}, ErrTraversal
	}

	wantsIndex := requestPath == "" || strings.HasSuffix(requestPath, "/")
	trimmed := strings.Trim(requestPath, "/")
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Result{}, err
	}
	absRoot = filepath.Clean(absRoot)

	candidate := filepath.Clean(filepath.Join(absRoot, trimmed))
	if candidate != absRoot && !strings.HasPrefix(candidate, absRoot+string(filepath.Separator)) {
		return Result{}, ErrTraversal
	}

	info, err := os.Stat(candidate)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Kind: NotFound}, nil
		}
		return Result{}, err
	}

	if !info.IsDir() {
		return Result{Kind: File, AbsPath: candidate}, nil
	}

	if !wantsIndex {
		return Result{Kind: Directory, AbsPath: candidate}, nil
	}

	for _, index := range indexFiles {
		indexPath := filepath.Join(candidate, index)
		if fi, err := os.Stat(indexPath); err == nil && !fi.IsDir() {
			return Result{Kind: File, AbsPath: indexPath}, nil
		}
	}

	return Result{Kind: Directory, AbsPath: candidate}, nil
}
