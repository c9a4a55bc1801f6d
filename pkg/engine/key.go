package engine

import (
	"path"
	"strings"
)

// Key cleans a request path into the canonical form every backend stores
// files under: rooted at "/", no "." or ".." segments, no repeated slashes.
// The root and directory paths (trailing "/") are not files and yield ErrKey.
func Key(k []byte) ([]byte, error) {
	s := string(k)
	if len(s) == 0 || strings.HasSuffix(s, "/") {
		return nil, ErrKey
	}
	s = path.Clean("/" + s)
	if s == "/" {
		return nil, ErrKey
	}
	return []byte(s), nil
}

// GetKey is Key for lookups: a path that cannot name a file does not exist.
func GetKey(k []byte) ([]byte, error) {
	k, err := Key(k)
	if err != nil {
		return nil, NotExist
	}
	return k, nil
}
