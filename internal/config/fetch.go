package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	get "github.com/hashicorp/go-getter"
)

// IsRemote reports whether src names a config that must be fetched first:
// a URL with a scheme other than file, or a go-getter forced source such
// as "git::https://...".
func IsRemote(src string) bool {
	if strings.Contains(src, "::") {
		return true
	}
	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" || u.Scheme == "file" {
		return false
	}
	// Single-letter schemes are Windows drive letters.
	return len(u.Scheme) > 1
}

// Fetch makes the config at src available locally and returns its path.
// Local paths are returned unchanged; remote sources are downloaded into dir
// with go-getter, keeping the source's file name so Load can pick the format.
func Fetch(ctx context.Context, src, dir string) (string, error) {
	if !IsRemote(src) {
		return src, nil
	}

	name := remoteFileName(src)
	if name == "" {
		return "", fmt.Errorf("fetch config %s: cannot determine file name", src)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}

	dst := filepath.Join(dir, name)
	if err := get.GetFile(dst, src, get.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("fetch config %s: %w", src, err)
	}
	return dst, nil
}

// remoteFileName extracts the last path element of src, ignoring any forced
// getter prefix, subdirectory selector and query string.
func remoteFileName(src string) string {
	if i := strings.Index(src, "::"); i >= 0 {
		src = src[i+2:]
	}
	if i := strings.Index(src, "?"); i >= 0 {
		src = src[:i]
	}
	if u, err := url.Parse(src); err == nil && u.Path != "" {
		src = u.Path
	}
	// "repo.git//configs/grid.toml" selects a file inside a fetched tree.
	if i := strings.LastIndex(src, "//"); i >= 0 {
		src = src[i+2:]
	}
	name := path.Base(src)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
