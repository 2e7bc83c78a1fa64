// Package filex holds small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureParentDir creates the directory that will hold path, if missing.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// SQLitePath returns the filesystem path behind a SQLite DSN such as
// "data/microblog.db" or "file:data/microblog.db?_pragma=busy_timeout(5000)".
// ok is false for in-memory databases.
func SQLitePath(dsn string) (path string, ok bool) {
	p := strings.TrimPrefix(dsn, "file:")
	query := ""
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p, query = p[:i], p[i+1:]
	}
	if p == "" || p == ":memory:" || strings.Contains(query, "mode=memory") {
		return "", false
	}
	return p, true
}
