package diagfmt

import (
	"os"
	"path/filepath"
	"strings"
)

// autoPathLimit — длиннее этого auto-режим показывает только имя файла.
const autoPathLimit = 48

func formatPath(path string, mode PathMode, base string) string {
	if path == "" || strings.HasPrefix(path, "<") {
		return path
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
		return path
	case PathModeRelative:
		return relativePath(path, base)
	case PathModeBasename:
		return filepath.Base(path)
	}
	if !filepath.IsAbs(path) && len(path) <= autoPathLimit {
		return path
	}
	if rel := relativePath(path, base); !strings.HasPrefix(rel, "..") && len(rel) <= autoPathLimit {
		return rel
	}
	return filepath.Base(path)
}

func relativePath(path, base string) string {
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return path
		}
		base = wd
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
