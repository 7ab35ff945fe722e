package pyast

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"pyfmt/internal/grammar"
	"pyfmt/internal/lexer"
	"pyfmt/internal/mode"
	"pyfmt/internal/parser"
	"pyfmt/internal/source"
)

// SyntaxError is an AST-mode parse failure for one feature version.
type SyntaxError struct {
	Msg    string
	Line   int
	Column int
	// Version and TypeComments identify the attempt that produced the error.
	Version      mode.TargetVersion
	TypeComments bool
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (<unknown>, line %d)", e.Msg, e.Line)
}

// Versions are tried newest first.
var parseVersions = func() []mode.TargetVersion {
	out := make([]mode.TargetVersion, 0, len(mode.AllVersions))
	for i := len(mode.AllVersions) - 1; i >= 0; i-- {
		out = append(out, mode.AllVersions[i])
	}
	return out
}()

var defaultCache = NewCache()

// Parse builds the AST of src with the shared cache. See Cache.Parse.
func Parse(src string) (*Node, error) {
	return defaultCache.Parse(src)
}

// Cache memoizes AST-mode parses by (source, version, type-comment flag).
// Entries are never evicted; concurrent requests for the same key parse once.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	group   singleflight.Group
}

type cacheKey struct {
	src          string
	minor        int
	typeComments bool
}

type cacheEntry struct {
	tree *Node
	err  error
}

func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]cacheEntry)}
}

// Len reports the number of memoized attempts.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Parse tries every feature version from the newest down, first with type
// comments and then without. The first success wins. When all attempts fail
// the last error of the type-comments pass (oldest version) is returned.
func (c *Cache) Parse(src string) (*Node, error) {
	var last error
	for _, tc := range []bool{true, false} {
		for _, v := range parseVersions {
			tree, err := c.ParseVersion(src, v, tc)
			if err == nil {
				return tree, nil
			}
			if tc {
				last = err
			}
		}
	}
	return nil, last
}

// ParseVersion parses src as one feature version. The returned tree is
// shared with other callers and must not be modified.
func (c *Cache) ParseVersion(src string, v mode.TargetVersion, typeComments bool) (*Node, error) {
	key := cacheKey{src: src, minor: v.Minor(), typeComments: typeComments}
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return e.tree, e.err
	}
	c.mu.Unlock()

	sfKey := fmt.Sprintf("%d/%t/%s", key.minor, key.typeComments, src)
	res, _, _ := c.group.Do(sfKey, func() (any, error) {
		tree, err := parseSingle(src, v, typeComments)
		e := cacheEntry{tree: tree, err: err}
		c.mu.Lock()
		c.entries[key] = e
		c.mu.Unlock()
		return e, nil
	})
	e := res.(cacheEntry)
	return e.tree, e.err
}

// grammarFor picks the concrete grammar a feature version is read with.
func grammarFor(v mode.TargetVersion) *grammar.Grammar {
	switch {
	case v.Minor() >= 10:
		return grammar.SoftKeywords
	case v.Minor() >= 7:
		return grammar.AsyncKeywords
	}
	return grammar.Classic
}

func normalizeNewlines(src string) string {
	if !strings.Contains(src, "\r") {
		return src
	}
	src = strings.ReplaceAll(src, "\r\n", "\n")
	return strings.ReplaceAll(src, "\r", "\n")
}

func parseSingle(src string, v mode.TargetVersion, typeComments bool) (*Node, error) {
	src = normalizeNewlines(src)
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("<unknown>", []byte(src)))
	tree, err := parser.ParseFile(file, grammarFor(v), parser.Options{Path: "<unknown>"})
	if err != nil {
		return nil, concreteError(err, v, typeComments)
	}
	return newBuilder(tree, file, v, typeComments).module()
}

func concreteError(err error, v mode.TargetVersion, typeComments bool) *SyntaxError {
	se := &SyntaxError{Msg: "invalid syntax", Line: 1, Version: v, TypeComments: typeComments}
	var (
		pe *parser.ParseError
		le *lexer.Error
	)
	switch {
	case errors.As(err, &pe):
		se.Line, se.Column = int(pe.Pos.Line), int(pe.Pos.Col)
	case errors.As(err, &le):
		se.Msg = le.Msg
		se.Line, se.Column = int(le.Pos.Line), int(le.Pos.Col)
	}
	return se
}
