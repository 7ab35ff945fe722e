package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyfmt/internal/diag"
	"pyfmt/internal/driver"
	"pyfmt/internal/format"
	"pyfmt/internal/mode"
	"pyfmt/internal/observ"
	"pyfmt/internal/parser"
	"pyfmt/internal/pyast"
	"pyfmt/internal/source"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func sampleTree(t *testing.T) string {
	return writeTree(t, map[string]string{
		"a.py":             "x = (1)\n",
		"b.pyi":            "y = 0XFF\n",
		"sub/c.py":         "z = 1\n",
		".venv/d.py":       "w = (1)\n",
		"notes.txt":        "not python\n",
		"__pycache__/e.py": "v = (1)\n",
	})
}

func TestAssertEquivalent(t *testing.T) {
	assert.NoError(t, driver.AssertEquivalent("x = (1)\n", "x = 1\n"))
	assert.NoError(t, driver.AssertEquivalent("x = 0XFF\n", "x = 0xFF\n"))

	err := driver.AssertEquivalent("x = 1\n", "x = 2\n")
	var safety *pyast.SafetyError
	require.ErrorAs(t, err, &safety)
	assert.NotEmpty(t, safety.Diff)
	assert.NotEqual(t, safety.Src, safety.Dst)

	err = driver.AssertEquivalent("x = 1\n", "x = (\n")
	require.ErrorAs(t, err, &safety)
	assert.Error(t, safety.Err)
	assert.Empty(t, safety.Diff)

	err = driver.AssertEquivalent("x = (\n", "x = 1\n")
	require.Error(t, err)
	assert.False(t, errors.As(err, &safety))
	var syn *pyast.SyntaxError
	assert.ErrorAs(t, err, &syn)
}

func TestAssertStable(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, driver.AssertStable(ctx, "x = (1)\n", "x = 1\n", format.Options{}))
	assert.NoError(t, driver.AssertStable(ctx, "x = (1)\n", "x = (1)\n", format.Options{}))

	err := driver.AssertStable(ctx, "x = ((1))\n", "x = (1)\n", format.Options{})
	require.ErrorIs(t, err, driver.ErrUnstable)
	assert.Contains(t, err.Error(), "+x = 1")
}

func TestCollectSourceFiles(t *testing.T) {
	dir := sampleTree(t)
	files, err := driver.CollectSourceFiles(context.Background(), []string{dir}, driver.DefaultExclude)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.py"),
		filepath.Join(dir, "b.pyi"),
		filepath.Join(dir, "sub", "c.py"),
	}, files)

	explicit := filepath.Join(dir, "notes.txt")
	files, err = driver.CollectSourceFiles(context.Background(), []string{explicit, explicit}, driver.DefaultExclude)
	require.NoError(t, err)
	assert.Equal(t, []string{explicit}, files)

	_, err = driver.CollectSourceFiles(context.Background(), []string{filepath.Join(dir, "missing")}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatPathsWrites(t *testing.T) {
	dir := sampleTree(t)
	timer := observ.NewTimer()
	results, err := driver.FormatPaths(context.Background(), []string{dir}, driver.FormatOptions{Jobs: 2, Timer: timer})
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, r := range results {
		require.NoError(t, r.Err, r.Path)
	}
	assert.True(t, results[0].Changed)
	assert.True(t, results[1].Changed)
	assert.False(t, results[2].Changed)
	assert.Equal(t, "x = 1\n", readFile(t, filepath.Join(dir, "a.py")))
	assert.Equal(t, "y = 0xFF\n", readFile(t, filepath.Join(dir, "b.pyi")))
	assert.Equal(t, "w = (1)\n", readFile(t, filepath.Join(dir, ".venv", "d.py")))

	s := driver.Summarize(results, false)
	assert.Equal(t, "2 files reformatted, 1 file left unchanged.", s.String())
	assert.Equal(t, 0, s.ReturnCode())

	var names []string
	for _, p := range timer.Report().Phases {
		names = append(names, p.Name)
	}
	assert.Subset(t, names, []string{"discover", "read", "format", "verify", "write"})
}

func TestFormatPathsCheckAndDiff(t *testing.T) {
	dir := sampleTree(t)
	results, err := driver.FormatPaths(context.Background(), []string{dir}, driver.FormatOptions{Check: true})
	require.NoError(t, err)
	assert.True(t, results[0].Changed)
	assert.Equal(t, "x = (1)\n", readFile(t, filepath.Join(dir, "a.py")))

	s := driver.Summarize(results, true)
	assert.Equal(t, "2 files would be reformatted, 1 file would be left unchanged.", s.String())
	assert.Equal(t, 1, s.ReturnCode())

	results, err = driver.FormatPaths(context.Background(), []string{filepath.Join(dir, "a.py")}, driver.FormatOptions{Diff: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Diff, "-x = (1)\n")
	assert.Contains(t, results[0].Diff, "+x = 1\n")
	assert.Equal(t, "x = (1)\n", readFile(t, filepath.Join(dir, "a.py")))
}

func TestFormatPathsStdoutKeepsLineEndings(t *testing.T) {
	dir := writeTree(t, map[string]string{"crlf.py": "\xEF\xBB\xBFx = (1)\r\ny = 2\r\n"})
	results, err := driver.FormatPaths(context.Background(), []string{dir}, driver.FormatOptions{Stdout: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Changed)
	assert.Equal(t, "\xEF\xBB\xBFx = 1\r\ny = 2\r\n", string(results[0].Formatted))
}

func TestFormatPathsReportsFailures(t *testing.T) {
	dir := writeTree(t, map[string]string{"bad.py": "x = 1\ndef f(:\n    pass\n", "ok.py": "x = 1\n"})
	results, err := driver.FormatPaths(context.Background(), []string{dir}, driver.FormatOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	bad := results[0]
	var inv *parser.InvalidInput
	require.ErrorAs(t, bad.Err, &inv)
	require.Equal(t, 1, bad.Bag.Len())
	assert.Equal(t, diag.SynCannotParse, bad.Bag.Items()[0].Code)
	assert.NoError(t, results[1].Err)

	s := driver.Summarize(results, false)
	assert.Equal(t, "1 file left unchanged, 1 file failed to reformat.", s.String())
	assert.Equal(t, 123, s.ReturnCode())

	_, err = driver.FormatPaths(context.Background(), []string{writeTree(t, map[string]string{"x.txt": ""})}, driver.FormatOptions{})
	assert.ErrorIs(t, err, driver.ErrNoSourceFiles)
}

func TestFormatPathsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := driver.FormatPaths(ctx, []string{t.TempDir()}, driver.FormatOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatPathsUsesCache(t *testing.T) {
	dir := sampleTree(t)
	cache, err := driver.NewDiskCache(t.TempDir())
	require.NoError(t, err)
	opts := driver.FormatOptions{Cache: cache}

	results, err := driver.FormatPaths(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	for _, r := range results {
		assert.False(t, r.Cached, r.Path)
	}

	results, err = driver.FormatPaths(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	for _, r := range results {
		assert.True(t, r.Cached, r.Path)
		assert.False(t, r.Changed, r.Path)
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = (2)\n"), 0o644))
	results, err = driver.FormatPaths(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	assert.False(t, results[0].Cached)
	assert.True(t, results[0].Changed)
	assert.True(t, results[1].Cached)

	require.NoError(t, cache.DropAll())
	results, err = driver.FormatPaths(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	assert.False(t, results[2].Cached)
}

func TestFormatPathsEmitsEvents(t *testing.T) {
	dir := sampleTree(t)
	var (
		mu     sync.Mutex
		events []driver.Event
	)
	sink := driver.SinkFunc(func(ev driver.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	})
	_, err := driver.FormatPaths(context.Background(), []string{dir}, driver.FormatOptions{Sink: sink, Jobs: 1})
	require.NoError(t, err)

	final := make(map[string]driver.Event)
	queued := 0
	for _, ev := range events {
		switch ev.Status {
		case driver.StatusQueued:
			queued++
		case driver.StatusDone, driver.StatusError, driver.StatusCached:
			final[filepath.Base(ev.File)] = ev
		}
	}
	assert.Equal(t, 3, queued)
	require.Len(t, final, 3)
	assert.Equal(t, driver.StageWrite, final["a.py"].Stage)
	assert.True(t, final["a.py"].Changed)
	assert.Equal(t, driver.StageFormat, final["c.py"].Stage)
	assert.Equal(t, driver.StatusDone, final["c.py"].Status)
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := driver.NewDiskCache(filepath.Join(t.TempDir(), "pyfmt"))
	require.NoError(t, err)

	key := driver.CacheKey(driver.ContentDigest([]byte("x = 1\n")), format.Options{})
	var entry driver.CacheEntry
	found, err := cache.Get(key, &entry)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Put(key, &driver.CacheEntry{Path: "a.py", Size: 6, Lines: 1, Targets: []string{"py38"}}))
	found, err = cache.Get(key, &entry)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "a.py", entry.Path)
	assert.Equal(t, int64(6), entry.Size)
	assert.Equal(t, []string{"py38"}, entry.Targets)

	var nilCache *driver.DiskCache
	assert.NoError(t, nilCache.Put(key, &entry))
	found, err = nilCache.Get(key, &entry)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestCacheKeyDependsOnMode(t *testing.T) {
	content := driver.ContentDigest([]byte("x = 1\n"))
	base := driver.CacheKey(content, format.Options{})
	assert.Equal(t, base, driver.CacheKey(content, format.Options{Path: "other.py"}))
	assert.NotEqual(t, base, driver.CacheKey(content, format.Options{SkipStringNormalization: true}))
	assert.NotEqual(t, base, driver.CacheKey(content, format.Options{TargetVersions: []mode.TargetVersion{mode.PY38}}))
	assert.NotEqual(t, base, driver.CacheKey(driver.ContentDigest([]byte("x = 2\n")), format.Options{}))
	assert.False(t, base.IsZero())
	assert.Len(t, base.String(), 64)
}

func TestDiagnoseInvalidInput(t *testing.T) {
	src := "x = 1\ndef f(:\n    pass\n"
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("bad.py", []byte(src)))

	_, err := parser.Parse(src, nil, parser.Options{})
	require.Error(t, err)
	d := driver.Diagnose(file, err)
	assert.Equal(t, diag.SynCannotParse, d.Code)
	assert.Equal(t, diag.SevError, d.Severity)
	assert.Equal(t, uint32(12), d.Primary.Start)
	assert.Equal(t, uint32(13), d.Primary.End)
	assert.NotEmpty(t, d.Notes)

	_, err = parser.Parse("x = (1,\n", nil, parser.Options{})
	require.Error(t, err)
	assert.Equal(t, diag.LexEOFInStatement, driver.Diagnose(nil, err).Code)

	err = driver.AssertEquivalent("x = 1\n", "x = 2\n")
	assert.Equal(t, diag.VerNotEquivalent, driver.Diagnose(file, err).Code)
	err = driver.AssertStable(context.Background(), "x = ((1))\n", "x = (1)\n", format.Options{})
	assert.Equal(t, diag.VerUnstable, driver.Diagnose(file, err).Code)

	_, err = os.ReadFile(filepath.Join(t.TempDir(), "missing.py"))
	assert.Equal(t, diag.IOLoadFailed, driver.Diagnose(nil, err).Code)
}

func TestParseAndTokenize(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.py": "print(f'{x}')\n", "bad.py": "def f(:\n"})

	res, err := driver.Parse(filepath.Join(dir, "a.py"), nil, 16)
	require.NoError(t, err)
	require.NotNil(t, res.Tree)
	assert.Equal(t, "print(f'{x}')\n", res.Tree.String())
	assert.True(t, slices.Contains(res.Features, mode.FStrings))
	assert.NotContains(t, res.Targets, mode.PY33)

	res, err = driver.Parse(filepath.Join(dir, "bad.py"), nil, 16)
	require.NoError(t, err)
	assert.Nil(t, res.Tree)
	assert.True(t, res.Bag.HasErrors())

	_, err = driver.Parse(filepath.Join(dir, "missing.py"), nil, 16)
	assert.Error(t, err)

	tok, err := driver.Tokenize(filepath.Join(dir, "a.py"), 16, false)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Tokens)
	assert.Equal(t, 0, tok.Bag.Len())
}

func TestTimingDiagnostic(t *testing.T) {
	timer := observ.NewTimer()
	require.NoError(t, timer.Time("format", func() error { return nil }))
	d := driver.TimingDiagnostic("fmt", "", 3, timer.Report())
	assert.Equal(t, diag.ObsTimings, d.Code)
	assert.Equal(t, diag.SevInfo, d.Severity)
	assert.Contains(t, d.Message, "timings (fmt)")
	require.Len(t, d.Notes, 1)
	assert.Contains(t, d.Notes[0].Msg, `"kind":"fmt"`)
	assert.Contains(t, d.Notes[0].Msg, `"files":3`)
}
