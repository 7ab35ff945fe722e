package driver

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"pyfmt/internal/diag"
	"pyfmt/internal/format"
	"pyfmt/internal/observ"
	"pyfmt/internal/source"
	"pyfmt/internal/trace"
)

// ErrNoSourceFiles is returned when the given paths contain no Python files.
var ErrNoSourceFiles = errors.New("format: no python files found")

// DefaultExclude matches directories skipped during discovery.
var DefaultExclude = regexp.MustCompile(`(^|/)(\.direnv|\.eggs|\.git|\.hg|\.ipynb_checkpoints|\.mypy_cache|\.nox|\.pytest_cache|\.ruff_cache|\.tox|\.svn|\.venv|\.vscode|__pycache__|__pypackages__|_build|buck-out|build|dist|venv)(/|$)`)

// FormatOptions configures code formatting.
type FormatOptions struct {
	// Check reports files that would change without writing them.
	Check bool
	// Diff fills FormatResult.Diff instead of writing.
	Diff bool
	// Stdout fills FormatResult.Formatted instead of writing.
	Stdout bool
	// Fast skips the equivalence and stability checks.
	Fast bool
	// Jobs limits concurrently formatted files; <= 0 means GOMAXPROCS.
	Jobs           int
	MaxDiagnostics int
	Options        format.Options
	// Exclude overrides DefaultExclude for directory walks.
	Exclude *regexp.Regexp
	Cache   *DiskCache
	Sink    ProgressSink
	// Timer, when set, collects read/format/verify/write phases of all files.
	Timer *observ.Timer
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path      string
	Changed   bool
	Cached    bool
	Err       error
	Formatted []byte
	Diff      string
	Bag       *diag.Bag
	// FileSet holds the loaded file that Bag spans point into.
	FileSet *source.FileSet
	Elapsed time.Duration
	// Lines is the number of logical lines; zero for cached files.
	Lines int
}

func (o *FormatOptions) time(name string, fn func() error) error {
	if o.Timer == nil {
		return fn()
	}
	return o.Timer.Time(name, fn)
}

func (o *FormatOptions) useCache() bool {
	return o.Cache != nil && !o.Diff && !o.Stdout
}

func (o *FormatOptions) writes() bool {
	return !o.Check && !o.Diff && !o.Stdout
}

// formatFile runs one file through read, format, verify and write.
func formatFile(ctx context.Context, path string, opts *FormatOptions) (res FormatResult) {
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 64
	}
	res = FormatResult{Path: path, Bag: diag.NewBag(maxDiag)}
	started := time.Now()
	stage := StageRead
	ctx, span := trace.Start(ctx, trace.ScopeFile, path)
	defer func() {
		res.Elapsed = time.Since(started)
		ev := Event{File: path, Stage: stage, Status: StatusDone, Changed: res.Changed, Elapsed: res.Elapsed}
		detail := "unchanged"
		switch {
		case res.Err != nil:
			ev.Status, ev.Err, detail = StatusError, res.Err, "error"
		case res.Cached:
			ev.Status, detail = StatusCached, "cached"
		case res.Changed:
			detail = "changed"
		}
		span.End(detail)
		emit(opts.Sink, ev)
	}()

	var file *source.File
	fail := func(err error) FormatResult {
		res.Err = err
		res.Bag.Add(Diagnose(file, err))
		return res
	}

	emit(opts.Sink, Event{File: path, Stage: StageRead, Status: StatusWorking})
	err := opts.time("read", func() error {
		fset := source.NewFileSet()
		id, err := fset.Load(path)
		if err != nil {
			return err
		}
		res.FileSet = fset
		file = fset.Get(id)
		return nil
	})
	if err != nil {
		return fail(err)
	}

	src := string(file.Content)
	key := CacheKey(file.Hash, opts.Options)
	if opts.useCache() {
		var entry CacheEntry
		found, err := opts.Cache.Get(key, &entry)
		if err != nil {
			res.Bag.Add(cacheWarning(err))
		} else if found && (!entry.Fast || opts.Fast) {
			res.Cached = true
			if opts.Stdout {
				res.Formatted = file.Content
			}
			return res
		}
	}

	fopts := opts.Options
	fopts.Path = path
	stage = StageFormat
	emit(opts.Sink, Event{File: path, Stage: stage, Status: StatusWorking})
	var out *format.Result
	err = opts.time("format", func() (err error) {
		out, err = format.Format(ctx, src, fopts)
		return err
	})
	if err != nil {
		return fail(err)
	}
	res.Changed = out.Changed
	res.Lines = out.Lines
	dst := out.Output

	if out.Changed && !opts.Fast {
		stage = StageVerify
		emit(opts.Sink, Event{File: path, Stage: stage, Status: StatusWorking})
		err = opts.time("verify", func() error {
			if err := AssertEquivalent(src, dst); err != nil {
				return err
			}
			return AssertStable(ctx, src, dst, fopts)
		})
		if err != nil {
			return fail(err)
		}
	}

	stored := !out.Changed
	switch {
	case opts.Stdout:
		res.Formatted = restoreEncoding(file, dst)
	case opts.Diff:
		if out.Changed {
			res.Diff = textDiff(src, dst, path, path)
		}
	case opts.writes() && out.Changed:
		stage = StageWrite
		emit(opts.Sink, Event{File: path, Stage: stage, Status: StatusWorking})
		err = opts.time("write", func() error {
			return writeFile(path, restoreEncoding(file, dst))
		})
		if err != nil {
			res.Err = err
			d := Diagnose(file, err)
			d.Code = diag.IOWriteFailed
			res.Bag.Add(d)
			return res
		}
		stored = true
	}

	if stored && opts.useCache() {
		finalKey := key
		if out.Changed {
			finalKey = CacheKey(ContentDigest([]byte(dst)), opts.Options)
		}
		entry := &CacheEntry{Path: path, Size: int64(len(dst)), Lines: out.Lines, Fast: opts.Fast}
		for _, v := range out.Targets {
			entry.Targets = append(entry.Targets, v.String())
		}
		if err := opts.Cache.Put(finalKey, entry); err != nil {
			res.Bag.Add(cacheWarning(err))
		}
	}
	trace.Point(trace.FromContext(ctx), trace.ScopeFile, "lines", strconv.Itoa(out.Lines), trace.ParentSpan(ctx))
	return res
}

func cacheWarning(err error) diag.Diagnostic {
	return diag.Diagnostic{Severity: diag.SevWarning, Code: diag.IOCacheFailed, Message: err.Error()}
}

// restoreEncoding puts back the BOM and CRLF line endings stripped on load.
func restoreEncoding(file *source.File, text string) []byte {
	out := []byte(text)
	if file.Flags&source.FileNormalizedCRLF != 0 {
		out = source.RestoreCRLF(out)
	}
	if file.Flags&source.FileHadBOM != 0 {
		out = append([]byte{0xEF, 0xBB, 0xBF}, out...)
	}
	return out
}

func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	return os.WriteFile(path, data, mode.Perm())
}

// CollectSourceFiles expands directories into their *.py and *.pyi files,
// skipping directories matched by exclude. Files named explicitly are kept
// whatever their extension. The result is sorted and free of duplicates.
func CollectSourceFiles(ctx context.Context, paths []string, exclude *regexp.Regexp) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			addFile(filepath.Clean(p))
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				rel, relErr := filepath.Rel(p, path)
				if relErr == nil && rel != "." && exclude != nil && exclude.MatchString(filepath.ToSlash(rel)) {
					return filepath.SkipDir
				}
				return nil
			}
			if isPythonSource(path) {
				addFile(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func isPythonSource(path string) bool {
	switch filepath.Ext(path) {
	case ".py", ".pyi":
		return true
	}
	return false
}
