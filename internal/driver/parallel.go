package driver

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"pyfmt/internal/trace"
)

// FormatPaths formats provided files or directories (recursively collecting
// *.py and *.pyi files) in parallel. When opts.Check is true, files are not
// modified; Changed indicates whether formatting would update the file. When
// opts.Stdout or opts.Diff is set, output is returned in the results without
// touching files on disk.
//
// Per-file failures are reported in FormatResult.Err; the returned error is
// only set for discovery failures and cancellation.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "fmt")

	exclude := opts.Exclude
	if exclude == nil {
		exclude = DefaultExclude
	}
	var files []string
	err := opts.time("discover", func() (err error) {
		files, err = CollectSourceFiles(ctx, paths, exclude)
		return err
	})
	if err != nil {
		span.End("error")
		return nil, err
	}
	if len(files) == 0 {
		span.End("no files")
		return nil, ErrNoSourceFiles
	}
	results, err := FormatFiles(ctx, files, opts)
	span.End(Summarize(results, opts.Check || opts.Diff).String())
	return results, err
}

// FormatFiles formats exactly the given files, without discovery.
func FormatFiles(ctx context.Context, files []string, opts FormatOptions) ([]FormatResult, error) {
	for _, path := range files {
		emit(opts.Sink, Event{File: path, Status: StatusQueued})
	}

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FormatResult, len(files))
	for i, path := range files {
		results[i].Path = path
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i, path := range files {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = formatFile(gctx, path, &opts)
			return nil
		})
	}
	return results, g.Wait()
}

// Summary counts outcomes of a run.
type Summary struct {
	Changed   int
	Unchanged int
	Failed    int
	// CheckOnly switches the wording to "would be reformatted".
	CheckOnly bool
}

// Summarize counts results. Cached files are unchanged.
func Summarize(results []FormatResult, checkOnly bool) Summary {
	s := Summary{CheckOnly: checkOnly}
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Changed:
			s.Changed++
		default:
			s.Unchanged++
		}
	}
	return s
}

// ReturnCode is 123 on failures, 1 when a check run found files to change.
func (s Summary) ReturnCode() int {
	switch {
	case s.Failed > 0:
		return 123
	case s.CheckOnly && s.Changed > 0:
		return 1
	}
	return 0
}

func (s Summary) String() string {
	var parts []string
	if s.Changed > 0 {
		verb := "reformatted"
		if s.CheckOnly {
			verb = "would be reformatted"
		}
		parts = append(parts, fmt.Sprintf("%s %s", plural(s.Changed, "file"), verb))
	}
	if s.Unchanged > 0 {
		verb := "left unchanged"
		if s.CheckOnly {
			verb = "would be left unchanged"
		}
		parts = append(parts, fmt.Sprintf("%s %s", plural(s.Unchanged, "file"), verb))
	}
	if s.Failed > 0 {
		verb := "failed to reformat"
		if s.CheckOnly {
			verb = "would fail to reformat"
		}
		parts = append(parts, fmt.Sprintf("%s %s", plural(s.Failed, "file"), verb))
	}
	if len(parts) == 0 {
		return "No files processed."
	}
	return strings.Join(parts, ", ") + "."
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
