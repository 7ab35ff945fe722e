package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pyfmt/internal/driver"
	"pyfmt/internal/ui"
)

type formatOutcome struct {
	results []driver.FormatResult
	err     error
}

// runFormatWithUI discovers the files first so the progress view can list
// them, then formats them while the view consumes driver events.
func runFormatWithUI(ctx context.Context, paths []string, opts driver.FormatOptions) ([]driver.FormatResult, error) {
	exclude := opts.Exclude
	if exclude == nil {
		exclude = driver.DefaultExclude
	}
	files, err := driver.CollectSourceFiles(ctx, paths, exclude)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, driver.ErrNoSourceFiles
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan formatOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Sink = driver.ChannelSink{Ch: events}
		res, err := driver.FormatFiles(ctx, files, optsCopy)
		outcomeCh <- formatOutcome{results: res, err: err}
		close(events)
	}()

	title := "pyfmt fmt"
	if opts.Check {
		title = "pyfmt fmt --check"
	}
	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
