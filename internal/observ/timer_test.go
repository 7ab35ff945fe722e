package observ_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyfmt/internal/observ"
)

func TestReportMergesByName(t *testing.T) {
	tm := observ.NewTimer()
	tm.End(tm.Begin("parse"), "")
	tm.End(tm.Begin("format"), "")
	tm.End(tm.Begin("parse"), "")
	tm.End(42, "ignored")

	r := tm.Report()
	require.Len(t, r.Phases, 2)
	assert.Equal(t, "parse", r.Phases[0].Name)
	assert.Equal(t, 2, r.Phases[0].Count)
	assert.Equal(t, "format", r.Phases[1].Name)
	assert.GreaterOrEqual(t, r.TotalMS, r.Phases[0].DurationMS)
}

func TestTimeRecordsErrors(t *testing.T) {
	tm := observ.NewTimer()
	boom := errors.New("boom")
	assert.ErrorIs(t, tm.Time("verify", func() error { return boom }), boom)
	assert.NoError(t, tm.Time("format", func() error { return nil }))

	r := tm.Report()
	assert.Equal(t, "error", r.Phases[0].Note)
	assert.Empty(t, r.Phases[1].Note)
	assert.Contains(t, tm.Summary(), "verify")
	assert.Contains(t, tm.Summary(), "// error")
}

func TestConcurrentPhases(t *testing.T) {
	tm := observ.NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.End(tm.Begin("file"), "")
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, tm.Report().Phases[0].Count)
}

func TestEmptyReport(t *testing.T) {
	assert.Empty(t, observ.NewTimer().Report().Phases)
}
