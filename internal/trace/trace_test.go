package trace_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyfmt/internal/trace"
)

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"off", "error", "phase", "detail", "debug"} {
		lvl, err := trace.ParseLevel(strings.ToUpper(name))
		require.NoError(t, err)
		assert.Equal(t, name, lvl.String())
	}
	_, err := trace.ParseLevel("loud")
	assert.Error(t, err)
}

func TestLevelFiltersScopes(t *testing.T) {
	assert.True(t, trace.LevelPhase.ShouldEmit(trace.ScopePass))
	assert.False(t, trace.LevelPhase.ShouldEmit(trace.ScopeFile))
	assert.True(t, trace.LevelDetail.ShouldEmit(trace.ScopeFile))
	assert.False(t, trace.LevelDetail.ShouldEmit(trace.ScopeLine))
	assert.True(t, trace.LevelDebug.ShouldEmit(trace.ScopeLine))
	assert.False(t, trace.LevelError.ShouldEmit(trace.ScopeDriver))
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelDetail, trace.FormatNDJSON)

	root := trace.Begin(tr, trace.ScopeDriver, "fmt", 0)
	file := trace.Begin(tr, trace.ScopeFile, "file:a.py", root.ID())
	file.WithExtra("changed", "true").End("")
	trace.Begin(tr, trace.ScopeLine, "line", file.ID()).End("")
	root.End("1 file")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	var ev map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &ev))
	assert.Equal(t, "end", ev["kind"])
	assert.Equal(t, "file", ev["scope"])
	assert.Equal(t, "file:a.py", ev["name"])
	assert.Equal(t, map[string]any{"changed": "true"}, ev["extra"])
	assert.EqualValues(t, root.ID(), ev["parent_id"])
}

func TestTextFormat(t *testing.T) {
	out := string(trace.FormatEvent(&trace.Event{
		Time:   time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Kind:   trace.KindSpanEnd,
		Scope:  trace.ScopePass,
		Name:   "verify",
		Detail: "ok",
		Extra:  map[string]string{"b": "2", "a": "1"},
	}, trace.FormatText))
	assert.Equal(t, "10:00:00.000 pass     ← verify (ok) {a=1, b=2}\n", out)
}

func TestRingKeepsNewest(t *testing.T) {
	r := trace.NewRingTracer(3, trace.LevelDebug)
	for i := range 5 {
		r.Emit(&trace.Event{Seq: uint64(i), Scope: trace.ScopeLine})
	}
	snap := r.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, uint64(2), snap[0].Seq)
	assert.Equal(t, uint64(4), snap[2].Seq)

	var buf bytes.Buffer
	require.NoError(t, r.Dump(&buf, trace.FormatNDJSON))
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
}

func TestRingAtErrorLevelKeepsEverything(t *testing.T) {
	r := trace.NewRingTracer(8, trace.LevelError)
	r.Emit(&trace.Event{Scope: trace.ScopeLine})
	assert.Len(t, r.Snapshot(), 1)
}

func TestNewModes(t *testing.T) {
	tr, err := trace.New(trace.Config{Level: trace.LevelOff})
	require.NoError(t, err)
	assert.False(t, tr.Enabled())

	var buf bytes.Buffer
	tr, err = trace.New(trace.Config{Level: trace.LevelPhase, Mode: trace.ModeBoth, Output: &buf, OutputPath: "t.ndjson"})
	require.NoError(t, err)
	multi, ok := tr.(*trace.MultiTracer)
	require.True(t, ok)
	trace.Begin(tr, trace.ScopePass, "parse", 0).End("")
	assert.Len(t, multi.Ring().Snapshot(), 2)
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	require.NoError(t, tr.Close())

	_, err = trace.ParseMode("disk")
	assert.Error(t, err)
}

func TestContextSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelDebug, trace.FormatNDJSON)
	ctx := trace.WithTracer(context.Background(), tr)

	ctx, outer := trace.Start(ctx, trace.ScopeDriver, "fmt")
	_, inner := trace.Start(ctx, trace.ScopePass, "parse")
	assert.Equal(t, outer.ID(), trace.ParentSpan(ctx))
	inner.End("")
	outer.End("")

	assert.Equal(t, trace.Nop, trace.FromContext(context.Background()))
	assert.Equal(t, 4, strings.Count(buf.String(), "\n"))
}

func TestDisabledSpanIsSafe(t *testing.T) {
	s := trace.Begin(trace.Nop, trace.ScopeDriver, "x", 0)
	assert.Zero(t, s.ID())
	s.WithExtra("k", "v").End("")
	var nilSpan *trace.Span
	assert.Zero(t, nilSpan.End(""))
}

func TestHeartbeat(t *testing.T) {
	r := trace.NewRingTracer(64, trace.LevelPhase)
	h := trace.StartHeartbeat(r, time.Millisecond)
	require.NotNil(t, h)
	assert.Eventually(t, func() bool { return len(r.Snapshot()) > 0 }, time.Second, time.Millisecond)
	h.Stop()
	h.Stop()
	assert.Equal(t, trace.KindHeartbeat, r.Snapshot()[0].Kind)

	assert.Nil(t, trace.StartHeartbeat(trace.Nop, time.Second))
}
