package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyfmt/internal/source"
)

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}

	r.Report(SynCannotParse, SevError, source.Span{File: 1, Start: 10, End: 12}, "late", nil)
	ReportWarning(r, LexBadEscape, source.Span{File: 1, Start: 2, End: 3}, "early").
		WithNote(source.Span{File: 1, Start: 0, End: 1}, "here").
		Emit()
	r.Report(SynUnexpectedToken, SevError, source.Span{File: 1}, "dropped", nil)

	require.Equal(t, 2, bag.Len())
	assert.True(t, bag.HasErrors())

	bag.Sort()
	items := bag.Items()
	assert.Equal(t, "early", items[0].Message)
	assert.Len(t, items[0].Notes, 1)
	assert.Equal(t, "late", items[1].Message)
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 1, Start: 4, End: 5}
	for range 3 {
		r.Report(LexUnknownChar, SevError, sp, "unexpected character '$'", nil)
	}
	r.Report(LexUnknownChar, SevError, sp, "unexpected character '?'", nil)
	assert.Equal(t, 2, bag.Len())
}

func TestCodeIDs(t *testing.T) {
	assert.Equal(t, "LEX1002", LexUnterminatedString.ID())
	assert.Equal(t, "BRK3001", BrkUnmatched.ID())
	assert.Equal(t, "VER4001", VerNotEquivalent.ID())
	assert.Equal(t, "E0000", UnknownCode.ID())
	assert.Equal(t, "Unknown error", Code(9999).Title())
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportError(BagReporter{Bag: bag}, VerUnstable, source.Span{}, "second pass changed output")
	b.Emit()
	b.Emit()
	assert.Equal(t, 1, bag.Len())
	assert.Equal(t, SevError, b.Diagnostic().Severity)
}
