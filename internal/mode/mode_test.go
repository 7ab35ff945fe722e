package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyfmt/internal/source"
)

func TestParseTargetVersion(t *testing.T) {
	for in, want := range map[string]TargetVersion{"py38": PY38, "PY310": PY310, "3.7": PY37, " py313 ": PY313} {
		got, err := ParseTargetVersion(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"py27", "3.99", "python", "py3x"} {
		_, err := ParseTargetVersion(bad)
		assert.Error(t, err, bad)
	}

	vs, err := ParseTargetVersions([]string{"py310", "py38", "3.8"})
	require.NoError(t, err)
	assert.Equal(t, []TargetVersion{PY38, PY310}, vs)
	assert.Equal(t, PY310, MaxVersion(vs))
	assert.Equal(t, "Python 3.10", PY310.Pretty())
	assert.Equal(t, "py39", PY39.String())
}

func TestSupportsFeature(t *testing.T) {
	assert.True(t, SupportsFeature([]TargetVersion{PY35, PY36}, AsyncIdentifiers))
	assert.False(t, SupportsFeature([]TargetVersion{PY36, PY37}, AsyncIdentifiers))
	assert.True(t, SupportsFeature([]TargetVersion{PY37, PY313}, AsyncKeywords))
	assert.False(t, SupportsFeature([]TargetVersion{PY39, PY310}, PatternMatching))
	assert.True(t, SupportsFeature([]TargetVersion{PY310}, PatternMatching))
	assert.True(t, SupportsFeature(nil, ExceptStar))
	assert.False(t, PY37.Supports(AsyncIdentifiers))
}

func TestInferTargetVersions(t *testing.T) {
	assert.Equal(t, AllVersions, InferTargetVersions(NewEvidence()))

	e := NewEvidence()
	e.Add(AssignmentExpressions, source.Span{Start: 3, End: 5})
	e.Add(FStrings, source.Span{Start: 10, End: 14})
	assert.Equal(t, []TargetVersion{PY38, PY39, PY310, PY311, PY312, PY313}, InferTargetVersions(e))
	assert.Equal(t, []Feature{FStrings, AssignmentExpressions}, e.Features())
	assert.Len(t, e.Hints(), 2)

	e.Add(AsyncIdentifiers, source.Span{})
	assert.Empty(t, InferTargetVersions(e))
}
