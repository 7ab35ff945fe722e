package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pyfmt/internal/token"
)

func TestBracketPairs(t *testing.T) {
	for open, want := range map[token.Kind]token.Kind{
		token.LPar: token.RPar, token.LSqb: token.RSqb, token.LBrace: token.RBrace,
	} {
		assert.True(t, open.IsOpeningBracket(), "%v", open)
		assert.True(t, want.IsClosingBracket(), "%v", want)
		assert.Equal(t, want, token.ClosingFor(open))
	}
	assert.Equal(t, token.Invalid, token.ClosingFor(token.Name))
	assert.False(t, token.Comma.IsOpeningBracket())
	assert.False(t, token.LPar.IsClosingBracket())
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, "NAME", token.Name.String())
	assert.Equal(t, "STANDALONE_COMMENT", token.StandaloneComment.String())
	assert.Equal(t, "UNKNOWN", token.Kind(250).String())
}

func TestOperatorClasses(t *testing.T) {
	assert.True(t, token.PlusEqual.IsAugAssign())
	assert.True(t, token.RightShiftEqual.IsAugAssign())
	assert.False(t, token.Equal.IsAugAssign())
	assert.True(t, token.NotEqual.IsComparison())
	assert.False(t, token.RArrow.IsComparison())
}

func TestKeywords(t *testing.T) {
	assert.True(t, token.IsKeyword("lambda"))
	assert.False(t, token.IsKeyword("async"))
	assert.False(t, token.IsKeyword("match"))
	assert.True(t, token.IsSoftKeyword("match"))

	kw := token.Token{Kind: token.Name, Text: "None"}
	assert.True(t, kw.IsKeyword())
	assert.True(t, kw.IsOperand())
	assert.True(t, kw.Is("None"))
	assert.False(t, token.Token{Kind: token.Name, Text: "if"}.IsOperand())
}
