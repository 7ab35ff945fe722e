package testkit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyfmt/internal/parser"
	"pyfmt/internal/testkit"
)

func TestCheckTreeInvariants(t *testing.T) {
	for _, src := range []string{
		"x = 1\n",
		"x = 1",
		"def f(a, *, b=2):\n    # comment\n    return [a, b]\n",
		"async = 1\n",
	} {
		tree, err := parser.Parse(src, nil, parser.Options{})
		require.NoError(t, err, src)
		assert.NoError(t, testkit.CheckTreeInvariants(tree, src), src)
	}
}

func TestCheckTreeInvariantsDetectsEdits(t *testing.T) {
	tree, err := parser.Parse("x = 1\n", nil, parser.Options{})
	require.NoError(t, err)
	leaf := tree.FirstLeaf(tree.Root)
	tree.Node(leaf).Value = "y"
	assert.ErrorContains(t, testkit.CheckTreeInvariants(tree, "x = 1\n"), "round trip mismatch")

	assert.Error(t, testkit.CheckTreeInvariants(nil, ""))
}
