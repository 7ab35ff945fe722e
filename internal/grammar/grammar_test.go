package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pyfmt/internal/mode"
)

func TestForTargets(t *testing.T) {
	tests := []struct {
		name    string
		targets []mode.TargetVersion
		want    []*Grammar
	}{
		{"no targets", nil, []*Grammar{AsyncKeywords, Classic, SoftKeywords}},
		{"py36 only", []mode.TargetVersion{mode.PY36}, []*Grammar{Classic}},
		{"py37 and py38", []mode.TargetVersion{mode.PY37, mode.PY38}, []*Grammar{AsyncKeywords}},
		{"mixed 36 and 38", []mode.TargetVersion{mode.PY36, mode.PY38}, []*Grammar{AsyncKeywords, Classic}},
		{"py310 and later", []mode.TargetVersion{mode.PY310, mode.PY311}, []*Grammar{SoftKeywords}},
		{"py39 and py310", []mode.TargetVersion{mode.PY39, mode.PY310}, []*Grammar{AsyncKeywords}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForTargets(tt.targets))
		})
	}
}

func TestVersionOrder(t *testing.T) {
	assert.True(t, Classic.Version.Less(AsyncKeywords.Version))
	assert.True(t, AsyncKeywords.Version.Less(SoftKeywords.Version))
	assert.False(t, SoftKeywords.Version.Less(SoftKeywords.Version))
	assert.Equal(t, "3.10", SoftKeywords.Version.String())
}
