package mode

import (
	"pyfmt/internal/source"
)

// Hint records one use of a version-dependent feature in a file.
type Hint struct {
	Feature Feature
	Span    source.Span
}

// Evidence aggregates per-file hints collected while walking a tree.
type Evidence struct {
	hints []Hint
	seen  featureSet
}

// NewEvidence creates a new Evidence container.
func NewEvidence() *Evidence {
	return &Evidence{hints: make([]Hint, 0, 8)}
}

// Add appends a hint to the evidence collection.
func (e *Evidence) Add(f Feature, sp source.Span) {
	if e == nil {
		return
	}
	e.hints = append(e.hints, Hint{Feature: f, Span: sp})
	e.seen |= 1 << f
}

// Hints returns the collected hints in insertion order.
func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}

// Has reports whether the feature was observed at least once.
func (e *Evidence) Has(f Feature) bool {
	return e != nil && e.seen.has(f)
}

// Features returns the distinct observed features in ascending order.
func (e *Evidence) Features() []Feature {
	var out []Feature
	for f := range featureCount {
		if e.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// InferTargetVersions returns every version that supports all observed features.
func InferTargetVersions(e *Evidence) []TargetVersion {
	out := make([]TargetVersion, 0, len(AllVersions))
	for _, v := range AllVersions {
		if e == nil || versionFeatures[v]&e.seen == e.seen {
			out = append(out, v)
		}
	}
	return out
}
