// Package grammar defines the grammar variants the concrete parser can run
// with and the policy that picks which of them to try for a set of targets.
package grammar

import (
	"fmt"

	"pyfmt/internal/mode"
)

// Version is the Python release a variant was introduced for.
type Version struct {
	Major, Minor int
}

// Less orders versions.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Grammar is one parser configuration.
type Grammar struct {
	Name    string
	Version Version
	// AsyncKeywords: async/await are reserved everywhere.
	AsyncKeywords bool
	// SoftKeywords: match/case statements are recognised.
	SoftKeywords bool
}

func (g *Grammar) String() string {
	return fmt.Sprintf("%s (%s)", g.Name, g.Version)
}

var (
	// Classic treats async/await as identifiers outside async functions.
	Classic = &Grammar{Name: "classic", Version: Version{3, 0}}
	// AsyncKeywords reserves async/await (3.7+).
	AsyncKeywords = &Grammar{Name: "async-keywords", Version: Version{3, 7}, AsyncKeywords: true}
	// SoftKeywords adds match statements on top of async keywords (3.10+).
	SoftKeywords = &Grammar{Name: "soft-keywords", Version: Version{3, 10}, AsyncKeywords: true, SoftKeywords: true}
)

// ForTargets returns the variants to try, in order.
//
// With no targets all three are tried: async-keywords, classic, soft-keywords.
// Otherwise async-keywords is tried when the targets need neither async
// identifiers nor pattern matching, classic unless they need async keywords,
// and soft-keywords when they need pattern matching.
func ForTargets(targets []mode.TargetVersion) []*Grammar {
	if len(targets) == 0 {
		return []*Grammar{AsyncKeywords, Classic, SoftKeywords}
	}
	asyncIdents := mode.SupportsFeature(targets, mode.AsyncIdentifiers)
	patterns := mode.SupportsFeature(targets, mode.PatternMatching)

	var out []*Grammar
	if !asyncIdents && !patterns {
		out = append(out, AsyncKeywords)
	}
	if !mode.SupportsFeature(targets, mode.AsyncKeywords) {
		out = append(out, Classic)
	}
	if patterns {
		out = append(out, SoftKeywords)
	}
	return out
}
