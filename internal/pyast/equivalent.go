package pyast

import (
	"fmt"
	"iter"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Equivalent reports whether two trees render to the same canonical stream.
func Equivalent(a, b *Node) bool {
	return equalSeq(Stringify(a), Stringify(b))
}

func equalSeq(a, b iter.Seq[string]) bool {
	nextA, stopA := iter.Pull(a)
	defer stopA()
	nextB, stopB := iter.Pull(b)
	defer stopB()
	for {
		la, okA := nextA()
		lb, okB := nextB()
		if okA != okB || la != lb {
			return false
		}
		if !okA {
			return true
		}
	}
}

// SafetyError reports that formatting changed the meaning of the code, or
// produced code that does not parse.
type SafetyError struct {
	Msg string
	// Src and Dst are the canonical streams; empty when Dst did not parse.
	Src, Dst []string
	Diff     string
	Err      error
}

func (e *SafetyError) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Diff != "" {
		b.WriteString("\n")
		b.WriteString(e.Diff)
	}
	return b.String()
}

func (e *SafetyError) Unwrap() error { return e.Err }

// Compare returns a *SafetyError with a unified diff of the canonical
// streams when src and dst differ.
func Compare(src, dst *Node) error {
	if Equivalent(src, dst) {
		return nil
	}
	a, b := Lines(src), Lines(dst)
	return &SafetyError{
		Msg:  "produced code that is not equivalent to the source",
		Src:  a,
		Dst:  b,
		Diff: unifiedDiff(a, b),
	}
}

// InvalidOutput wraps the failure to parse formatted code.
func InvalidOutput(err error) *SafetyError {
	return &SafetyError{Msg: "produced invalid code", Err: err}
}

func unifiedDiff(a, b []string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        withNewlines(a),
		B:        withNewlines(b),
		FromFile: "src",
		ToFile:   "dst",
		Context:  3,
	})
	if err != nil {
		return fmt.Sprintf("diff unavailable: %v", err)
	}
	return diff
}

func withNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
