package brackets

import (
	"errors"
	"fmt"

	"pyfmt/internal/cst"
	"pyfmt/internal/token"
)

// ErrNoDelimiters is returned by priority queries on a line without
// delimiters (after exclusions).
var ErrNoDelimiters = errors.New("no delimiters on the line")

// BracketMatchError means a closing bracket had no opener at the expected
// depth: the leaves handed to the tracker are not one valid logical line.
type BracketMatchError struct {
	Leaf  cst.NodeID
	Kind  token.Kind
	Value string
	Depth int
}

func (e *BracketMatchError) Error() string {
	return fmt.Sprintf("unable to match closing bracket %s %q at depth %d", e.Kind, e.Value, e.Depth)
}

type bracketKey struct {
	depth   int
	closing token.Kind
}

// Tracker keeps track of brackets on one logical line.
type Tracker struct {
	tree *cst.Tree

	Depth int
	// Delimiters maps depth-0 delimiter leaves to their split priority.
	Delimiters map[cst.NodeID]Priority
	Previous   cst.NodeID
	// Invisible lists empty-valued brackets in the order they were seen.
	Invisible []cst.NodeID

	bracketMatch         map[bracketKey]cst.NodeID
	forLoopDepths        []int
	lambdaArgumentDepths []int
}

func NewTracker(tree *cst.Tree) *Tracker {
	return &Tracker{
		tree:         tree,
		Delimiters:   make(map[cst.NodeID]Priority),
		bracketMatch: make(map[bracketKey]cst.NodeID),
	}
}

// Mark stamps leaf with bracket metadata and records depth-0 delimiters.
// For/lambda pseudo-depth is not applied here; see Track.
func (t *Tracker) Mark(leaf cst.NodeID) error {
	tree := t.tree
	kind := tree.Kind(leaf)
	if kind == token.Comment {
		return nil
	}
	if t.Depth == 0 && kind.IsClosingBracket() {
		if _, ok := t.bracketMatch[bracketKey{t.Depth, kind}]; !ok {
			// закрывающая скобка из внешнего, не отслеживаемого контекста
			return nil
		}
	}

	if kind.IsClosingBracket() {
		t.Depth--
		key := bracketKey{t.Depth, kind}
		opening, ok := t.bracketMatch[key]
		if !ok {
			return &BracketMatchError{Leaf: leaf, Kind: kind, Value: tree.Value(leaf), Depth: t.Depth}
		}
		delete(t.bracketMatch, key)
		tree.SetOpeningBracket(leaf, opening)
		if tree.Value(leaf) == "" {
			t.Invisible = append(t.Invisible, leaf)
		}
	}

	tree.SetBracketDepth(leaf, t.Depth)
	if t.Depth == 0 {
		if p := IsSplitBeforeDelimiter(tree, leaf, t.Previous); p != NoPriority && t.Previous.IsValid() {
			t.Delimiters[t.Previous] = p
		} else if p := IsSplitAfterDelimiter(tree, leaf); p != NoPriority {
			t.Delimiters[leaf] = p
		}
	}

	if kind.IsOpeningBracket() {
		t.bracketMatch[bracketKey{t.Depth, token.ClosingFor(kind)}] = leaf
		t.Depth++
		if tree.Value(leaf) == "" {
			t.Invisible = append(t.Invisible, leaf)
		}
	}
	t.Previous = leaf
	return nil
}

// Track is Mark wrapped in the for/lambda pseudo-depth bookkeeping: the
// closing 'in' or ':' is un-shifted before marking, an opening 'for' or
// 'lambda' is shifted after.
func (t *Tracker) Track(leaf cst.NodeID) error {
	t.MaybeDecrementAfterForLoopVariable(leaf)
	t.MaybeDecrementAfterLambdaArguments(leaf)
	if err := t.Mark(leaf); err != nil {
		return err
	}
	t.MaybeIncrementLambdaArguments(leaf)
	t.MaybeIncrementForLoopVariable(leaf)
	return nil
}

// MaybeIncrementForLoopVariable shields the targets between 'for' and 'in':
// they are often tuples whose commas are not split points.
func (t *Tracker) MaybeIncrementForLoopVariable(leaf cst.NodeID) bool {
	if t.tree.IsName(leaf, "for") {
		t.Depth++
		t.forLoopDepths = append(t.forLoopDepths, t.Depth)
		return true
	}
	return false
}

func (t *Tracker) MaybeDecrementAfterForLoopVariable(leaf cst.NodeID) bool {
	n := len(t.forLoopDepths)
	if n > 0 && t.forLoopDepths[n-1] == t.Depth && t.tree.IsName(leaf, "in") {
		t.Depth--
		t.forLoopDepths = t.forLoopDepths[:n-1]
		return true
	}
	return false
}

// MaybeIncrementLambdaArguments shields lambda parameters up to the ':'.
func (t *Tracker) MaybeIncrementLambdaArguments(leaf cst.NodeID) bool {
	if t.tree.IsName(leaf, "lambda") {
		t.Depth++
		t.lambdaArgumentDepths = append(t.lambdaArgumentDepths, t.Depth)
		return true
	}
	return false
}

func (t *Tracker) MaybeDecrementAfterLambdaArguments(leaf cst.NodeID) bool {
	n := len(t.lambdaArgumentDepths)
	if n > 0 && t.lambdaArgumentDepths[n-1] == t.Depth && t.tree.Kind(leaf) == token.Colon {
		t.Depth--
		t.lambdaArgumentDepths = t.lambdaArgumentDepths[:n-1]
		return true
	}
	return false
}

// AnyOpenBrackets reports an unmatched opening bracket on the line.
func (t *Tracker) AnyOpenBrackets() bool {
	return len(t.bracketMatch) > 0
}

// AnyOpenForOrLambda reports a 'for' without its 'in' or a 'lambda'
// without its ':'.
func (t *Tracker) AnyOpenForOrLambda() bool {
	return len(t.forLoopDepths) > 0 || len(t.lambdaArgumentDepths) > 0
}

// MaxDelimiterPriority returns the highest priority among delimiters not in
// exclude, or ErrNoDelimiters.
func (t *Tracker) MaxDelimiterPriority(exclude ...cst.NodeID) (Priority, error) {
	skip := make(map[cst.NodeID]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	best, found := NoPriority, false
	for id, p := range t.Delimiters {
		if _, ok := skip[id]; ok {
			continue
		}
		if !found || p > best {
			best, found = p, true
		}
	}
	if !found {
		return NoPriority, ErrNoDelimiters
	}
	return best, nil
}

// DelimiterCountWithPriority counts delimiters of priority p; NoPriority
// means the line maximum. A line without delimiters yields 0.
func (t *Tracker) DelimiterCountWithPriority(p Priority) int {
	if len(t.Delimiters) == 0 {
		return 0
	}
	if p == NoPriority {
		p, _ = t.MaxDelimiterPriority()
	}
	n := 0
	for _, dp := range t.Delimiters {
		if dp == p {
			n++
		}
	}
	return n
}

// OpenLSQB returns the innermost unmatched '[' one level up, if any.
func (t *Tracker) OpenLSQB() (cst.NodeID, bool) {
	id, ok := t.bracketMatch[bracketKey{t.Depth - 1, token.RSqb}]
	return id, ok
}
