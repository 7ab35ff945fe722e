// Package brackets tracks bracket nesting over one logical line and ranks
// the depth-0 delimiters a line may be split at.
//
// A Tracker is fed leaves in source order. It stamps every leaf with its
// bracket depth, links closing brackets to their openers and records the
// split priority of depth-0 delimiters. Annotations are written to the
// tree's side table, so trackers over disjoint lines may run concurrently.
package brackets
