// Package diag defines the diagnostic model shared by the lexer, the parser
// fallback and the verification driver.
//
// Diagnostic is the central record: Severity, Code (compact numeric id with a
// stable LEX/SYN/BRK/VER/IO string form), Message, the Primary span and
// optional Notes.
//
// Phases emit through a Reporter so they stay decoupled from storage.
// BagReporter aggregates into a Bag that supports sorting and deduplication;
// DedupReporter filters repeats before they reach the next reporter.
//
// Package diag does not format anything. Rendering lives in internal/diagfmt.
package diag
