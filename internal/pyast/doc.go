// Package pyast builds abstract syntax trees from concrete trees and compares
// them for semantic equivalence.
//
// The AST mirrors the shape of Python's own ast module: every node has a class
// name and named fields, so two trees can be reduced to a canonical line stream
// (Stringify) and compared exactly (Equivalent). Parse tries every supported
// feature version with and without type comments and caches each attempt.
package pyast
