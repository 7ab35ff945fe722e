// Package token defines Python token kinds and keyword tables for pyfmt.
// Invariants:
//   - Token.Text is the exact source slice of the token (no copies of escapes).
//   - Token.Prefix holds everything between the previous token and this one:
//     spaces, comments, blank lines, backslash continuations. Concatenating
//     Prefix+Text over all tokens reproduces the source byte for byte.
//   - Keywords are lexed as Name; the parser decides by Text. Only async/await
//     may become dedicated kinds, depending on the grammar variant.
//   - INDENT, DEDENT and ENDMARKER carry empty Text.
package token
