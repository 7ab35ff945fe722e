package diagfmt

import (
	"fmt"
	"io"

	"pyfmt/internal/source"
	"pyfmt/internal/token"
)

type TokenOutput struct {
	Kind   string `json:"kind" yaml:"kind"`
	Text   string `json:"text,omitempty" yaml:"text,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Start  uint32 `json:"start" yaml:"start"`
	End    uint32 `json:"end" yaml:"end"`
	Line   uint32 `json:"line" yaml:"line"`
	Col    uint32 `json:"col" yaml:"col"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		line := fmt.Sprintf("%3d: %-15s", i+1, tok.Kind.String())
		if tok.Text != "" {
			line += fmt.Sprintf(" %q", tok.Text)
		}
		line += fmt.Sprintf(" at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		if tok.Prefix != "" {
			line += fmt.Sprintf(" (prefix: %q)", tok.Prefix)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}

		if tok.Kind == token.EndMarker {
			break
		}
	}
	return nil
}

// BuildTokensOutput converts tokens up to ENDMARKER.
func BuildTokensOutput(tokens []token.Token, fs *source.FileSet) []TokenOutput {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		pos, _ := fs.Resolve(tok.Span)
		output = append(output, TokenOutput{
			Kind:   tok.Kind.String(),
			Text:   tok.Text,
			Prefix: tok.Prefix,
			Start:  tok.Span.Start,
			End:    tok.Span.End,
			Line:   pos.Line,
			Col:    pos.Col,
		})
		if tok.Kind == token.EndMarker {
			break
		}
	}
	return output
}

// FormatTokens renders tokens in the given format.
func FormatTokens(w io.Writer, tokens []token.Token, fs *source.FileSet, f Format) error {
	if f == FormatPretty {
		return FormatTokensPretty(w, tokens, fs)
	}
	return Encode(w, BuildTokensOutput(tokens, fs), f)
}
