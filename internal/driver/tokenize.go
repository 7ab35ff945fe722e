package driver

import (
	"pyfmt/internal/diag"
	"pyfmt/internal/lexer"
	"pyfmt/internal/source"
	"pyfmt/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes a file. A fatal tokenizer error ends the token list with an
// Invalid marker and is added to the bag.
func Tokenize(path string, maxDiagnostics int, asyncKeywords bool) (*TokenizeResult, error) {
	// Создаём FileSet и загружаем файл
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	tokens, err := lexer.Tokenize(file, lexer.Options{
		Reporter:      diag.BagReporter{Bag: bag},
		AsyncKeywords: asyncKeywords,
	})
	if le, ok := err.(*lexer.Error); ok {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     lexerCode(le.Msg),
			Message:  le.Msg,
			Primary:  le.Span,
		})
	}

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
