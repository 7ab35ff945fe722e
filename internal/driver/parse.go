package driver

import (
	"pyfmt/internal/cst"
	"pyfmt/internal/diag"
	"pyfmt/internal/format"
	"pyfmt/internal/mode"
	"pyfmt/internal/parser"
	"pyfmt/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	// Tree is nil when no grammar accepted the file; the reason is in Bag.
	Tree     *cst.Tree
	Bag      *diag.Bag
	Features []mode.Feature
	Targets  []mode.TargetVersion
}

// Parse loads a file and parses it with grammar fallback. Only load errors
// are returned; parse failures end up in the bag.
func Parse(filePath string, targets []mode.TargetVersion, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	res := &ParseResult{FileSet: fs, File: file, Bag: bag, Targets: targets}

	tree, err := parser.Parse(string(file.Content), targets, parser.Options{
		Path:     filePath,
		Reporter: diag.BagReporter{Bag: bag},
	})
	if err != nil {
		bag.Add(Diagnose(file, err))
		return res, nil
	}
	res.Tree = tree
	ev := format.FeaturesUsed(tree)
	res.Features = ev.Features()
	if len(targets) == 0 {
		res.Targets = mode.InferTargetVersions(ev)
	}
	return res, nil
}
