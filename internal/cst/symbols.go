package cst

// Symbol names a grammar rule. Zero means "this node is a leaf".
type Symbol uint16

const (
	SymLeaf Symbol = iota

	FileInput
	SimpleStmt
	ExprStmt
	AnnAssign
	DelStmt
	PassStmt
	BreakStmt
	ContinueStmt
	ReturnStmt
	RaiseStmt
	GlobalStmt
	AssertStmt
	ImportName
	ImportFrom
	ImportAsName
	ImportAsNames
	DottedAsName
	DottedAsNames
	DottedName

	IfStmt
	WhileStmt
	ForStmt
	TryStmt
	ExceptClause
	WithStmt
	AsexprTest
	Suite
	Funcdef
	Parameters
	Typedargslist
	Tname
	TnameStar
	Varargslist
	Classdef
	Decorator
	Decorators
	Decorated
	AsyncFuncdef
	AsyncStmt
	MatchStmt
	CaseBlock
	Guard
	Patterns
	Pattern
	SubjectExpr

	NamedexprTest
	Test
	Lambdef
	OrTest
	AndTest
	NotTest
	Comparison
	CompOp
	StarExpr
	Expr
	XorExpr
	AndExpr
	ShiftExpr
	ArithExpr
	Term
	Factor
	Power
	Atom
	Listmaker
	TestlistGexp
	Trailer
	Subscriptlist
	Subscript
	Sliceop
	Exprlist
	Testlist
	TestlistStarExpr
	Dictsetmaker
	Arglist
	Argument
	CompFor
	CompIf
	OldCompFor
	OldCompIf
	YieldExpr
	YieldArg

	symbolCount
)

var symbolNames = [symbolCount]string{
	SymLeaf: "leaf", FileInput: "file_input", SimpleStmt: "simple_stmt", ExprStmt: "expr_stmt",
	AnnAssign: "annassign", DelStmt: "del_stmt", PassStmt: "pass_stmt", BreakStmt: "break_stmt",
	ContinueStmt: "continue_stmt", ReturnStmt: "return_stmt", RaiseStmt: "raise_stmt",
	GlobalStmt: "global_stmt", AssertStmt: "assert_stmt", ImportName: "import_name",
	ImportFrom: "import_from", ImportAsName: "import_as_name", ImportAsNames: "import_as_names",
	DottedAsName: "dotted_as_name", DottedAsNames: "dotted_as_names", DottedName: "dotted_name",
	IfStmt: "if_stmt", WhileStmt: "while_stmt", ForStmt: "for_stmt", TryStmt: "try_stmt",
	ExceptClause: "except_clause", WithStmt: "with_stmt", AsexprTest: "asexpr_test", Suite: "suite",
	Funcdef: "funcdef", Parameters: "parameters", Typedargslist: "typedargslist", Tname: "tname",
	TnameStar: "tname_star", Varargslist: "varargslist", Classdef: "classdef",
	Decorator: "decorator", Decorators: "decorators", Decorated: "decorated",
	AsyncFuncdef: "async_funcdef", AsyncStmt: "async_stmt", MatchStmt: "match_stmt",
	CaseBlock: "case_block", Guard: "guard", Patterns: "patterns", Pattern: "pattern", SubjectExpr: "subject_expr",
	NamedexprTest: "namedexpr_test", Test: "test", Lambdef: "lambdef", OrTest: "or_test",
	AndTest: "and_test", NotTest: "not_test", Comparison: "comparison", CompOp: "comp_op",
	StarExpr: "star_expr", Expr: "expr", XorExpr: "xor_expr", AndExpr: "and_expr",
	ShiftExpr: "shift_expr", ArithExpr: "arith_expr", Term: "term", Factor: "factor",
	Power: "power", Atom: "atom", Listmaker: "listmaker", TestlistGexp: "testlist_gexp",
	Trailer: "trailer", Subscriptlist: "subscriptlist", Subscript: "subscript", Sliceop: "sliceop",
	Exprlist: "exprlist", Testlist: "testlist", TestlistStarExpr: "testlist_star_expr",
	Dictsetmaker: "dictsetmaker", Arglist: "arglist", Argument: "argument", CompFor: "comp_for",
	CompIf: "comp_if", OldCompFor: "old_comp_for", OldCompIf: "old_comp_if",
	YieldExpr: "yield_expr", YieldArg: "yield_arg",
}

func (s Symbol) String() string {
	if s < symbolCount {
		return symbolNames[s]
	}
	return "unknown"
}

// IsCompFor reports whether s is a comprehension for-clause (either flavour).
func (s Symbol) IsCompFor() bool { return s == CompFor || s == OldCompFor }

// IsCompIf reports whether s is a comprehension if-clause (either flavour).
func (s Symbol) IsCompIf() bool { return s == CompIf || s == OldCompIf }
