package mode

// Feature is a language capability that differs between target versions.
type Feature uint8

const (
	FStrings Feature = iota
	NumericUnderscores
	TrailingCommaInCall
	TrailingCommaInDef
	AsyncKeywords
	AsyncIdentifiers
	FutureAnnotations
	AssignmentExpressions
	PosOnlyArguments
	UnpackingOnFlow
	AnnAssignExtendedRHS
	RelaxedDecorators
	ParenthesizedContextManagers
	PatternMatching
	ExceptStar
	VariadicGenerics
	TypeParams
	TypeParamDefaults

	featureCount
)

var featureNames = [featureCount]string{
	FStrings:                     "f-strings",
	NumericUnderscores:           "numeric underscores",
	TrailingCommaInCall:          "trailing comma in call",
	TrailingCommaInDef:           "trailing comma in def",
	AsyncKeywords:                "async keywords",
	AsyncIdentifiers:             "async identifiers",
	FutureAnnotations:            "future annotations",
	AssignmentExpressions:        "assignment expressions",
	PosOnlyArguments:             "positional-only arguments",
	UnpackingOnFlow:              "unpacking on return/yield",
	AnnAssignExtendedRHS:         "extended annotated assignment",
	RelaxedDecorators:            "relaxed decorators",
	ParenthesizedContextManagers: "parenthesized context managers",
	PatternMatching:              "pattern matching",
	ExceptStar:                   "except*",
	VariadicGenerics:             "variadic generics",
	TypeParams:                   "type parameters",
	TypeParamDefaults:            "type parameter defaults",
}

func (f Feature) String() string {
	if f < featureCount {
		return featureNames[f]
	}
	return "unknown feature"
}

type featureSet uint32

func setOf(fs ...Feature) featureSet {
	var s featureSet
	for _, f := range fs {
		s |= 1 << f
	}
	return s
}

func (s featureSet) has(f Feature) bool { return s&(1<<f) != 0 }

var (
	py33Features  = setOf(AsyncIdentifiers)
	py35Features  = py33Features | setOf(TrailingCommaInCall)
	py36Features  = py35Features | setOf(FStrings, NumericUnderscores, TrailingCommaInDef)
	py37Features  = py36Features&^setOf(AsyncIdentifiers) | setOf(AsyncKeywords, FutureAnnotations)
	py38Features  = py37Features | setOf(AssignmentExpressions, PosOnlyArguments, UnpackingOnFlow, AnnAssignExtendedRHS)
	py39Features  = py38Features | setOf(RelaxedDecorators, ParenthesizedContextManagers)
	py310Features = py39Features | setOf(PatternMatching)
	py311Features = py310Features | setOf(ExceptStar, VariadicGenerics)
	py312Features = py311Features | setOf(TypeParams)
	py313Features = py312Features | setOf(TypeParamDefaults)
)

var versionFeatures = map[TargetVersion]featureSet{
	PY33: py33Features, PY34: py33Features, PY35: py35Features, PY36: py36Features,
	PY37: py37Features, PY38: py38Features, PY39: py39Features, PY310: py310Features,
	PY311: py311Features, PY312: py312Features, PY313: py313Features,
}

// Supports reports whether a single version has the feature.
func (v TargetVersion) Supports(f Feature) bool {
	return versionFeatures[v].has(f)
}

// SupportsFeature reports whether every version in targets has the feature.
// An empty target set vacuously supports everything.
func SupportsFeature(targets []TargetVersion, f Feature) bool {
	for _, v := range targets {
		if !v.Supports(f) {
			return false
		}
	}
	return true
}
