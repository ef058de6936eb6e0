package gotypes

import (
	"reflect"

	"golang.org/x/tools/go/analysis"
)

// Analyzer builds the package's Universe. Rules list it in Requires and read
// the result from pass.ResultOf.
var Analyzer = &analysis.Analyzer{
	Name:       "gotypes",
	Doc:        "collects the interfaces visible to a package for supertype queries",
	Run:        runUniverse,
	ResultType: reflect.TypeOf((*Universe)(nil)),
}

func runUniverse(pass *analysis.Pass) (any, error) {
	return NewUniverse(pass.Pkg), nil
}

// Of returns the universe computed for pass.
func Of(pass *analysis.Pass) *Universe {
	return pass.ResultOf[Analyzer].(*Universe)
}
