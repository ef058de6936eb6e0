// Package rules is the catalog of checks built on the matching engine: one
// analysis.Analyzer per Go rule and one PyRule per Python rule.
package rules

import (
	"fmt"
	"go/ast"
	"slices"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/olehluchkiv/apishape/internal/gotypes"
)

// requires lists the analyzers every Go rule depends on.
var requires = []*analysis.Analyzer{inspect.Analyzer, gotypes.Analyzer}

// Go is the Go rule catalog.
var Go = []*analysis.Analyzer{
	WeakCrypto,
	InsecureTLS,
	ShellExec,
	SQLString,
	HeaderKey,
	UncheckedWrite,
}

// Python is the Python rule catalog.
var Python = []*PyRule{
	SubprocessShell,
	YAMLLoad,
}

// Names returns the names of every rule, Go rules first.
func Names() []string {
	names := make([]string, 0, len(Go)+len(Python))
	for _, a := range Go {
		names = append(names, a.Name)
	}
	for _, r := range Python {
		names = append(names, r.Name)
	}
	return names
}

// Select returns the rules named in names, or every rule when names is empty.
// Unknown names are an error.
func Select(names []string) ([]*analysis.Analyzer, []*PyRule, error) {
	if len(names) == 0 {
		return Go, Python, nil
	}
	var goRules []*analysis.Analyzer
	var pyRules []*PyRule
	for _, name := range names {
		name = strings.TrimSpace(name)
		if i := slices.IndexFunc(Go, func(a *analysis.Analyzer) bool { return a.Name == name }); i >= 0 {
			goRules = append(goRules, Go[i])
			continue
		}
		if i := slices.IndexFunc(Python, func(r *PyRule) bool { return r.Name == name }); i >= 0 {
			pyRules = append(pyRules, Python[i])
			continue
		}
		return nil, nil, fmt.Errorf("unknown rule %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return goRules, pyRules, nil
}

// eachCall calls fn for every invocation of the node types in filter.
func eachCall(pass *analysis.Pass, filter []ast.Node, fn func(c *gotypes.Call)) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	u := gotypes.Of(pass)
	insp.Preorder(filter, func(n ast.Node) {
		if c, ok := gotypes.NewCall(u, pass.TypesInfo, n); ok {
			fn(c)
		}
	})
}

var (
	callNodes    = []ast.Node{(*ast.CallExpr)(nil)}
	literalNodes = []ast.Node{(*ast.CompositeLit)(nil)}
	indexNodes   = []ast.Node{(*ast.IndexExpr)(nil)}
)
