package scanner

import (
	"cmp"
	"slices"
	"strings"
)

// Filter applies filtering options to the scan result. Go findings match the
// prefix against the import path, Python findings against the dotted module
// path.
func Filter(result *Result, opts Options) *Result {
	filtered := &Result{
		ModulePath:  result.ModulePath,
		Packages:    result.Packages,
		PythonFiles: result.PythonFiles,
	}
	for _, f := range result.Findings {
		if opts.Filter != "" && !strings.HasPrefix(f.Package, opts.Filter) {
			continue
		}
		if len(opts.Rules) > 0 && !slices.ContainsFunc(opts.Rules, func(r string) bool {
			return strings.TrimSpace(r) == f.Rule
		}) {
			continue
		}
		filtered.Findings = append(filtered.Findings, f)
	}
	return filtered
}

func sortFindings(fs []Finding) {
	slices.SortFunc(fs, func(a, b Finding) int {
		return cmp.Or(
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(a.Rule, b.Rule),
		)
	})
}
