package rules

import (
	"go/constant"
	"net/textproto"

	"golang.org/x/tools/go/analysis"

	"github.com/olehluchkiv/apishape/internal/gotypes"
	"github.com/olehluchkiv/apishape/internal/knowntype"
	"github.com/olehluchkiv/apishape/internal/member"
	"github.com/olehluchkiv/apishape/internal/shape"
)

// HeaderKey reports http.Header index expressions with a constant key that
// is not in canonical form.
var HeaderKey = &analysis.Analyzer{
	Name:     "headerkey",
	Doc:      "reports http.Header map accesses with a non-canonical constant key, which never match",
	Requires: requires,
	Run:      runHeaderKey,
}

var headerIndex = shape.IndexerArgument(knowntype.HTTPHeader, nil, member.CaseSensitive, 0)

func runHeaderKey(pass *analysis.Pass) (any, error) {
	eachCall(pass, indexNodes, func(c *gotypes.Call) {
		s := c.Site(0)
		if !headerIndex.IsMatch(s) {
			return
		}
		v, ok := c.Constant(0)
		if !ok || v.Kind() != constant.String {
			return
		}
		key := constant.StringVal(v)
		if canonical := textproto.CanonicalMIMEHeaderKey(key); canonical != key {
			pass.Reportf(c.Value(0).Pos(), "header key %q is not canonical; use %q or Header.Get", key, canonical)
		}
	})
	return nil, nil
}
