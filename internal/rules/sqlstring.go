package rules

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"

	"github.com/olehluchkiv/apishape/internal/gotypes"
	"github.com/olehluchkiv/apishape/internal/knowntype"
	"github.com/olehluchkiv/apishape/internal/member"
	"github.com/olehluchkiv/apishape/internal/shape"
)

// SQLString reports database/sql queries built from non-constant strings.
var SQLString = &analysis.Analyzer{
	Name:     "sqlstring",
	Doc:      "reports SQL queries assembled by string concatenation or fmt.Sprintf instead of placeholders",
	Requires: requires,
	Run:      runSQLString,
}

var queryArgument = shape.AnyMethodArgument(sqlMethods(), "query", member.CaseSensitive)

var sprintf = member.New(knowntype.Fmt, "Sprintf", member.CaseSensitive)

func sqlMethods() []*member.Descriptor {
	var ms []*member.Descriptor
	for _, owner := range []*knowntype.Descriptor{knowntype.SQLDB, knowntype.SQLTx, knowntype.SQLConn} {
		for _, name := range []string{
			"Query", "QueryContext",
			"QueryRow", "QueryRowContext",
			"Exec", "ExecContext",
			"Prepare", "PrepareContext",
		} {
			ms = append(ms, member.New(owner, name, member.CaseSensitive))
		}
	}
	return ms
}

func runSQLString(pass *analysis.Pass) (any, error) {
	u := gotypes.Of(pass)
	eachCall(pass, callNodes, func(c *gotypes.Call) {
		for s := range c.Sites() {
			if !queryArgument.IsMatch(s) {
				continue
			}
			q := ast.Unparen(c.Value(s.Position))
			if dynamicQuery(u, pass.TypesInfo, q) {
				pass.Reportf(q.Pos(), "SQL query built from non-constant strings; use query placeholders")
			}
		}
	})
	return nil, nil
}

// dynamicQuery reports whether e concatenates or formats a non-constant
// value into a string.
func dynamicQuery(u *gotypes.Universe, info *types.Info, e ast.Expr) bool {
	if tv, ok := info.Types[e]; ok && tv.Value != nil {
		return false
	}
	switch e := e.(type) {
	case *ast.BinaryExpr:
		return e.Op == token.ADD && (!isConstant(info, e.X) || !isConstant(info, e.Y))
	case *ast.CallExpr:
		c, ok := gotypes.NewCall(u, info, e)
		if !ok || c.Callee() == nil || !sprintf.Matches(c.Name, c.Callee()) {
			return false
		}
		args, _ := c.Arguments("a")
		for _, a := range args {
			if !isConstant(info, a) {
				return true
			}
		}
	}
	return false
}

func isConstant(info *types.Info, e ast.Expr) bool {
	tv, ok := info.Types[e]
	return ok && tv.Value != nil
}
