package rules

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/olehluchkiv/apishape/internal/gotypes"
	"github.com/olehluchkiv/apishape/internal/knowntype"
	"github.com/olehluchkiv/apishape/internal/member"
	"github.com/olehluchkiv/apishape/internal/shape"
)

// UncheckedWrite reports io.Writer.Write calls whose error is discarded.
var UncheckedWrite = &analysis.Analyzer{
	Name:     "uncheckedwrite",
	Doc:      "reports Write calls on io.Writer implementations whose error result is discarded",
	Requires: requires,
	Run:      runUncheckedWrite,
}

var (
	anyWrite = shape.MethodInvocation(
		shape.MemberIs(member.NewChain(knowntype.IOWriter, "Write", member.CaseSensitive)),
		shape.NameIs("Write"), member.CaseSensitive, nil, nil)

	// Writers documented to always return a nil error.
	infallibleWrite = []*member.Descriptor{
		member.New(knowntype.BytesBuffer, "Write", member.CaseSensitive),
		member.New(knowntype.StringsBuilder, "Write", member.CaseSensitive),
	}
)

func runUncheckedWrite(pass *analysis.Pass) (any, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	u := gotypes.Of(pass)
	insp.Preorder([]ast.Node{(*ast.ExprStmt)(nil)}, func(n ast.Node) {
		call, ok := ast.Unparen(n.(*ast.ExprStmt).X).(*ast.CallExpr)
		if !ok {
			return
		}
		c, ok := gotypes.NewCall(u, pass.TypesInfo, call)
		if !ok || !anyWrite.IsMatch(c.Site(0)) {
			return
		}
		if member.MatchesAny(c.Name, c.Callee(), infallibleWrite...) {
			return
		}
		pass.Reportf(call.Pos(), "error returned by %s.Write is not checked", c.Callee().Owner().Name())
	})
	return nil, nil
}
