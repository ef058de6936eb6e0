package gotypes

import (
	"go/ast"
	"go/constant"
	"go/types"
	"iter"

	"golang.org/x/tools/go/types/typeutil"

	"github.com/olehluchkiv/apishape/internal/binding"
	"github.com/olehluchkiv/apishape/internal/shape"
	"github.com/olehluchkiv/apishape/internal/symbol"
)

// Syntax binds a keyed composite-literal element to its field name. Go calls
// have no named arguments.
var Syntax = binding.SyntaxFunc[ast.Expr](func(arg ast.Expr) (string, bool) {
	kv, ok := arg.(*ast.KeyValueExpr)
	if !ok {
		return "", false
	}
	id, ok := kv.Key.(*ast.Ident)
	if !ok {
		return "", false
	}
	return id.Name, true
})

// Call is one invocation in a type-checked file: a function or method call,
// a struct composite literal, or an index expression.
type Call struct {
	Kind shape.Kind
	// Name is the callee as written, the struct type name, or the name of
	// the indexed expression.
	Name string
	Node ast.Node

	info     *types.Info
	resolver *binding.Resolver[ast.Expr]
}

// NodeTypes lists the node types NewCall accepts, for use with an
// inspector.Inspector.
var NodeTypes = []ast.Node{
	(*ast.CallExpr)(nil),
	(*ast.CompositeLit)(nil),
	(*ast.IndexExpr)(nil),
}

// NewCall returns the invocation n represents. ok is false for type
// conversions, builtin calls, generic instantiations, non-struct literals
// and anything else that is not an invocation.
func NewCall(u *Universe, info *types.Info, n ast.Node) (c *Call, ok bool) {
	switch n := n.(type) {
	case *ast.CallExpr:
		return newFuncCall(u, info, n)
	case *ast.CompositeLit:
		return newLiteral(u, info, n)
	case *ast.IndexExpr:
		return newIndex(u, info, n)
	}
	return nil, false
}

func newFuncCall(u *Universe, info *types.Info, call *ast.CallExpr) (*Call, bool) {
	if tv, ok := info.Types[call.Fun]; ok && tv.IsType() {
		return nil, false
	}
	var callee symbol.Member
	switch obj := typeutil.Callee(info, call).(type) {
	case *types.Builtin:
		return nil, false
	case *types.Func:
		callee = u.Func(obj)
	}
	return &Call{
		Kind:     shape.Method,
		Name:     exprName(call.Fun),
		Node:     call,
		info:     info,
		resolver: binding.New[ast.Expr](Syntax, call.Args, callee),
	}, true
}

func newLiteral(u *Universe, info *types.Info, lit *ast.CompositeLit) (*Call, bool) {
	t := info.TypeOf(lit)
	if t == nil {
		return nil, false
	}
	ctor := u.Constructor(t)
	if ctor == nil {
		return nil, false
	}
	return &Call{
		Kind:     shape.Constructor,
		Name:     ctor.Name(),
		Node:     lit,
		info:     info,
		resolver: binding.New[ast.Expr](Syntax, lit.Elts, ctor),
	}, true
}

func newIndex(u *Universe, info *types.Info, ix *ast.IndexExpr) (*Call, bool) {
	tv, ok := info.Types[ix.X]
	if !ok || !tv.IsValue() {
		return nil, false
	}
	indexer := u.Indexer(tv.Type)
	if indexer == nil {
		return nil, false
	}
	return &Call{
		Kind:     shape.Indexer,
		Name:     exprName(ix.X),
		Node:     ix,
		info:     info,
		resolver: binding.New[ast.Expr](Syntax, []ast.Expr{ix.Index}, indexer),
	}, true
}

// exprName returns the identifier an expression ends in: f, x.f, x.f[T].
func exprName(e ast.Expr) string {
	for {
		switch x := e.(type) {
		case *ast.Ident:
			return x.Name
		case *ast.SelectorExpr:
			return x.Sel.Name
		case *ast.ParenExpr:
			e = x.X
		case *ast.IndexExpr:
			e = x.X
		case *ast.IndexListExpr:
			e = x.X
		case *ast.StarExpr:
			e = x.X
		default:
			return ""
		}
	}
}

// Callee returns the resolved callee, or nil for calls through function
// values.
func (c *Call) Callee() symbol.Member { return c.resolver.Callee() }

// Resolver returns the argument-to-parameter binding of the call.
func (c *Call) Resolver() *binding.Resolver[ast.Expr] { return c.resolver }

// Len returns the number of arguments.
func (c *Call) Len() int { return c.resolver.Len() }

// Site returns the shape view of the argument at position.
func (c *Call) Site(position int) shape.Site {
	return shape.Site{
		Kind:      c.Kind,
		Name:      c.Name,
		Member:    c.resolver.Callee(),
		Arguments: c.resolver,
		Position:  position,
		Context:   c,
	}
}

// Sites yields the shape view of every argument in source order.
func (c *Call) Sites() iter.Seq[shape.Site] {
	return func(yield func(shape.Site) bool) {
		for i := range c.resolver.Len() {
			if !yield(c.Site(i)) {
				return
			}
		}
	}
}

// Value returns the argument expression at position, with the key of a
// keyed literal element stripped.
func (c *Call) Value(position int) ast.Expr {
	return unkey(c.resolver.Args()[position])
}

// Constant returns the compile-time value of the argument at position.
func (c *Call) Constant(position int) (constant.Value, bool) {
	tv, ok := c.info.Types[c.Value(position)]
	if !ok || tv.Value == nil {
		return nil, false
	}
	return tv.Value, true
}

// Arguments returns the value expressions bound to the parameter called
// name. ok is false when the callee is unresolved or has no such parameter.
func (c *Call) Arguments(name string) (values []ast.Expr, ok bool) {
	args, ok := c.resolver.ArgumentsNamed(name)
	if !ok {
		return nil, false
	}
	values = make([]ast.Expr, len(args))
	for i, a := range args {
		values[i] = unkey(a)
	}
	return values, true
}

// Argument returns the single value expression bound to the non-variadic
// parameter called name.
func (c *Call) Argument(name string) (ast.Expr, bool) {
	p, ok := c.resolver.ParameterNamed(name)
	if !ok {
		return nil, false
	}
	a, ok := c.resolver.Argument(p)
	if !ok {
		return nil, false
	}
	return unkey(a), true
}

// Info returns the type information the call was built from.
func (c *Call) Info() *types.Info { return c.info }

func unkey(e ast.Expr) ast.Expr {
	if kv, ok := e.(*ast.KeyValueExpr); ok {
		return kv.Value
	}
	return e
}
