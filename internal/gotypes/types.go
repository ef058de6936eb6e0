// Package gotypes adapts go/types and go/ast to the symbol model so the
// matching engine can run over type-checked Go packages.
//
// Pointer indirection is transparent: *T and T are the same symbol.Type.
// Slices and arrays are both arrays. A package is exposed as the owner
// pseudo-type of its package-level functions, named by the last element of
// its import path.
package gotypes

import (
	"go/types"
	"iter"

	"github.com/olehluchkiv/apishape/internal/symbol"
)

// goType wraps a types.Type with pointers stripped.
type goType struct {
	t types.Type
	u *Universe
}

// Type returns the symbol view of t, or nil when t is nil.
func (u *Universe) Type(t types.Type) symbol.Type {
	t = deref(t)
	if t == nil {
		return nil
	}
	return goType{t: t, u: u}
}

func deref(t types.Type) types.Type {
	for t != nil {
		t = types.Unalias(t)
		p, ok := t.(*types.Pointer)
		if !ok {
			return t
		}
		t = p.Elem()
	}
	return nil
}

func (g goType) Name() string {
	switch t := g.t.(type) {
	case *types.Named:
		return t.Obj().Name()
	case *types.TypeParam:
		return t.Obj().Name()
	case *types.Basic:
		return t.Name()
	case *types.Slice:
		return elemName(t.Elem()) + "[]"
	case *types.Array:
		return elemName(t.Elem()) + "[]"
	}
	return types.TypeString(g.t, shortQualifier)
}

func elemName(t types.Type) string {
	if e := deref(t); e != nil {
		return goType{t: e}.Name()
	}
	return ""
}

func shortQualifier(p *types.Package) string { return p.Name() }

func (g goType) Namespace(depth int) (string, bool) {
	n, ok := g.t.(*types.Named)
	if !ok || n.Obj().Pkg() == nil {
		return "", false
	}
	return symbol.PathSegment(n.Obj().Pkg().Path(), '/', depth)
}

func (g goType) TypeParameterCount() int {
	if n, ok := g.t.(*types.Named); ok {
		return n.TypeParams().Len()
	}
	return 0
}

func (g goType) TypeParameterName(i int) string {
	return g.t.(*types.Named).TypeParams().At(i).Obj().Name()
}

func (g goType) Intrinsic() symbol.Intrinsic {
	b, ok := g.t.(*types.Basic)
	if !ok {
		return symbol.IntrinsicNone
	}
	return intrinsic(b.Kind())
}

func intrinsic(k types.BasicKind) symbol.Intrinsic {
	switch k {
	case types.Bool, types.UntypedBool:
		return symbol.Bool
	case types.Int, types.UntypedInt:
		return symbol.Int
	case types.Int8:
		return symbol.Int8
	case types.Int16:
		return symbol.Int16
	case types.Int32, types.UntypedRune:
		return symbol.Int32
	case types.Int64:
		return symbol.Int64
	case types.Uint:
		return symbol.Uint
	case types.Uint8:
		return symbol.Uint8
	case types.Uint16:
		return symbol.Uint16
	case types.Uint32:
		return symbol.Uint32
	case types.Uint64:
		return symbol.Uint64
	case types.Uintptr:
		return symbol.Uintptr
	case types.Float32:
		return symbol.Float32
	case types.Float64, types.UntypedFloat:
		return symbol.Float64
	case types.Complex64:
		return symbol.Complex64
	case types.Complex128, types.UntypedComplex:
		return symbol.Complex128
	case types.String, types.UntypedString:
		return symbol.String
	case types.UnsafePointer:
		return symbol.UnsafePointer
	}
	return symbol.IntrinsicNone
}

func (g goType) Origin() symbol.Type {
	if n, ok := g.t.(*types.Named); ok && n.Origin() != n {
		return goType{t: n.Origin(), u: g.u}
	}
	return g
}

func (g goType) Elem() (symbol.Type, bool) {
	var e types.Type
	switch t := g.t.(type) {
	case *types.Slice:
		e = t.Elem()
	case *types.Array:
		e = t.Elem()
	default:
		return nil, false
	}
	if e = deref(e); e == nil {
		return nil, false
	}
	return goType{t: e, u: g.u}, true
}

// Supertypes yields the interfaces of the universe the type implements,
// through either its value or its pointer method set.
func (g goType) Supertypes() iter.Seq[symbol.Type] {
	return func(yield func(symbol.Type) bool) {
		if g.u == nil {
			return
		}
		for iface := range g.u.Implemented(g.t) {
			if !yield(goType{t: iface, u: g.u}) {
				return
			}
		}
	}
}

// pkgType is the owner pseudo-type of a package's functions.
type pkgType struct {
	path string
}

// Package returns the owner pseudo-type for p.
func Package(p *types.Package) symbol.Type {
	if p == nil {
		return nil
	}
	return pkgType{path: p.Path()}
}

func (p pkgType) Name() string {
	_, last := symbol.SplitLast(p.path, '/')
	return last
}

func (p pkgType) Namespace(depth int) (string, bool) {
	parent, _ := symbol.SplitLast(p.path, '/')
	return symbol.PathSegment(parent, '/', depth)
}

func (pkgType) TypeParameterCount() int           { return 0 }
func (pkgType) TypeParameterName(int) string      { return "" }
func (pkgType) Intrinsic() symbol.Intrinsic       { return symbol.IntrinsicNone }
func (p pkgType) Origin() symbol.Type             { return p }
func (pkgType) Elem() (symbol.Type, bool)         { return nil, false }
func (pkgType) Supertypes() iter.Seq[symbol.Type] { return func(func(symbol.Type) bool) {} }
