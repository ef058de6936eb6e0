package gotypes

import (
	"go/types"
	"iter"
	"sort"
)

// importDepth bounds how far the import graph is followed when collecting
// interfaces. Two levels reach the io interfaces behind os, net and bufio.
const importDepth = 2

// Universe is the set of interfaces a package can see, used to answer
// supertype queries for chain-mode member matching. It is immutable once
// built and safe for concurrent use.
type Universe struct {
	pkg    *types.Package
	ifaces []*types.Named
}

// NewUniverse collects the non-empty, non-generic named interfaces declared
// in pkg, in the packages it imports (up to importDepth levels) and the
// predeclared error interface.
func NewUniverse(pkg *types.Package) *Universe {
	u := &Universe{pkg: pkg}
	seen := make(map[string]bool)

	collectFromScope := func(scope *types.Scope, pkgPath string) {
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() {
				continue
			}
			named, ok := tn.Type().(*types.Named)
			if !ok || named.TypeParams().Len() > 0 {
				continue
			}
			iface, ok := named.Underlying().(*types.Interface)
			if !ok || iface.NumMethods() == 0 {
				continue
			}
			key := pkgPath + "." + tn.Name()
			if seen[key] {
				continue
			}
			seen[key] = true
			u.ifaces = append(u.ifaces, named)
		}
	}

	visited := make(map[*types.Package]bool)
	var walk func(p *types.Package, depth int)
	walk = func(p *types.Package, depth int) {
		if p == nil || visited[p] {
			return
		}
		visited[p] = true
		collectFromScope(p.Scope(), p.Path())
		if depth == importDepth {
			return
		}
		for _, imp := range p.Imports() {
			walk(imp, depth+1)
		}
	}
	walk(pkg, 0)

	if tn, ok := types.Universe.Lookup("error").(*types.TypeName); ok {
		if named, ok := tn.Type().(*types.Named); ok && !seen["builtin.error"] {
			seen["builtin.error"] = true
			u.ifaces = append(u.ifaces, named)
		}
	}

	sort.Slice(u.ifaces, func(i, j int) bool {
		return ifaceKey(u.ifaces[i]) < ifaceKey(u.ifaces[j])
	})
	return u
}

func ifaceKey(n *types.Named) string {
	if n.Obj().Pkg() == nil {
		return "builtin." + n.Obj().Name()
	}
	return n.Obj().Pkg().Path() + "." + n.Obj().Name()
}

// Package returns the package the universe was built for.
func (u *Universe) Package() *types.Package { return u.pkg }

// Interfaces returns the collected interfaces ordered by qualified name.
func (u *Universe) Interfaces() []*types.Named { return u.ifaces }

// Implemented yields the interfaces t implements through its value or
// pointer method set. An interface does not implement itself.
func (u *Universe) Implemented(t types.Type) iter.Seq[*types.Named] {
	return func(yield func(*types.Named) bool) {
		v := deref(t)
		if v == nil {
			return
		}
		_, isIface := v.Underlying().(*types.Interface)
		for _, named := range u.ifaces {
			if types.Identical(v, named) {
				continue
			}
			iface := named.Underlying().(*types.Interface)
			if !types.Implements(v, iface) && (isIface || !types.Implements(types.NewPointer(v), iface)) {
				continue
			}
			if !yield(named) {
				return
			}
		}
	}
}
