package gotypes

import (
	"go/types"

	"github.com/olehluchkiv/apishape/internal/symbol"
)

// IndexerName is the member name given to synthesized indexers.
const IndexerName = "[]"

type goMember struct {
	kind   symbol.MemberKind
	name   string
	owner  symbol.Type
	params []symbol.Parameter
}

func (m *goMember) Kind() symbol.MemberKind        { return m.kind }
func (m *goMember) Name() string                   { return m.name }
func (m *goMember) Owner() symbol.Type             { return m.owner }
func (m *goMember) Parameters() []symbol.Parameter { return m.params }
func (m *goMember) IsVarArgs() bool                { return false }

type goParam struct {
	name     string
	typ      symbol.Type
	ordinal  int
	variadic bool
	member   *goMember
}

func (p *goParam) Name() string            { return p.name }
func (p *goParam) Type() symbol.Type       { return p.typ }
func (p *goParam) Ordinal() int            { return p.ordinal }
func (p *goParam) RefKind() symbol.RefKind { return symbol.RefNone }
func (p *goParam) IsVariadic() bool        { return p.variadic }
func (p *goParam) Member() symbol.Member   { return p.member }

func (m *goMember) addParam(name string, t symbol.Type, variadic bool) {
	m.params = append(m.params, &goParam{
		name:     name,
		typ:      t,
		ordinal:  len(m.params),
		variadic: variadic,
		member:   m,
	})
}

// Func returns the member view of a function or method. Methods are owned by
// their receiver's base type; functions by their package.
func (u *Universe) Func(fn *types.Func) symbol.Member {
	if fn == nil {
		return nil
	}
	sig := fn.Type().(*types.Signature)
	m := &goMember{name: fn.Name()}
	if recv := sig.Recv(); recv != nil {
		m.kind = symbol.KindMethod
		m.owner = u.Type(recv.Type())
	} else {
		m.kind = symbol.KindFunction
		m.owner = Package(fn.Pkg())
	}
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		m.addParam(p.Name(), u.Type(p.Type()), sig.Variadic() && i == params.Len()-1)
	}
	return m
}

// Constructor returns the member view of a composite literal of struct type
// t: one parameter per field, in declaration order. It returns nil when t is
// not a struct.
func (u *Universe) Constructor(t types.Type) symbol.Member {
	t = deref(t)
	if t == nil {
		return nil
	}
	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return nil
	}
	owner := u.Type(t)
	m := &goMember{kind: symbol.KindConstructor, name: owner.Name(), owner: owner}
	for f := range st.Fields() {
		m.addParam(f.Name(), u.Type(f.Type()), false)
	}
	return m
}

// Indexer returns the member view of indexing a value of type t, with one
// "key" parameter. It returns nil when t cannot be indexed.
func (u *Universe) Indexer(t types.Type) symbol.Member {
	if t == nil {
		return nil
	}
	var key types.Type
	switch ut := deref(t).Underlying().(type) {
	case *types.Map:
		key = ut.Key()
	case *types.Slice, *types.Array:
		key = types.Typ[types.Int]
	case *types.Basic:
		if ut.Info()&types.IsString == 0 {
			return nil
		}
		key = types.Typ[types.Int]
	default:
		return nil
	}
	m := &goMember{kind: symbol.KindIndexer, name: IndexerName, owner: u.Type(t)}
	m.addParam("key", u.Type(key), false)
	return m
}
