// Package symboltest provides an in-memory symbol model for tests. It plays
// the part of a host front end without parsing or type checking anything.
package symboltest

import (
	"iter"

	"github.com/olehluchkiv/apishape/internal/symbol"
)

// Type is a hand-built resolved type. Namespace paths are dot-separated.
type Type struct {
	TypeName   string
	Path       string
	Params     []string
	Tag        symbol.Intrinsic
	Definition *Type
	ElemType   *Type
	Supers     []*Type
}

// Named returns a type declared in the dotted namespace path.
func Named(path, name string, typeParams ...string) *Type {
	return &Type{TypeName: name, Path: path, Params: typeParams}
}

// Basic returns an intrinsic type.
func Basic(tag symbol.Intrinsic) *Type {
	return &Type{TypeName: tag.String(), Tag: tag}
}

// Array returns an array of elem.
func Array(elem *Type) *Type {
	return &Type{TypeName: elem.TypeName + "[]", ElemType: elem}
}

// Instantiate returns a constructed form of the generic definition t. Like
// hosts that expose type arguments only, the result declares no type
// parameters of its own, so it matches t only through Origin.
func (t *Type) Instantiate() *Type {
	return &Type{TypeName: t.TypeName, Path: t.Path, Tag: t.Tag, Definition: t}
}

// Extends appends supertypes and returns t.
func (t *Type) Extends(supers ...*Type) *Type {
	t.Supers = append(t.Supers, supers...)
	return t
}

func (t *Type) Name() string { return t.TypeName }

func (t *Type) Namespace(depth int) (string, bool) {
	return symbol.PathSegment(t.Path, '.', depth)
}

func (t *Type) TypeParameterCount() int        { return len(t.Params) }
func (t *Type) TypeParameterName(i int) string { return t.Params[i] }
func (t *Type) Intrinsic() symbol.Intrinsic    { return t.Tag }

func (t *Type) Origin() symbol.Type {
	if t.Definition != nil {
		return t.Definition
	}
	return t
}

func (t *Type) Elem() (symbol.Type, bool) {
	if t.ElemType == nil {
		return nil, false
	}
	return t.ElemType, true
}

func (t *Type) Supertypes() iter.Seq[symbol.Type] {
	return func(yield func(symbol.Type) bool) {
		for _, s := range t.Supers {
			if !yield(s) {
				return
			}
		}
	}
}

// Member is a hand-built resolved member.
type Member struct {
	MemberKind symbol.MemberKind
	MemberName string
	Declaring  *Type
	Params     []*Parameter
	VarArgs    bool
}

// Method returns a method of owner with the given parameters.
func Method(owner *Type, name string, params ...*Parameter) *Member {
	return newMember(symbol.KindMethod, owner, name, params)
}

// Constructor returns a constructor of owner.
func Constructor(owner *Type, params ...*Parameter) *Member {
	return newMember(symbol.KindConstructor, owner, owner.TypeName, params)
}

// Indexer returns an indexer of owner.
func Indexer(owner *Type, params ...*Parameter) *Member {
	return newMember(symbol.KindIndexer, owner, "this[]", params)
}

// Setter returns the generated setter of a property, taking one "value"
// parameter.
func Setter(owner *Type, property string, typ *Type) *Member {
	return newMember(symbol.KindSetter, owner, property, []*Parameter{Param("value", typ)})
}

func newMember(kind symbol.MemberKind, owner *Type, name string, params []*Parameter) *Member {
	m := &Member{MemberKind: kind, MemberName: name, Declaring: owner, Params: params}
	for i, p := range params {
		p.ordinal = i
		p.member = m
	}
	return m
}

func (m *Member) Kind() symbol.MemberKind { return m.MemberKind }
func (m *Member) Name() string            { return m.MemberName }
func (m *Member) IsVarArgs() bool         { return m.VarArgs }

func (m *Member) Owner() symbol.Type {
	if m.Declaring == nil {
		return nil
	}
	return m.Declaring
}

func (m *Member) Parameters() []symbol.Parameter {
	out := make([]symbol.Parameter, len(m.Params))
	for i, p := range m.Params {
		out[i] = p
	}
	return out
}

// Parameter is a hand-built formal parameter.
type Parameter struct {
	ParamName string
	ParamType *Type
	Ref       symbol.RefKind
	Variadic  bool

	ordinal int
	member  *Member
}

// Param returns a plain by-value parameter.
func Param(name string, typ *Type) *Parameter {
	return &Parameter{ParamName: name, ParamType: typ}
}

// AsVariadic marks the parameter as variadic and returns it.
func (p *Parameter) AsVariadic() *Parameter {
	p.Variadic = true
	return p
}

// WithRef sets the by-reference modifier and returns p.
func (p *Parameter) WithRef(k symbol.RefKind) *Parameter {
	p.Ref = k
	return p
}

func (p *Parameter) Name() string            { return p.ParamName }
func (p *Parameter) Ordinal() int            { return p.ordinal }
func (p *Parameter) RefKind() symbol.RefKind { return p.Ref }
func (p *Parameter) IsVariadic() bool        { return p.Variadic }

func (p *Parameter) Member() symbol.Member {
	if p.member == nil {
		return nil
	}
	return p.member
}

func (p *Parameter) Type() symbol.Type {
	if p.ParamType == nil {
		return nil
	}
	return p.ParamType
}
