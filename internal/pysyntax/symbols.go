package pysyntax

import (
	"iter"

	"github.com/olehluchkiv/apishape/internal/symbol"
)

// pyType is a Python module or class. Namespaces are dot-separated module
// paths.
type pyType struct {
	name   string
	path   string
	supers []symbol.Type
}

// moduleType returns the owner pseudo-type of a module's functions.
func moduleType(path string) *pyType {
	parent, last := symbol.SplitLast(path, '.')
	return &pyType{name: last, path: parent}
}

func (t *pyType) Name() string { return t.name }

func (t *pyType) Namespace(depth int) (string, bool) {
	return symbol.PathSegment(t.path, '.', depth)
}

func (t *pyType) TypeParameterCount() int      { return 0 }
func (t *pyType) TypeParameterName(int) string { return "" }
func (t *pyType) Intrinsic() symbol.Intrinsic  { return symbol.IntrinsicNone }
func (t *pyType) Origin() symbol.Type          { return t }
func (t *pyType) Elem() (symbol.Type, bool)    { return nil, false }

func (t *pyType) Supertypes() iter.Seq[symbol.Type] {
	return func(yield func(symbol.Type) bool) {
		for _, s := range t.supers {
			if !yield(s) {
				return
			}
		}
	}
}

type pyMember struct {
	kind   symbol.MemberKind
	name   string
	owner  *pyType
	params []symbol.Parameter
}

func (m *pyMember) Kind() symbol.MemberKind        { return m.kind }
func (m *pyMember) Name() string                   { return m.name }
func (m *pyMember) Parameters() []symbol.Parameter { return m.params }
func (m *pyMember) IsVarArgs() bool                { return false }

func (m *pyMember) Owner() symbol.Type {
	if m.owner == nil {
		return nil
	}
	return m.owner
}

type pyParam struct {
	name     string
	ordinal  int
	variadic bool
	member   *pyMember
}

func (p *pyParam) Name() string            { return p.name }
func (p *pyParam) Ordinal() int            { return p.ordinal }
func (p *pyParam) RefKind() symbol.RefKind { return symbol.RefNone }
func (p *pyParam) IsVariadic() bool        { return p.variadic }
func (p *pyParam) Member() symbol.Member   { return p.member }

// Type is unknown: annotations are not evaluated.
func (p *pyParam) Type() symbol.Type { return nil }

func (m *pyMember) addParam(name string, variadic bool) {
	m.params = append(m.params, &pyParam{
		name:     name,
		ordinal:  len(m.params),
		variadic: variadic,
		member:   m,
	})
}

// class is one class definition.
type class struct {
	typ     *pyType
	ctor    *pyMember
	methods map[string]*pyMember
}

// module is the symbol table of one source file or stub.
type module struct {
	path    string
	typ     *pyType
	funcs   map[string][]*pyMember
	classes map[string]*class
}

func newModule(path string) *module {
	return &module{
		path:    path,
		typ:     moduleType(path),
		funcs:   make(map[string][]*pyMember),
		classes: make(map[string]*class),
	}
}

// lookup returns the candidates for a module-level name: the function
// definitions, or the constructor of a class.
func (m *module) lookup(name string) (members []*pyMember, ctor bool) {
	if fs := m.funcs[name]; len(fs) > 0 {
		return fs, false
	}
	if c, ok := m.classes[name]; ok {
		return []*pyMember{c.ctor}, true
	}
	return nil, false
}
