// Package shape describes recognized call-site patterns declaratively.
//
// A Descriptor bundles independent predicates over one argument occurrence:
// the invoked member symbol, the invoked member name, the formal parameter
// the argument feeds, the argument list with the argument's position, and a
// by-reference modifier. IsMatch holds when every configured predicate holds;
// an unconfigured slot is a wildcard.
//
// Descriptors are built once per rule through the kind-specific factories and
// are immutable afterwards.
package shape

import (
	"github.com/olehluchkiv/apishape/internal/binding"
	"github.com/olehluchkiv/apishape/internal/member"
	"github.com/olehluchkiv/apishape/internal/symbol"
)

// Kind is the syntactic family of an invocation.
type Kind uint8

const (
	Method Kind = iota
	Constructor
	Indexer
	Attribute
)

func (k Kind) String() string {
	switch k {
	case Method:
		return "method"
	case Constructor:
		return "constructor"
	case Indexer:
		return "indexer"
	case Attribute:
		return "attribute"
	default:
		return "unknown"
	}
}

// Site is one argument occurrence at one call site.
type Site struct {
	Kind Kind
	// Name is the invoked member as written: the method or type name, the
	// attribute name, or for an indexer the name of the indexed expression.
	Name string
	// Member is the resolved invoked member, nil when unresolved.
	Member    symbol.Member
	Arguments binding.List
	// Position is the zero-based index of the argument under inspection.
	Position int
	// Context carries the host's call object for auxiliary checks.
	Context any
}

type (
	MemberPredicate       func(m symbol.Member) bool
	NamePredicate         func(name string, compare member.Compare) bool
	ParameterPredicate    func(p symbol.Parameter) bool
	ArgumentListPredicate func(args binding.List, position int) bool
	SitePredicate         func(s Site) bool
)

// Descriptor is an immutable call-site shape.
type Descriptor struct {
	kind         Kind
	member       MemberPredicate
	name         NamePredicate
	compare      member.Compare
	parameter    ParameterPredicate
	argumentList ArgumentListPredicate
	refKind      symbol.RefKind
	hasRefKind   bool
	valid        SitePredicate
}

// Option configures the optional slots of a Descriptor at construction.
type Option func(*Descriptor)

// WithRefKind requires the resolved parameter to carry the modifier k.
func WithRefKind(k symbol.RefKind) Option {
	return func(d *Descriptor) {
		d.refKind = k
		d.hasRefKind = true
	}
}

// WithValid sets the auxiliary predicate answered by IsValid.
func WithValid(p SitePredicate) Option {
	return func(d *Descriptor) { d.valid = p }
}

func build(kind Kind, m MemberPredicate, name NamePredicate, compare member.Compare,
	param ParameterPredicate, list ArgumentListPredicate, opts []Option) *Descriptor {
	d := &Descriptor{
		kind:         kind,
		member:       m,
		name:         name,
		compare:      compare,
		parameter:    param,
		argumentList: list,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Kind returns the invocation family d matches.
func (d *Descriptor) Kind() Kind { return d.kind }

// IsMatch reports whether s is an occurrence of the described shape.
func (d *Descriptor) IsMatch(s Site) bool {
	if s.Kind != d.kind {
		return false
	}
	if d.name != nil && !d.name(s.Name, d.compare) {
		return false
	}
	if d.member != nil && (s.Member == nil || !d.member(s.Member)) {
		return false
	}
	if d.argumentList != nil {
		if s.Arguments == nil || !d.argumentList(s.Arguments, binding.Positional(s.Arguments, s.Position)) {
			return false
		}
	}
	if d.parameter == nil && !d.hasRefKind {
		return true
	}
	if s.Arguments == nil {
		return false
	}
	p, ok := s.Arguments.Parameter(s.Position)
	if !ok {
		return false
	}
	if d.parameter != nil && !d.parameter(p) {
		return false
	}
	return !d.hasRefKind || p.RefKind() == d.refKind
}

// IsValid answers the auxiliary predicate. It is independent of IsMatch and
// holds when no auxiliary predicate was configured.
func (d *Descriptor) IsValid(s Site) bool {
	return d.valid == nil || d.valid(s)
}
